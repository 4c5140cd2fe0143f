package model

import "errors"

var (
	ErrUnknownCategory   = errors.New("unknown post category")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidIndexEntry = errors.New("invalid index entry")
)
