package service

import "errors"

var (
	ErrInternal         = errors.New("internal server error")
	ErrRemoteRead       = errors.New("failed to read from post store")
	ErrRemoteWrite      = errors.New("failed to write to post store")
	ErrConsistencyDrift = errors.New("post saved but user post index is out of sync")
	ErrPostNotFound     = errors.New("post not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrForbidden        = errors.New("only the creator can change this post")
	ErrFieldNotAllowed  = errors.New("field not allowed to update")
	ErrInvalidInput     = errors.New("invalid input")
	ErrLockTimeout      = errors.New("timed out waiting for user post index")
)
