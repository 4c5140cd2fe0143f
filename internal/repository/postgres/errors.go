package postgres

import "errors"

var (
	ErrFieldsNotAllowedToUpdate = errors.New("fields not allowed to update")
	ErrNothingToUpdate          = errors.New("nothing to update")
)
