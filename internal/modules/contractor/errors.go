package contractor

import "errors"

var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("contractor not found")
	ErrDuplicateName = errors.New("contractor name already exists")
)
