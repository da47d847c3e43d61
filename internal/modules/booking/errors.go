package booking

import "errors"

var (
	ErrUnauthorized = errors.New("actor could not be resolved")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("booking conflict")
)
