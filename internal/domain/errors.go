package domain

import "errors"

// Failure kinds surfaced by the services. Callers wrap them with
// fmt.Errorf("%w: ...") and the transport matches with errors.Is to pick a
// status code.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)
