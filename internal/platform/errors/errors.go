package apperrors

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInvalidDuration   = errors.New("invalid duration")
	ErrInvalidTransition = errors.New("invalid timer transition")
	ErrCapabilityDenied  = errors.New("alert capability not granted")
	ErrPersistence       = errors.New("persistence failure")
)
