package app

import "errors"

// Error kinds used across orchestrators. Callers classify with errors.Is,
// details travel in the wrapping message.
var (
	ErrNotFound           = errors.New("not found")
	ErrNameConflict       = errors.New("name is already registered")
	ErrInvalidInput       = errors.New("invalid input")
	ErrParse              = errors.New("descriptor parse error")
	ErrNoConfigFound      = errors.New("no configuration document found")
	ErrIO                 = errors.New("i/o failure")
	ErrRegistrationFailed = errors.New("registration failed")
)
