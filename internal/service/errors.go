package service

import "errors"

// Sentinel errors services return to handlers. Handlers map these onto
// HTTP statuses; anything else is an upstream failure and surfaces as a
// generic server error with the detail kept in the logs.
var (
	ErrNotFound       = errors.New("not found")
	ErrDenied         = errors.New("access denied")
	ErrClosed         = errors.New("form is closed")
	ErrInvalid        = errors.New("invalid request")
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid credentials")
)
