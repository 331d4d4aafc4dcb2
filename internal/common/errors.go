package common

import "errors"

// Error kinds at the core boundary. The command layer maps these onto
// user-visible messages; they never carry request-specific text so callers
// can safely switch on them with errors.Is.
var (
	ErrInvalidOrder    = errors.New("invalid order")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrNotFound        = errors.New("not found")
	ErrInconsistent    = errors.New("inconsistent book state")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrAlreadyExists   = errors.New("already exists")
	ErrNotApproved     = errors.New("claim not approved")
	ErrExpired         = errors.New("claim expired")
)
