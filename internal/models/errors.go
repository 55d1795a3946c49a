package models

import "errors"

// Error classes used across services. Handlers map these to HTTP status
// codes with errors.Is; anything outside the taxonomy is reported as an
// internal error without leaking the underlying cause.
var (
	ErrNotFound     = errors.New("not found")
	ErrPrecondition = errors.New("precondition failed")
	ErrPermission   = errors.New("permission denied")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal error")
)
