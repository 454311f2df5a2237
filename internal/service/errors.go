package service

import "errors"

// Shared domain error kinds. Services wrap these with entity context so
// handlers can map any domain failure to a status code with errors.Is
// while keeping a uniform policy: an ownership mismatch surfaces as
// ErrNotFound, never as a hint that the entity exists.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalid      = errors.New("invalid request")
)
