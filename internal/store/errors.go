package store

import "errors"

// Sentinel errors surfaced directly to callers as user-facing conditions.
var (
	ErrDuplicateAccount  = errors.New("account already exists")
	ErrNotFound          = errors.New("not found")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrQuotaExceeded     = errors.New("invoice quota exceeded")
	ErrNoSession         = errors.New("no active session")
)
