// Package storage persists the application state as a single opaque
// document. Every Save replaces the whole document; there is no partial
// write path.
package storage

import "errors"

// ErrNotExist is returned by Load when no document has been saved yet.
// Callers treat it as empty state, never as a failure.
var ErrNotExist = errors.New("state document does not exist")

type Storage interface {
	Load() ([]byte, error)
	Save(data []byte) error
}
