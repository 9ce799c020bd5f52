package persistence

import "errors"

var (
	// ErrPersistenceUnavailable wraps every storage I/O failure
	ErrPersistenceUnavailable = errors.New("persistence unavailable")

	// ErrNotFound means no record has been saved yet
	ErrNotFound = errors.New("no save found")

	// ErrCorruptRecord means the stored document could not be parsed at all
	ErrCorruptRecord = errors.New("corrupt save record")
)
