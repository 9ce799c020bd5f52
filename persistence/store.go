package persistence

import "context"

// Store holds one serialized record
// Read returns ErrNotFound when nothing has been written yet
type Store interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Location() string
	Close() error
}
