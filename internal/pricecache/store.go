package pricecache

import (
	"context"

	"github.com/rotisserie/eris"
)

// ErrNotFound is returned by Store.Read when nothing has been saved yet.
var ErrNotFound = eris.New("pricecache: no cached document")

// Store persists the serialized cache document.
type Store interface {
	// Read returns the saved document or ErrNotFound.
	Read(ctx context.Context) ([]byte, error)
	// Write replaces the saved document atomically.
	Write(ctx context.Context, data []byte) error
	// Remove deletes the saved document. Removing nothing is not an error.
	Remove(ctx context.Context) error
	// Name identifies the backend in logs.
	Name() string
	Close() error
}
