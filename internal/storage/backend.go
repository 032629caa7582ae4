package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Backend when a key holds no value.
var ErrNotFound = errors.New("storage: key not found")

//go:generate mockgen -source=backend.go -destination=backend_mock.go -package=storage
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// SetMany writes every entry or none of them.
	SetMany(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
}
