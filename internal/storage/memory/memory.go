// Package memory keeps stored values in process memory. It backs tests and
// the "memory" store driver.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/MrJamesThe3rd/cajero/internal/storage"
)

type Backend struct {
	mu     sync.Mutex
	values map[string][]byte
}

func New() *Backend {
	return &Backend{values: make(map[string][]byte)}
}

func (b *Backend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	v, ok := b.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return append([]byte(nil), v...), nil
}

func (b *Backend) SetMany(_ context.Context, entries map[string][]byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for k, v := range entries {
		b.values[k] = append([]byte(nil), v...)
	}

	return nil
}

func (b *Backend) Delete(_ context.Context, keys ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, k := range keys {
		delete(b.values, k)
	}

	return nil
}

// Put stores raw bytes without encoding. Tests use it to plant corrupted values.
func (b *Backend) Put(key string, raw []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.values[key] = append([]byte(nil), raw...)
}

// Snapshot returns a copy of everything currently stored.
func (b *Backend) Snapshot() map[string][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	return maps.Clone(b.values)
}
