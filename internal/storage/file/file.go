// Package file keeps stored values in a local bbolt database, one bucket per
// session profile.
package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/MrJamesThe3rd/cajero/internal/storage"
)

// FileName is the database file created inside the store directory.
const FileName = "cajero.db"

// ErrLocked is returned when another process holds the database open.
var ErrLocked = errors.New("store file is in use by another process")

const lockTimeout = time.Second

type Backend struct {
	db     *bolt.DB
	bucket []byte
}

// New creates dir if needed and opens dir/cajero.db, keeping values for
// profile in their own bucket.
func New(dir, profile string) (*Backend, error) {
	if profile == "" {
		return nil, errors.New("store profile is required")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := bolt.Open(filepath.Join(dir, FileName), 0o600, &bolt.Options{Timeout: lockTimeout})
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, ErrLocked
		}

		return nil, fmt.Errorf("opening store file: %w", err)
	}

	b := &Backend{db: db, bucket: []byte(profile)}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(b.bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket %s: %w", profile, err)
	}

	return b, nil
}

func (b *Backend) Close() error {
	return b.db.Close()
}

func (b *Backend) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte

	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(b.bucket).Get([]byte(key))
		if v == nil {
			return storage.ErrNotFound
		}

		// v is only valid inside the transaction.
		value = bytes.Clone(v)

		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("getting %s: %w", key, err)
	}

	return value, nil
}

// SetMany writes all entries in one transaction: either every key changes or
// none does.
func (b *Backend) SetMany(_ context.Context, entries map[string][]byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(b.bucket)

		for key, value := range entries {
			if err := bucket.Put([]byte(key), value); err != nil {
				return fmt.Errorf("setting %q: %w", key, err)
			}
		}

		return nil
	})
}

func (b *Backend) Delete(_ context.Context, keys ...string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(b.bucket)

		for _, key := range keys {
			if err := bucket.Delete([]byte(key)); err != nil {
				return fmt.Errorf("deleting %q: %w", key, err)
			}
		}

		return nil
	})
}
