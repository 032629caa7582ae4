package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
)

// Key names a whole-value JSON blob kept across restarts.
type Key string

const (
	KeyUser          Key = "userData"
	KeyCompany       Key = "dataEmpresa"
	KeyOpenRegisters Key = "cajasActivas"
)

// Validator is implemented by stored shapes that can tell a well-formed value
// from a legacy or truncated one.
type Validator interface {
	Valid() bool
}

// Entry is a single key/value pair for WriteAll.
type Entry struct {
	Key   Key
	Value any
}

var (
	errNullValue   = errors.New("null value")
	errInvalidData = errors.New("value failed validation")
)

// Store is the persistent session store. None of its methods report errors:
// failures are logged and surface as a missing value or a false result.
type Store struct {
	backend Backend
}

func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Read decodes the value under key into dst, which must be a non-nil pointer.
// A value that is not JSON, is JSON null, does not fit dst's shape or fails
// Validator is removed and reported as absent. dst is left untouched unless
// Read returns true.
func (s *Store) Read(ctx context.Context, key Key, dst any) bool {
	raw, err := s.backend.Get(ctx, string(key))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("reading stored value", "key", key, "error", err)
		}

		return false
	}

	if err := decodeInto(raw, dst); err != nil {
		slog.Warn("discarding corrupted stored value", "key", key, "error", err)
		s.Remove(ctx, key)

		return false
	}

	return true
}

// Write replaces the value under key.
func (s *Store) Write(ctx context.Context, key Key, value any) bool {
	return s.WriteAll(ctx, Entry{Key: key, Value: value})
}

// WriteAll replaces several values in one backend call. Nothing is written if
// any value fails to encode, and a backend failure leaves the previous values
// in place.
func (s *Store) WriteAll(ctx context.Context, entries ...Entry) bool {
	if len(entries) == 0 {
		return true
	}

	encoded := make(map[string][]byte, len(entries))
	keys := make([]Key, 0, len(entries))

	for _, e := range entries {
		b, err := json.Marshal(e.Value)
		if err != nil {
			slog.Warn("encoding value for store", "key", e.Key, "error", err)
			return false
		}

		encoded[string(e.Key)] = b
		keys = append(keys, e.Key)
	}

	if err := s.backend.SetMany(ctx, encoded); err != nil {
		slog.Warn("writing stored values", "keys", keys, "error", err)
		return false
	}

	return true
}

// Remove deletes the given keys. Missing keys are ignored.
func (s *Store) Remove(ctx context.Context, keys ...Key) {
	if len(keys) == 0 {
		return
	}

	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = string(k)
	}

	if err := s.backend.Delete(ctx, names...); err != nil {
		slog.Warn("removing stored values", "keys", keys, "error", err)
	}
}

func decodeInto(raw []byte, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", dst)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return errNullValue
	}

	fresh := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal(trimmed, fresh.Interface()); err != nil {
		return err
	}

	if v, ok := fresh.Interface().(Validator); ok && !v.Valid() {
		return errInvalidData
	}

	rv.Elem().Set(fresh.Elem())

	return nil
}
