package file_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cajero/internal/storage"
	"github.com/MrJamesThe3rd/cajero/internal/storage/file"
)

func open(t *testing.T, dir, profile string) *file.Backend {
	t.Helper()

	b, err := file.New(dir, profile)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	return b
}

func TestBackend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")

	b := open(t, dir, "default")

	_, err := b.Get(ctx, "userData")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, b.SetMany(ctx, map[string][]byte{
		"userData":    []byte(`{"id":"u1"}`),
		"dataEmpresa": []byte(`{"id":"c1"}`),
	}))

	got, err := b.Get(ctx, "userData")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1"}`, string(got))

	require.NoError(t, b.Delete(ctx, "userData", "missing"))

	_, err = b.Get(ctx, "userData")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.FileExists(t, filepath.Join(dir, file.FileName))
}

func TestBackend_SetManyIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	b := open(t, t.TempDir(), "default")

	require.NoError(t, b.SetMany(ctx, map[string][]byte{
		"userData":    []byte(`{"id":"u1"}`),
		"dataEmpresa": []byte(`{"id":"c1"}`),
	}))

	// bbolt refuses an empty key, failing the transaction after or before the
	// other puts depending on map order.
	err := b.SetMany(ctx, map[string][]byte{
		"userData":    []byte(`{"id":"u2"}`),
		"dataEmpresa": []byte(`{"id":"c2"}`),
		"":            []byte(`{}`),
	})
	require.Error(t, err)

	user, err := b.Get(ctx, "userData")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1"}`, string(user), "previous session survives a failed write")

	company, err := b.Get(ctx, "dataEmpresa")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"c1"}`, string(company))
}

func TestBackend_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	b, err := file.New(dir, "default")
	require.NoError(t, err)
	require.NoError(t, b.SetMany(ctx, map[string][]byte{"userData": []byte(`{"id":"u1"}`)}))
	require.NoError(t, b.Close())

	reopened := open(t, dir, "default")

	got, err := reopened.Get(ctx, "userData")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1"}`, string(got))
}

func TestBackend_ProfilesAreSeparate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	b, err := file.New(dir, "mostrador")
	require.NoError(t, err)
	require.NoError(t, b.SetMany(ctx, map[string][]byte{"userData": []byte(`{"id":"u1"}`)}))
	require.NoError(t, b.Close())

	other := open(t, dir, "deposito")

	_, err = other.Get(ctx, "userData")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBackend_SecondOpenIsLocked(t *testing.T) {
	dir := t.TempDir()
	open(t, dir, "default")

	_, err := file.New(dir, "default")
	assert.ErrorIs(t, err, file.ErrLocked)
}

func TestBackend_WorksBehindStore(t *testing.T) {
	ctx := context.Background()
	s := storage.New(open(t, t.TempDir(), "default"))

	require.True(t, s.Write(ctx, storage.KeyOpenRegisters, []map[string]string{{"id": "caja1"}}))

	var got []map[string]string
	require.True(t, s.Read(ctx, storage.KeyOpenRegisters, &got))
	assert.Equal(t, "caja1", got[0]["id"])

	var wrongShape map[string]string
	assert.False(t, s.Read(ctx, storage.KeyOpenRegisters, &wrongShape))
	assert.False(t, s.Read(ctx, storage.KeyOpenRegisters, &got), "corrupted entry must not come back")
}
