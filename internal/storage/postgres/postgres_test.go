package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cajero/internal/database"
	"github.com/MrJamesThe3rd/cajero/internal/storage"
	"github.com/MrJamesThe3rd/cajero/internal/storage/postgres"
)

// Runs only when TEST_DATABASE_URL points at a disposable Postgres.
func TestBackend_Postgres(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	db, err := database.New(ctx, url)
	require.NoError(t, err)
	defer db.Close()

	b := postgres.New(db, "test-"+uuid.NewString())
	require.NoError(t, b.Migrate(ctx))

	_, err = b.Get(ctx, "userData")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, b.SetMany(ctx, map[string][]byte{
		"userData":    []byte(`{"id":"u1"}`),
		"dataEmpresa": []byte(`{"id":"c1"}`),
	}))

	got, err := b.Get(ctx, "dataEmpresa")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"c1"}`, string(got))

	require.NoError(t, b.Delete(ctx, "userData", "dataEmpresa"))

	_, err = b.Get(ctx, "userData")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
