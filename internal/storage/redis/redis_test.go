package redis_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cajero/internal/storage"
	"github.com/MrJamesThe3rd/cajero/internal/storage/redis"
)

// Runs only when TEST_REDIS_URL points at a disposable Redis.
func TestBackend_Redis(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := context.Background()

	rdb, err := redis.Dial(ctx, url)
	require.NoError(t, err)
	defer rdb.Close()

	b := redis.New(rdb, "test:"+uuid.NewString()+":")

	require.NoError(t, b.SetMany(ctx, map[string][]byte{"cajasActivas": []byte(`[]`)}))

	got, err := b.Get(ctx, "cajasActivas")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))

	require.NoError(t, b.Delete(ctx, "cajasActivas"))

	_, err = b.Get(ctx, "cajasActivas")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDial_InvalidURL(t *testing.T) {
	_, err := redis.Dial(context.Background(), "not-a-url://")
	assert.Error(t, err)
}
