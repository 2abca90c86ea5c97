package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"household-shopping/internal/database/dbtest"
)

func storeContract(t *testing.T, s KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.ReadKey(ctx, CurrentListKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.WriteKey(ctx, CurrentListKey, "list-1"))
	value, ok, err := s.ReadKey(ctx, CurrentListKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "list-1", value)

	require.NoError(t, s.WriteKey(ctx, CurrentListKey, "list-2"))
	value, _, err = s.ReadKey(ctx, CurrentListKey)
	require.NoError(t, err)
	assert.Equal(t, "list-2", value, "writes overwrite")

	require.NoError(t, s.RemoveKey(ctx, CurrentListKey))
	_, ok, err = s.ReadKey(ctx, CurrentListKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.RemoveKey(ctx, CurrentListKey), "removing a missing key is fine")
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(filepath.Join(dir, "state"))
	require.NoError(t, err)
	storeContract(t, s)

	t.Run("survives restart", func(t *testing.T) {
		ctx := context.Background()
		require.NoError(t, s.WriteKey(ctx, CurrentListKey, "list-9"))

		reopened, err := NewFileStore(filepath.Join(dir, "state"))
		require.NoError(t, err)
		value, ok, err := reopened.ReadKey(ctx, CurrentListKey)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "list-9", value)

		entries, err := os.ReadDir(filepath.Join(dir, "state"))
		require.NoError(t, err)
		assert.Len(t, entries, 1, "no temp files left behind")
	})
}

func TestSQLiteStore(t *testing.T) {
	db := dbtest.Open(t)
	storeContract(t, NewSQLiteStore(db, "chat:1"))

	t.Run("namespaces are isolated", func(t *testing.T) {
		ctx := context.Background()
		a := NewSQLiteStore(db, "chat:1")
		b := NewSQLiteStore(db, "chat:2")
		require.NoError(t, a.WriteKey(ctx, CurrentListKey, "list-a"))

		_, ok, err := b.ReadKey(ctx, CurrentListKey)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	s := NewRedisStore(client, "tg:42")
	storeContract(t, s)

	require.NoError(t, s.WriteKey(context.Background(), CurrentListKey, "list-r"))
	got, err := mr.Get("tg:42:" + CurrentListKey)
	require.NoError(t, err)
	assert.Equal(t, "list-r", got)
}
