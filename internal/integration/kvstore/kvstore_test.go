package kvstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecovekt/backend/internal/application/adapter"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func newBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()
	store, err := OpenBadgerStore(InMemoryBadgerConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestKeyValueStores(t *testing.T) {
	redisStore, _ := newRedisStore(t)

	stores := map[string]adapter.KeyValueStore{
		"memory":     NewMemoryStore(),
		"redis":      redisStore,
		"badger":     newBadgerStore(t),
		"namespaced": Namespaced(NewMemoryStore(), "device-1"),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, found, err := store.Get(ctx, "pendingWasteEntries")
			require.NoError(t, err)
			assert.False(t, found, "absent key must not be found")

			require.NoError(t, store.Set(ctx, "pendingWasteEntries", `[{"amountKg":1}]`))
			value, found, err := store.Get(ctx, "pendingWasteEntries")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, `[{"amountKg":1}]`, value)

			require.NoError(t, store.Set(ctx, "pendingWasteEntries", `[]`))
			value, _, err = store.Get(ctx, "pendingWasteEntries")
			require.NoError(t, err)
			assert.Equal(t, `[]`, value, "set must overwrite")

			require.NoError(t, store.Remove(ctx, "pendingWasteEntries"))
			_, found, err = store.Get(ctx, "pendingWasteEntries")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, store.Remove(ctx, "never-set"), "removing an absent key is not an error")
		})
	}
}

func TestNamespaced_IsolatesOwners(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryStore()
	alice := Namespaced(backend, "alice")
	bob := Namespaced(backend, "bob")

	require.NoError(t, alice.Set(ctx, "k", "a"))
	require.NoError(t, bob.Set(ctx, "k", "b"))

	v, _, _ := alice.Get(ctx, "k")
	assert.Equal(t, "a", v)
	v, _, _ = bob.Get(ctx, "k")
	assert.Equal(t, "b", v)
	assert.Equal(t, 2, backend.Len())

	raw, found, _ := backend.Get(ctx, "alice:k")
	assert.True(t, found)
	assert.Equal(t, "a", raw)
}

func TestRedisStore_BackendFailure(t *testing.T) {
	store, mr := newRedisStore(t)
	mr.Close()

	_, _, err := store.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, store.Set(context.Background(), "k", "v"))
}

func TestOpenBadgerStore_RequiresPath(t *testing.T) {
	_, err := OpenBadgerStore(BadgerConfig{})
	assert.Error(t, err)
}

func TestBadgerStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := OpenBadgerStore(BadgerConfig{Path: dir})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "pendingWasteEntries", "[1]"))
	require.NoError(t, store.Close())

	reopened, err := OpenBadgerStore(BadgerConfig{Path: dir})
	require.NoError(t, err)
	defer reopened.Close()

	value, found, err := reopened.Get(ctx, "pendingWasteEntries")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[1]", value)
}
