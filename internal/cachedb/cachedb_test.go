package cachedb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	store, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestVersionEmptyForUnknownCategory(t *testing.T) {
	store := openTestStore(t)

	version, err := store.Version(context.Background(), "monsters")
	require.NoError(t, err)
	assert.Empty(t, version)
}

func TestReplaceAndLoadRoundtrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	records := []Record{
		{Key: "chicken", Payload: []byte(`{"code":"chicken","level":1}`)},
		{Key: "cow", Payload: []byte(`{"code":"cow","level":8}`)},
	}
	require.NoError(t, store.Replace(ctx, "monsters", "v1.0", records))

	version, err := store.Version(ctx, "monsters")
	require.NoError(t, err)
	assert.Equal(t, "v1.0", version)

	loaded, err := store.Load(ctx, "monsters")
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	byKey := make(map[string]string)
	for _, r := range loaded {
		byKey[r.Key] = string(r.Payload)
	}
	assert.JSONEq(t, `{"code":"chicken","level":1}`, byKey["chicken"])
	assert.JSONEq(t, `{"code":"cow","level":8}`, byKey["cow"])
}

func TestReplaceSwapsWholesale(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, "monsters", "v1.0", []Record{
		{Key: "chicken", Payload: []byte(`{}`)},
		{Key: "cow", Payload: []byte(`{}`)},
	}))
	require.NoError(t, store.Replace(ctx, "monsters", "v2.0", []Record{
		{Key: "ogre", Payload: []byte(`{}`)},
	}))

	loaded, err := store.Load(ctx, "monsters")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "ogre", loaded[0].Key)

	version, err := store.Version(ctx, "monsters")
	require.NoError(t, err)
	assert.Equal(t, "v2.0", version)
}

func TestCategoriesAreIsolated(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, "monsters", "v1.0", []Record{
		{Key: "chicken", Payload: []byte(`{}`)},
	}))
	require.NoError(t, store.Replace(ctx, "items", "v1.0", []Record{
		{Key: "copper_ore", Payload: []byte(`{}`)},
	}))

	require.NoError(t, store.Replace(ctx, "monsters", "v2.0", nil))

	items, err := store.Load(ctx, "items")
	require.NoError(t, err)
	assert.Len(t, items, 1, "replacing one category must not touch another")

	monsters, err := store.Load(ctx, "monsters")
	require.NoError(t, err)
	assert.Empty(t, monsters)
}

func TestReopenPreservesData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Replace(ctx, "monsters", "v1.0", []Record{
		{Key: "chicken", Payload: []byte(`{"level":1}`)},
	}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	version, err := reopened.Version(ctx, "monsters")
	require.NoError(t, err)
	assert.Equal(t, "v1.0", version)

	loaded, err := reopened.Load(ctx, "monsters")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "chicken", loaded[0].Key)
}
