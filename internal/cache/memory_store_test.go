package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_GetSet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, store.Set(ctx, "k", "v", time.Minute))
	val, err := store.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Equal(t, "v", val)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	assert.NoError(t, store.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryStore_DeleteByPattern(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Set(ctx, "cache:/api/products", "list", 0)
	store.Set(ctx, "cache:/api/products?page=2", "page2", 0)
	store.Set(ctx, "cache:/api/products/abc", "record", 0)
	store.Set(ctx, "cache:/api/other", "other", 0)

	assert.NoError(t, store.DeleteByPattern(ctx, "cache:/api/products*"))

	_, err := store.Get(ctx, "cache:/api/products")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = store.Get(ctx, "cache:/api/products?page=2")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = store.Get(ctx, "cache:/api/products/abc")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// Keys outside the prefix survive.
	val, err := store.Get(ctx, "cache:/api/other")
	assert.NoError(t, err)
	assert.Equal(t, "other", val)
}

func TestMemoryStore_DeleteExactKey(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Set(ctx, "cache:/api/products/abc", "record", 0)
	store.Set(ctx, "cache:/api/products/abcdef", "longer", 0)

	// Without a trailing '*' the pattern is an exact key.
	assert.NoError(t, store.DeleteByPattern(ctx, "cache:/api/products/abc"))

	_, err := store.Get(ctx, "cache:/api/products/abc")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = store.Get(ctx, "cache:/api/products/abcdef")
	assert.NoError(t, err)
}
