package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// brokenStore fails every operation, for fail-open coverage.
type brokenStore struct{}

func (brokenStore) Get(ctx context.Context, key string) (string, error) {
	return "", errors.New("store unavailable")
}

func (brokenStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return errors.New("store unavailable")
}

func (brokenStore) DeleteByPattern(ctx context.Context, pattern string) error {
	return errors.New("store unavailable")
}

func TestReadThrough_MissThenHit(t *testing.T) {
	store := NewMemoryStore()
	rt := NewReadThrough(store, zerolog.Nop())
	ctx := context.Background()

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return map[string]string{"message": "fresh"}, nil
	}

	first, hit, err := rt.Fetch(ctx, "k", time.Minute, compute)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, calls)

	// The second fetch is served from cache: compute is not re-invoked
	// and the payload is byte-identical.
	second, hit, err := rt.Fetch(ctx, "k", time.Minute, compute)
	assert.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestReadThrough_FailOpen(t *testing.T) {
	rt := NewReadThrough(brokenStore{}, zerolog.Nop())
	ctx := context.Background()

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return map[string]string{"message": "fresh"}, nil
	}

	// A broken store never fails the request: every fetch recomputes.
	body, hit, err := rt.Fetch(ctx, "k", time.Minute, compute)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.JSONEq(t, `{"message":"fresh"}`, string(body))

	_, _, err = rt.Fetch(ctx, "k", time.Minute, compute)
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestReadThrough_ComputeErrorNotCached(t *testing.T) {
	store := NewMemoryStore()
	rt := NewReadThrough(store, zerolog.Nop())
	ctx := context.Background()

	computeErr := errors.New("query failed")
	_, _, err := rt.Fetch(ctx, "k", time.Minute, func() (interface{}, error) {
		return nil, computeErr
	})
	assert.ErrorIs(t, err, computeErr)
	assert.Equal(t, 0, store.Len())
}

func TestReadThrough_ExpiredEntryRecomputes(t *testing.T) {
	store := NewMemoryStore()
	rt := NewReadThrough(store, zerolog.Nop())
	ctx := context.Background()

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return "v", nil
	}

	rt.Fetch(ctx, "k", 10*time.Millisecond, compute)
	time.Sleep(20 * time.Millisecond)
	_, hit, err := rt.Fetch(ctx, "k", 10*time.Millisecond, compute)

	assert.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, calls)
}

func TestInvalidator_SweepsCollections(t *testing.T) {
	store := NewMemoryStore()
	inv := NewInvalidator(store, zerolog.Nop())
	ctx := context.Background()

	store.Set(ctx, Key("/api/products?page=1", "admin"), "list", 0)
	store.Set(ctx, Key("/api/products/stats", "admin"), "stats", 0)
	store.Set(ctx, Key("/api/products/p1", "user"), "record", 0)

	inv.InvalidateProducts(ctx)
	assert.Equal(t, 0, store.Len())
}

func TestInvalidator_SingleProduct(t *testing.T) {
	store := NewMemoryStore()
	inv := NewInvalidator(store, zerolog.Nop())
	ctx := context.Background()

	store.Set(ctx, Key("/api/products/p1", "admin"), "record", 0)
	store.Set(ctx, Key("/api/products/p1", "user"), "record", 0)
	store.Set(ctx, Key("/api/products/p2", "admin"), "other", 0)

	inv.InvalidateProduct(ctx, "p1")

	// Both roles' entries for p1 are gone, p2 survives.
	_, err := store.Get(ctx, Key("/api/products/p1", "admin"))
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = store.Get(ctx, Key("/api/products/p1", "user"))
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = store.Get(ctx, Key("/api/products/p2", "admin"))
	assert.NoError(t, err)
}
