package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ReadThrough wraps read operations with the cache-aside sequence:
// check the store, on a hit return the cached payload verbatim, on a miss
// compute the fresh response, store it best-effort and return it.
//
// Every cache failure is fail-open: a broken Get counts as a miss and a
// broken Set is logged and ignored, so the request is never worse off
// than with no cache at all.
type ReadThrough struct {
	store Store
	log   zerolog.Logger
}

// NewReadThrough creates a ReadThrough over the given store.
func NewReadThrough(store Store, log zerolog.Logger) *ReadThrough {
	return &ReadThrough{store: store, log: log}
}

// Fetch returns the serialized response body for key. The hit result
// reports whether the payload came from the cache. compute is only
// invoked on a miss; its result is marshaled, stored with ttl and
// returned. Only compute errors propagate.
func (r *ReadThrough) Fetch(ctx context.Context, key string, ttl time.Duration, compute func() (interface{}, error)) ([]byte, bool, error) {
	cached, err := r.store.Get(ctx, key)
	if err == nil {
		r.log.Debug().Str("key", key).Msg("cache hit")
		return []byte(cached), true, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		r.log.Warn().Err(err).Str("key", key).Msg("cache read failed, computing fresh")
	} else {
		r.log.Debug().Str("key", key).Msg("cache miss")
	}

	fresh, err := compute()
	if err != nil {
		return nil, false, err
	}

	body, err := json.Marshal(fresh)
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal response for caching: %w", err)
	}

	if err := r.store.Set(ctx, key, string(body), ttl); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return body, false, nil
}
