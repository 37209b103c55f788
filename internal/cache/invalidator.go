package cache

import (
	"context"

	"github.com/rs/zerolog"
)

// Invalidator removes cached responses after successful mutations.
// Handlers fire it in a goroutine so the client never waits on the cache;
// failures are logged and left for the entries' time-to-live to repair.
type Invalidator struct {
	store Store
	log   zerolog.Logger
}

// NewInvalidator creates an Invalidator over the given store.
func NewInvalidator(store Store, log zerolog.Logger) *Invalidator {
	return &Invalidator{store: store, log: log}
}

// InvalidateProducts sweeps all listing views and the statistics entry.
// Called after every successful create, update or delete.
func (i *Invalidator) InvalidateProducts(ctx context.Context) {
	for _, pattern := range CollectionPatterns() {
		if err := i.store.DeleteByPattern(ctx, pattern); err != nil {
			i.log.Error().Err(err).Str("pattern", pattern).Msg("cache invalidation failed")
			return
		}
	}
	i.log.Debug().Msg("product cache invalidated")
}

// InvalidateProduct additionally removes the cached responses of a
// single product across all roles. Called after update and delete.
func (i *Invalidator) InvalidateProduct(ctx context.Context, id string) {
	pattern := ProductPattern(id)
	if err := i.store.DeleteByPattern(ctx, pattern); err != nil {
		i.log.Error().Err(err).Str("pattern", pattern).Msg("cache invalidation failed")
		return
	}
	i.log.Debug().Str("id", id).Msg("product entry invalidated")
}
