package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "cache:/api/products#admin", Key("/api/products", "admin"))
	assert.Equal(t, "cache:/api/products?category=Electronics&page=2#user", Key("/api/products?category=Electronics&page=2", "user"))

	// The query string is taken verbatim: reordered parameters produce
	// distinct keys on purpose.
	assert.NotEqual(t, Key("/api/products?page=1&limit=10", "admin"), Key("/api/products?limit=10&page=1", "admin"))

	// Roles never share an entry.
	assert.NotEqual(t, Key("/api/products", "admin"), Key("/api/products", "user"))
}

func TestProductAndStatsPatterns(t *testing.T) {
	assert.Equal(t, "cache:/api/products/abc-123#*", ProductPattern("abc-123"))
	assert.Equal(t, "cache:/api/products/stats#*", StatsPattern())
}

func TestCollectionPatterns(t *testing.T) {
	patterns := CollectionPatterns()
	assert.Contains(t, patterns, "cache:/api/products*")
	assert.Contains(t, patterns, "cache:/api/products/stats#*")
}
