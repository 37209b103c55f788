package cache

// Key derivation for cached responses and their invalidation patterns.
//
// Read keys embed the request path and raw query string verbatim, so
// "?page=1&limit=10" and "?limit=10&page=1" cache separately. The query
// string is deliberately not canonicalized; both entries hold valid
// responses and expire on their own.
//
// Keys are additionally scoped by caller role. Listing and single-record
// responses differ per role (users never see private products), and a
// shared key would replay one role's payload to the other. '#' cannot
// occur in a server-side URL, so it separates the role suffix safely.

const (
	keyPrefix    = "cache:"
	productsPath = "/api/products"
)

// Per-endpoint time-to-live values, in seconds.
const (
	ListTTLSeconds    = 300
	ProductTTLSeconds = 600
	StatsTTLSeconds   = 60
)

// Key derives the cache key for a GET request from its original URL
// (path plus query string, exactly as received) and the caller role.
func Key(originalURL, role string) string {
	return keyPrefix + originalURL + "#" + role
}

// ProductPattern matches the cached responses of a single product for
// every role.
func ProductPattern(id string) string {
	return keyPrefix + productsPath + "/" + id + "#*"
}

// StatsPattern matches the cached statistics responses for every role.
func StatsPattern() string {
	return keyPrefix + productsPath + "/stats#*"
}

// CollectionPatterns are the wildcard patterns swept after any successful
// mutation: every paginated/filtered listing view plus the statistics
// entry. The listing pattern also matches single-product keys, which is
// harmless; a fresh read repopulates them.
func CollectionPatterns() []string {
	return []string{
		keyPrefix + productsPath + "*",
		StatsPattern(),
	}
}
