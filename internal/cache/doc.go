// Package cache provides a persistent key-value cache for scraped API
// responses so repeated lookups do not hit the upstream source again.
//
// The default backend stores one JSON file per entry in a configurable
// directory, named by the SHA-256 digest of the key, holding a write
// timestamp and the cached value. Entries older than the configured max
// age read as misses; they are reclaimed lazily by ClearExpired rather
// than on read. A Redis backend is available for shared environments.
//
// The cache is deliberately fail-soft: a missing, expired, or corrupt
// entry is a miss, never an error the caller has to handle. Only an
// unusable cache directory at construction time is fatal.
package cache
