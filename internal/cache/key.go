package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest converts an arbitrary cache key (typically a URL or query string)
// into a deterministic hex digest safe to use as a file name. Distinct keys
// colliding is treated as a negligible-probability event and not handled.
func Digest(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
