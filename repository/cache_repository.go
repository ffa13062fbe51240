package repository

import "time"

// CacheRepository is a string KV store with per-entry TTL. A zero TTL means
// no expiry.
type CacheRepository interface {
	Get(key string) (string, bool)
	Set(key string, value string, ttl time.Duration) error
}
