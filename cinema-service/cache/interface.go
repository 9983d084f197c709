package cache

// CacheRepository is the process-wide object cache shared by every service.
// Values of any shape live side by side, so a hit must be type-checked
// before use (see Fetch).
type CacheRepository interface {
	// Put stores value under key, evicting the least recently touched entry
	// when the store is full.
	Put(key string, value any)

	// Get returns the value stored under key. Entries older than the TTL are
	// reported as absent.
	Get(key string) (any, bool)

	// Evict removes key. Missing keys are ignored.
	Evict(key string)

	// Clear removes every entry.
	Clear()

	// Shutdown stops background expiry. The cache stays usable afterwards.
	Shutdown()
}
