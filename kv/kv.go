package kv

import "time"

// KeyValueStore represents an interface for a key-value storage system
// providing the counter and deletion operations the auth layer needs.
type KeyValueStore interface {
	// Incr atomically increments the counter under key and returns the new
	// value. The expiry is applied when the counter is first created, so a
	// burst of increments shares one window.
	Incr(key string, exp time.Duration) (int64, error)
	// Get retrieves the value associated with the given key.
	Get(key string) (string, error)
	// Del removes the key-value pair.
	Del(key string) error
}
