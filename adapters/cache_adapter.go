package adapters

import "context"

// CacheAdapter is an interface for durable key-value persistence on the
// client, such as the device identifier.
// Implement this interface to use custom backends (database, Redis, etc.).
type CacheAdapter interface {
	// Get reads the value stored under key.
	//
	// Returns the value, whether it was present, and any backend error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}
