// Package store provides the key-value persistence capability the risk
// engine is built against. Callers interact with configuration and daily
// statistics through their own stores; the raw keys and encoding here are
// an implementation detail.
package store

// KeyValueStore is the minimal persistence surface the engine needs.
// Implementations must be safe for concurrent use.
type KeyValueStore interface {
	// Get returns the value for key. The second return is false when the
	// key has never been set (or was deleted).
	Get(key string) ([]byte, bool, error)

	// Set writes value under key, replacing any previous value.
	Set(key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	Close() error
}
