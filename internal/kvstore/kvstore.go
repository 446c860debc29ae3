// Package kvstore provides the string-keyed key-value stores the companion
// persists through: a durable SQLite-backed store that survives restarts and
// an in-memory store scoped to the process session.
package kvstore

// Store is a flat string-to-string key-value store. Structured values are
// JSON-encoded by callers.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	// Set writes value under key, replacing any existing value.
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
