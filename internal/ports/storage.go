package ports

import "context"

// Storage keys.
const (
	// KeyQuotes holds the JSON-encoded quote list in persistent storage.
	KeyQuotes = "quotes"

	// KeySelectedCategory holds the last category selection in persistent storage.
	KeySelectedCategory = "selectedCategory"

	// KeyLastQuote holds the JSON-encoded last shown quote in session storage.
	KeyLastQuote = "lastQuote"
)

// KeyValueStore is string-keyed blob storage.
// The persistent store and the per-session store share this contract.
type KeyValueStore interface {
	// Get returns the stored value.
	// Returns domain.ErrNotFound if the key has never been set.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// SessionKey namespaces a session-scoped key.
func SessionKey(session, key string) string {
	if session == "" {
		session = "default"
	}

	return "session:" + session + ":" + key
}
