package kvstore

import "context"

// Store is the primary, quota-limited, string-keyed store.
//
// Values are opaque strings (JSON snapshots in practice). Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the value stored under key. ok=false means the key is absent, which is not an error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value. It returns ErrQuotaExceeded
	// (possibly wrapped) when the value does not fit; the previous value is kept in that case.
	Set(ctx context.Context, key string, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
