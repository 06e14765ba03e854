// Package identity derives the stable pseudo-identity used as the client-side
// rate-limit key. The identifier lives in client-controlled storage, so it is
// a UX deterrent only; the backend applies the authoritative limits.
package identity

import "github.com/google/uuid"

// storageKey is fixed; the identifier is never regenerated once present.
const storageKey = "user_id"

// Store is the subset of the local key-value store the identity needs.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
}

// GetOrCreate returns the persisted client identity, generating and storing a
// new UUIDv4 on first use. A failed write is tolerated: the fresh identifier
// is still returned and the next call simply generates another one.
func GetOrCreate(store Store) string {
	if cached, ok := store.Get(storageKey); ok && len(cached) > 0 {
		return string(cached)
	}
	id := uuid.NewString()
	_ = store.Set(storageKey, []byte(id))
	return id
}
