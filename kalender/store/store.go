package store

import (
	"context"
	"errors"
)

var (
	// ErrClosed is returned by operations on a store whose backend has been
	// shut down.
	ErrClosed = errors.New("store is closed")
)

// Store is the persistence port the engine writes its fact log through. It
// is a key/value store with JSON-serializable values plus set helpers for
// array-backed sets.
//
// Implementations must guarantee last-write-wins per key, read-after-write
// consistency within the calling process, and a clean miss (ok=false, no
// error) for keys never written.
type Store interface {
	// Get unmarshals the value for key into out. ok is false when the key
	// has never been written.
	Get(ctx context.Context, key string, out any) (ok bool, err error)

	// Set stores the JSON encoding of value under key.
	Set(ctx context.Context, key string, value any) error

	// Remove deletes the key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// AddToSet adds member to the string set stored under key. added is
	// false when the member was already present.
	AddToSet(ctx context.Context, key string, member string) (added bool, err error)

	// InSet reports membership in the string set stored under key.
	InSet(ctx context.Context, key string, member string) (bool, error)

	// Revision increases monotonically with every successful write. The
	// engine uses it to invalidate derived-state caches.
	Revision() int64

	// Flush blocks until all pending remote writes have settled. Local
	// adapters return immediately.
	Flush(ctx context.Context) error
}
