// Package store provides the small key/value store the client uses for
// persisted session state, such as the trace id sent with every request.
// It follows the same shape as a cache: vendor-agnostic interface, memory
// and file implementations, and context-aware operations.
package store

import "context"

// Store defines the core interface for persisted state.
// All implementations must be safe for concurrent use.
//
// Example usage:
//
//	id, wasSet, err := st.GetOrSet(ctx, "stockdeal-trace-id", uuid.NewString())
//	if err != nil {
//	    return err
//	}
//	if wasSet {
//	    // first run on this machine
//	}
type Store interface {
	// Get retrieves a value by key.
	// Returns ErrNotFound if the key doesn't exist.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value, overwriting any existing value.
	Set(ctx context.Context, key, value string) error

	// GetOrSet returns the stored value when the key exists, otherwise it
	// stores value and returns it with wasSet=true.
	GetOrSet(ctx context.Context, key, value string) (stored string, wasSet bool, err error)

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
