// Package lease provides short-lived exclusive leases used to fence duplicate
// reminder dispatch. The store's conditional claim is the source of truth for
// at-most-once semantics; a lease in front of it keeps concurrent sweepers
// from racing to the same case and burning version conflicts.
package lease

import (
	"context"
	"time"
)

// Lease grants time-bounded exclusive ownership of a key.
type Lease interface {
	// Acquire attempts to take the lease. Returns false when another holder
	// already has it. Acquisition failures from the backend are errors, not
	// lost races.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release gives the lease up early. Releasing a lease that already
	// expired is not an error.
	Release(ctx context.Context, key string) error
}
