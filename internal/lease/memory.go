package lease

import (
	"context"
	"sync"
	"time"
)

// InMemoryLease implements Lease for single-process deployments and tests.
// Expiry is evaluated lazily at the next Acquire for the same key.
type InMemoryLease struct {
	now func() time.Time

	mu      sync.Mutex
	expires map[string]time.Time
}

var _ Lease = (*InMemoryLease)(nil)

// NewInMemoryLease creates an empty lease table. A nil now falls back to
// time.Now.
func NewInMemoryLease(now func() time.Time) *InMemoryLease {
	if now == nil {
		now = time.Now
	}
	return &InMemoryLease{
		now:     now,
		expires: make(map[string]time.Time),
	}
}

// Acquire takes the lease unless a live holder exists.
func (l *InMemoryLease) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if deadline, held := l.expires[key]; held && l.now().Before(deadline) {
		return false, nil
	}
	l.expires[key] = l.now().Add(ttl)
	return true, nil
}

// Release drops the lease.
func (l *InMemoryLease) Release(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.expires, key)
	return nil
}
