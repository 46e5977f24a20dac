// Package store defines the persistence contract the workflow engine depends
// on. Implementations must provide single-case read-modify-write atomicity;
// the engine never assumes transactional multi-case operations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/casekit/caseflow/internal/domain"
)

// ErrVersionConflict indicates an optimistic update lost a race: the persisted
// version no longer matches the snapshot the caller read. Callers re-read and
// retry or abandon the mutation.
var ErrVersionConflict = errors.New("case version conflict")

// CaseStore is the durable keyed storage contract for cases.
//
// Implementations return domain.ErrCaseNotFound for lookup misses and
// domain.ErrDuplicateTaskNumber when a create would bind an already-used task
// number. Returned cases are private copies; mutating them does not affect
// stored state until Update is called.
type CaseStore interface {
	// Create persists a new case and initializes its version.
	Create(ctx context.Context, c *domain.Case) error

	// Get returns the case with the given ID.
	Get(ctx context.Context, id string) (*domain.Case, error)

	// GetByTaskNumber returns the case bound to the given task number.
	// Must be O(1) amortized, not a table scan.
	GetByTaskNumber(ctx context.Context, taskNumber string) (*domain.Case, error)

	// ListByOwner returns the owner's cases, newest submission first.
	ListByOwner(ctx context.Context, owner string) ([]*domain.Case, error)

	// ListByStatus returns all cases currently in the given status.
	ListByStatus(ctx context.Context, status domain.CaseStatus) ([]*domain.Case, error)

	// Update persists a mutated snapshot guarded by its version: the write
	// applies only when the stored version still matches c.Version, and the
	// version is incremented on success (reflected back into c). Returns
	// ErrVersionConflict when the guard fails.
	Update(ctx context.Context, c *domain.Case) error

	// MarkReminderSent atomically claims the reminder dispatch for a case.
	// The claim succeeds only while the case is awaiting a reply with
	// reminder_sent still false; it flips the flag, stamps reminder_sent_at
	// and moves the case to StatusReminderSent in one conditional write.
	// Returns false with a nil error when another sweep already claimed it.
	MarkReminderSent(ctx context.Context, id string, at time.Time) (bool, error)
}
