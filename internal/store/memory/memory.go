// Package memory provides an in-memory CaseStore for tests, development and
// single-process deployments. All operations are guarded by a single mutex,
// which trivially gives the per-case read-modify-write atomicity the engine
// requires.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/casekit/caseflow/internal/domain"
	"github.com/casekit/caseflow/internal/store"
)

// Store is a mutex-guarded in-memory case table with a task-number index.
type Store struct {
	mu     sync.Mutex
	byID   map[string]*domain.Case
	byTask map[string]string // task number -> case ID
}

var _ store.CaseStore = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		byID:   make(map[string]*domain.Case),
		byTask: make(map[string]string),
	}
}

// Create persists a new case and initializes its version to 1.
// Task-number collisions are a hard error, never silently tolerated.
func (s *Store) Create(_ context.Context, c *domain.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[c.ID]; exists {
		return fmt.Errorf("%w: case %s already exists", domain.ErrValidation, c.ID)
	}
	if c.TaskNumber != "" {
		if _, exists := s.byTask[c.TaskNumber]; exists {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateTaskNumber, c.TaskNumber)
		}
	}

	c.Version = 1
	s.byID[c.ID] = c.Clone()
	if c.TaskNumber != "" {
		s.byTask[c.TaskNumber] = c.ID
	}
	return nil
}

// Get returns a copy of the case with the given ID.
func (s *Store) Get(_ context.Context, id string) (*domain.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("case %s: %w", id, domain.ErrCaseNotFound)
	}
	return c.Clone(), nil
}

// GetByTaskNumber resolves the task-number index and returns a copy.
func (s *Store) GetByTaskNumber(_ context.Context, taskNumber string) (*domain.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byTask[taskNumber]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", taskNumber, domain.ErrCaseNotFound)
	}
	return s.byID[id].Clone(), nil
}

// ListByOwner returns the owner's cases, newest submission first.
func (s *Store) ListByOwner(_ context.Context, owner string) ([]*domain.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Case
	for _, c := range s.byID {
		if c.Owner == owner {
			out = append(out, c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

// ListByStatus returns all cases currently in the given status.
func (s *Store) ListByStatus(_ context.Context, status domain.CaseStatus) ([]*domain.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Case
	for _, c := range s.byID {
		if c.Status == status {
			out = append(out, c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

// Update applies an optimistic compare-and-set on the case version.
func (s *Store) Update(_ context.Context, c *domain.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[c.ID]
	if !ok {
		return fmt.Errorf("case %s: %w", c.ID, domain.ErrCaseNotFound)
	}
	if stored.Version != c.Version {
		return fmt.Errorf("case %s: have %d want %d: %w",
			c.ID, stored.Version, c.Version, store.ErrVersionConflict)
	}

	c.Version++
	s.byID[c.ID] = c.Clone()
	if c.TaskNumber != "" {
		s.byTask[c.TaskNumber] = c.ID
	}
	return nil
}

// MarkReminderSent atomically claims the reminder for a case. The claim is a
// conditional write guarded by reminder_sent == false, not a read-then-write,
// so concurrent sweeps resolve to exactly one winner.
func (s *Store) MarkReminderSent(_ context.Context, id string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok {
		return false, fmt.Errorf("case %s: %w", id, domain.ErrCaseNotFound)
	}
	if c.ReminderSent || c.Status != domain.StatusAwaitingReply {
		return false, nil
	}

	if err := c.RecordReminderSent(at); err != nil {
		return false, err
	}
	c.Version++
	return true, nil
}
