package channel

import (
	"fmt"
	"strings"
	"sync"

	"github.com/casekit/caseflow/internal/domain"
)

// taskCounterStart keeps generated task numbers visually distinct from
// sequence numbers starting at one.
const taskCounterStart = 1000

// TaskNumberAllocator issues manufacturer-scoped task numbers and records
// every number it has ever seen. Task numbers are permanently unique across
// all cases; registering a collision is a hard error. Safe for concurrent use.
type TaskNumberAllocator struct {
	mu      sync.Mutex
	counter int64
	issued  map[string]struct{}
}

// NewTaskNumberAllocator creates an empty allocator.
func NewTaskNumberAllocator() *TaskNumberAllocator {
	return &TaskNumberAllocator{
		counter: taskCounterStart,
		issued:  make(map[string]struct{}),
	}
}

// Next issues a fresh task number of the form MANUFACTURER_ID-TASK-N.
func (a *TaskNumberAllocator) Next(manufacturerID string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.counter++
	token := fmt.Sprintf("%s-TASK-%d", strings.ToUpper(manufacturerID), a.counter)
	a.issued[token] = struct{}{}
	return token
}

// Register records a task number issued by an external system.
// Returns domain.ErrDuplicateTaskNumber when the number was seen before.
func (a *TaskNumberAllocator) Register(token string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.issued[token]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateTaskNumber, token)
	}
	a.issued[token] = struct{}{}
	return nil
}

// Seen reports whether a task number has been issued or registered.
func (a *TaskNumberAllocator) Seen(token string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, exists := a.issued[token]
	return exists
}
