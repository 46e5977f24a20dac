package channel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/casekit/caseflow/internal/domain"
)

// submittedTask is the channel-side record of one forwarded case.
type submittedTask struct {
	ManufacturerID string
	Text           string
	SubmittedAt    time.Time
	Reminders      int
}

// InMemoryChannel is a manufacturer channel for development and tests. It
// allocates task numbers locally and records submissions and reminders so
// tests can assert on dispatch counts.
type InMemoryChannel struct {
	allocator *TaskNumberAllocator
	logger    *slog.Logger

	mu    sync.Mutex
	tasks map[string]*submittedTask
}

var _ Channel = (*InMemoryChannel)(nil)

// NewInMemoryChannel creates an empty in-memory channel.
func NewInMemoryChannel(logger *slog.Logger) *InMemoryChannel {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryChannel{
		allocator: NewTaskNumberAllocator(),
		logger:    logger,
		tasks:     make(map[string]*submittedTask),
	}
}

// Submit records the case text and issues a task number.
func (c *InMemoryChannel) Submit(ctx context.Context, manufacturerID, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrChannel, err)
	}
	if text == "" {
		return "", fmt.Errorf("%w: empty submission", domain.ErrChannel)
	}

	token := c.allocator.Next(manufacturerID)

	c.mu.Lock()
	c.tasks[token] = &submittedTask{
		ManufacturerID: manufacturerID,
		Text:           text,
		SubmittedAt:    time.Now(),
	}
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "case submitted to manufacturer",
		"manufacturer_id", manufacturerID,
		"task_number", token)

	return token, nil
}

// SendReminder records a reminder for a known task.
func (c *InMemoryChannel) SendReminder(ctx context.Context, taskNumber, manufacturerID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrChannel, err)
	}

	c.mu.Lock()
	task, ok := c.tasks[taskNumber]
	if ok {
		task.Reminders++
	}
	c.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: unknown task %s", domain.ErrChannel, taskNumber)
	}

	c.logger.InfoContext(ctx, "reminder sent to manufacturer",
		"manufacturer_id", manufacturerID,
		"task_number", taskNumber)

	return nil
}

// ReminderCount returns how many reminders were sent for a task.
func (c *InMemoryChannel) ReminderCount(taskNumber string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if task, ok := c.tasks[taskNumber]; ok {
		return task.Reminders
	}
	return 0
}
