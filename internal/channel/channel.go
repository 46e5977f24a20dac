// Package channel provides the manufacturer channel contract: submitting a
// case obtains an opaque task number used as the correlation key for replies
// and reminders. The package ships an in-memory channel backed by a
// collision-checked task-number allocator and an HTTP adapter for
// manufacturers with a REST endpoint.
package channel

import "context"

// Channel is the external manufacturer communication contract.
// Failures wrap domain.ErrChannel so callers can branch with errors.Is.
type Channel interface {
	// Submit forwards the English case text to the manufacturer and returns
	// the task number the manufacturer issued for it.
	Submit(ctx context.Context, manufacturerID, text string) (taskNumber string, err error)

	// SendReminder nudges the manufacturer about an unanswered task.
	SendReminder(ctx context.Context, taskNumber, manufacturerID string) error
}
