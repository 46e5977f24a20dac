// Package notify delivers workflow notifications to case owners, reviewers,
// and manufacturer contacts. Delivery is best-effort from the engine's point
// of view: a failed notification never rolls back a state transition.
package notify

import "context"

// Notifier sends a single notification to one recipient address.
// Failures wrap domain.ErrNotification.
type Notifier interface {
	Notify(ctx context.Context, address, subject, body string) error
}
