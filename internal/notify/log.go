package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/casekit/caseflow/internal/domain"
)

// LogNotifier writes notifications to the structured log instead of
// delivering them. Used in development and as a fallback sink.
type LogNotifier struct {
	logger *slog.Logger
}

var _ Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a notifier that logs at info level.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the notification instead of sending it.
func (n *LogNotifier) Notify(ctx context.Context, address, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNotification, err)
	}
	if address == "" {
		return fmt.Errorf("%w: empty recipient", domain.ErrNotification)
	}

	n.logger.InfoContext(ctx, "notification",
		"to", address,
		"subject", subject,
		"body", body)
	return nil
}
