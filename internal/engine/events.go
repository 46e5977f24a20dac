package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/casekit/caseflow/internal/domain"
	"github.com/casekit/caseflow/pkg/events"
)

// eventSource identifies this engine in emitted envelopes.
const eventSource = "workflow-engine"

// eventVersion is the payload schema version for all engine events.
const eventVersion = "1.0.0"

// caseForwardedEvent is emitted once when intake completes.
type caseForwardedEvent struct {
	Owner            string    `json:"owner"`
	ManufacturerID   string    `json:"manufacturer_id"`
	TaskNumber       string    `json:"task_number"`
	OriginalLanguage string    `json:"original_language"`
	ForwardedAt      time.Time `json:"forwarded_at"`
}

// replyReceivedEvent is emitted once when a manufacturer reply is recorded.
type replyReceivedEvent struct {
	TaskNumber      string    `json:"task_number"`
	ReplyReceivedAt time.Time `json:"reply_received_at"`
}

// reviewDecidedEvent is emitted for both approval and rejection.
type reviewDecidedEvent struct {
	Owner     string    `json:"owner"`
	DecidedAt time.Time `json:"decided_at"`
	Notes     string    `json:"notes,omitempty"`
}

// reminderSentEvent is emitted once per case, by the sweep that won the claim.
type reminderSentEvent struct {
	TaskNumber     string    `json:"task_number"`
	ReminderSentAt time.Time `json:"reminder_sent_at"`
}

// eventEmitter wraps the sink with marshal-and-log-on-failure semantics:
// emission is best-effort and never fails the operation that produced it.
type eventEmitter struct {
	sink   events.EventSink
	logger *slog.Logger
}

func newEventEmitter(sink events.EventSink, logger *slog.Logger) *eventEmitter {
	return &eventEmitter{sink: sink, logger: logger}
}

func (m *eventEmitter) caseForwarded(ctx context.Context, c *domain.Case) {
	m.emit(ctx, "case.forwarded", c.ID, c.TaskNumber, caseForwardedEvent{
		Owner:            c.Owner,
		ManufacturerID:   c.ManufacturerID,
		TaskNumber:       c.TaskNumber,
		OriginalLanguage: c.OriginalLanguage,
		ForwardedAt:      c.ForwardedAt,
	})
}

func (m *eventEmitter) replyReceived(ctx context.Context, c *domain.Case) {
	m.emit(ctx, "case.reply_received", c.ID, c.TaskNumber, replyReceivedEvent{
		TaskNumber:      c.TaskNumber,
		ReplyReceivedAt: c.ReplyReceivedAt,
	})
}

func (m *eventEmitter) reviewDecided(ctx context.Context, c *domain.Case, eventType string) {
	m.emit(ctx, eventType, c.ID, c.TaskNumber, reviewDecidedEvent{
		Owner:     c.Owner,
		DecidedAt: c.ApprovedAt,
		Notes:     c.Notes,
	})
}

func (m *eventEmitter) reminderSent(ctx context.Context, caseID, taskNumber string, at time.Time) {
	m.emit(ctx, "case.reminder_sent", caseID, taskNumber, reminderSentEvent{
		TaskNumber:     taskNumber,
		ReminderSentAt: at,
	})
}

// emit marshals the payload and appends the envelope. The idempotency key is
// derived from event type and case ID; every lifecycle event fires at most
// once per case, so a retried operation replays to the same key.
func (m *eventEmitter) emit(ctx context.Context, eventType, caseID, taskNumber string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		m.logger.ErrorContext(ctx, "event payload marshal failed",
			"type", eventType, "case_id", caseID, "error", err)
		return
	}

	envelope := events.Envelope{
		ID:             uuid.New().String(),
		Type:           eventType,
		Source:         eventSource,
		Version:        eventVersion,
		Timestamp:      time.Now().UTC(),
		IdempotencyKey: eventType + ":" + caseID,
		CaseID:         caseID,
		TaskNumber:     taskNumber,
		Payload:        body,
	}

	if err := m.sink.Append(ctx, envelope); err != nil {
		m.logger.WarnContext(ctx, "event emission failed",
			"type", eventType, "case_id", caseID, "error", err)
	}
}
