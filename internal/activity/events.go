package activity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/casekit/caseflow/pkg/activity"
	"github.com/casekit/caseflow/pkg/events"
)

// eventSource identifies the activity layer in emitted envelopes.
const eventSource = "temporal-activity"

// eventVersion is the payload schema version for all activity events.
const eventVersion = "1.0.0"

// intakeCompletedEvent is emitted once per case when the intake activity
// succeeds.
type intakeCompletedEvent struct {
	CaseID     string `json:"case_id"`
	TaskNumber string `json:"task_number"`
	Language   string `json:"language"`
}

// replyRecordedEvent is emitted once per case when the reply activity
// succeeds.
type replyRecordedEvent struct {
	CaseID     string `json:"case_id"`
	TaskNumber string `json:"task_number"`
}

// sweepCompletedEvent is emitted once per sweep run.
type sweepCompletedEvent struct {
	Examined int `json:"examined"`
	Overdue  int `json:"overdue"`
	Reminded int `json:"reminded"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// emitCompleted publishes an activity completion event stamped with the
// hosting workflow execution, so envelopes correlate back to workflow
// history. Emission is best-effort and never fails the activity.
func (a *Activities) emitCompleted(ctx context.Context, eventType, caseID, taskNumber string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		activity.SafeLogError(ctx, "Activity event payload marshal failed",
			"event_type", eventType, "case_id", caseID, "error", err)
		return
	}

	wfCtx := a.base.GetWorkflowContext(ctx)

	a.base.EmitEventSafe(ctx, events.Envelope{
		ID:             uuid.New().String(),
		Type:           eventType,
		Source:         eventSource,
		Version:        eventVersion,
		Timestamp:      time.Now().UTC(),
		IdempotencyKey: idempotencyKey(eventType, caseID, wfCtx),
		CaseID:         caseID,
		TaskNumber:     taskNumber,
		WorkflowID:     wfCtx.WorkflowID,
		RunID:          wfCtx.RunID,
		Payload:        body,
	}, eventType)
}

// idempotencyKey scopes case events to the case, so a retried delivery
// replays to the same key. Sweep events have no case and key on the
// workflow execution instead, one event per run.
func idempotencyKey(eventType, caseID string, wfCtx activity.WorkflowContext) string {
	if caseID != "" {
		return eventType + ":" + caseID
	}
	return eventType + ":" + wfCtx.WorkflowID + ":" + wfCtx.RunID
}
