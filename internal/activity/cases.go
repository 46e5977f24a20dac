// Package activity implements the Temporal activities hosting the case
// workflow engine: intake, manufacturer reply recording, and the reminder
// sweep. Activities stay thin; all business rules live in the engine.
package activity

import (
	"context"
	"time"

	"github.com/casekit/caseflow/internal/domain"
	"github.com/casekit/caseflow/internal/engine"
	"github.com/casekit/caseflow/pkg/activity"
)

// Activities provides the case activity functions with their dependencies.
type Activities struct {
	base   activity.BaseActivities
	engine *engine.Engine
}

// NewActivities creates the activity set around a constructed engine.
func NewActivities(base activity.BaseActivities, eng *engine.Engine) *Activities {
	return &Activities{base: base, engine: eng}
}

// IntakeInput is the argument to the IntakeCase activity.
type IntakeInput struct {
	Owner          string `json:"owner"`
	Text           string `json:"text"`
	ManufacturerID string `json:"manufacturer_id"`
}

// IntakeResult reports the persisted case after a successful intake.
type IntakeResult struct {
	CaseID     string            `json:"case_id"`
	TaskNumber string            `json:"task_number"`
	Status     domain.CaseStatus `json:"status"`
	Language   string            `json:"language"`
}

// IntakeCase runs the intake pipeline for one new support request.
// Validation and registry failures are non-retryable; translator and channel
// outages retry under the workflow's policy; intake persists nothing on
// failure, so retries are safe.
func (a *Activities) IntakeCase(ctx context.Context, input IntakeInput) (*IntakeResult, error) {
	a.base.RecordHeartbeat(ctx, "intake:"+input.ManufacturerID)

	c, err := a.engine.ProcessNewCase(ctx, input.Owner, input.Text, input.ManufacturerID)
	if err != nil {
		return nil, classify("IntakeCase", err)
	}

	activity.SafeLog(ctx, "Case intake complete",
		"case_id", c.ID,
		"task_number", c.TaskNumber,
		"language", c.OriginalLanguage)

	a.emitCompleted(ctx, "activity.case_intake_completed", c.ID, c.TaskNumber, intakeCompletedEvent{
		CaseID:     c.ID,
		TaskNumber: c.TaskNumber,
		Language:   c.OriginalLanguage,
	})

	return &IntakeResult{
		CaseID:     c.ID,
		TaskNumber: c.TaskNumber,
		Status:     c.Status,
		Language:   c.OriginalLanguage,
	}, nil
}

// ReplyInput is the argument to the RecordReply activity.
type ReplyInput struct {
	TaskNumber string `json:"task_number"`
	Reply      string `json:"reply"`
}

// ReplyResult reports the case state after a reply was recorded.
type ReplyResult struct {
	CaseID string            `json:"case_id"`
	Status domain.CaseStatus `json:"status"`
}

// RecordReply records a manufacturer reply for the case bound to the task
// number. Duplicate replies and unknown task numbers are non-retryable; a
// retried delivery of an already-recorded reply therefore fails fast instead
// of overwriting.
func (a *Activities) RecordReply(ctx context.Context, input ReplyInput) (*ReplyResult, error) {
	a.base.RecordHeartbeat(ctx, "reply:"+input.TaskNumber)

	c, err := a.engine.ProcessManufacturerReply(ctx, input.TaskNumber, input.Reply)
	if err != nil {
		return nil, classify("RecordReply", err)
	}

	activity.SafeLog(ctx, "Manufacturer reply recorded",
		"case_id", c.ID,
		"task_number", input.TaskNumber)

	a.emitCompleted(ctx, "activity.reply_recorded", c.ID, input.TaskNumber, replyRecordedEvent{
		CaseID:     c.ID,
		TaskNumber: input.TaskNumber,
	})

	return &ReplyResult{CaseID: c.ID, Status: c.Status}, nil
}

// SweepResult reports one reminder sweep run.
type SweepResult struct {
	Examined int       `json:"examined"`
	Overdue  int       `json:"overdue"`
	Reminded int       `json:"reminded"`
	Skipped  int       `json:"skipped"`
	Failed   int       `json:"failed"`
	SweptAt  time.Time `json:"swept_at"`
}

// SweepReminders runs one reminder sweep. Safe to retry: the store's
// conditional claim makes dispatch at-most-once per case regardless of how
// many sweeps run.
func (a *Activities) SweepReminders(ctx context.Context) (*SweepResult, error) {
	a.base.RecordHeartbeat(ctx, "reminder-sweep")

	report, err := a.engine.CheckAndSendReminders(ctx)
	if err != nil {
		return nil, err
	}

	activity.SafeLog(ctx, "Reminder sweep complete",
		"examined", report.Examined,
		"overdue", report.Overdue,
		"reminded", report.Reminded)

	a.emitCompleted(ctx, "activity.reminder_sweep_completed", "", "", sweepCompletedEvent{
		Examined: report.Examined,
		Overdue:  report.Overdue,
		Reminded: report.Reminded,
		Skipped:  report.Skipped,
		Failed:   report.Failed,
	})

	return &SweepResult{
		Examined: report.Examined,
		Overdue:  report.Overdue,
		Reminded: report.Reminded,
		Skipped:  report.Skipped,
		Failed:   report.Failed,
		SweptAt:  time.Now().UTC(),
	}, nil
}
