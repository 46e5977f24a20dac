// Package workflow defines the Temporal workflows hosting the case engine:
// intake of new cases and the scheduled reminder sweep. Workflow code is
// deterministic control flow only; all I/O happens in activities.
package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/casekit/caseflow/internal/activity"
)

// Activity names as registered on the worker.
const (
	IntakeActivityName = "IntakeCase"
	SweepActivityName  = "SweepReminders"
)

// SweepWorkflowID pins the reminder sweep to a single cron workflow instance.
const SweepWorkflowID = "reminder-sweep"

// CaseIntakeWorkflow runs the intake pipeline for one new support case with
// activity-level timeouts and retries around the translator and manufacturer
// channel calls. Intake persists nothing on failure, so retried activity
// attempts are safe.
func CaseIntakeWorkflow(ctx workflow.Context, input activity.IntakeInput) (*activity.IntakeResult, error) {
	const currentVersion = 1
	_ = workflow.GetVersion(ctx, "case-intake.v", workflow.DefaultVersion, currentVersion)

	if input.Owner == "" || input.Text == "" || input.ManufacturerID == "" {
		return nil, temporal.NewNonRetryableApplicationError(
			"owner, text, and manufacturer_id are required",
			"Validation",
			nil,
		)
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		HeartbeatTimeout:    30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var result activity.IntakeResult
	if err := workflow.ExecuteActivity(ctx, IntakeActivityName, input).Get(ctx, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ReminderSweepWorkflow runs one reminder sweep. Started on a cron schedule
// by the worker; the sweep itself is idempotent, so overlapping or retried
// runs dispatch nothing twice.
func ReminderSweepWorkflow(ctx workflow.Context) (*activity.SweepResult, error) {
	const currentVersion = 1
	_ = workflow.GetVersion(ctx, "reminder-sweep.v", workflow.DefaultVersion, currentVersion)

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		HeartbeatTimeout:    time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var result activity.SweepResult
	if err := workflow.ExecuteActivity(ctx, SweepActivityName).Get(ctx, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
