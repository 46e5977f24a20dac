package worker

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/casekit/caseflow/internal/config"
	"github.com/casekit/caseflow/internal/workflow"
)

// NewClient dials the Temporal frontend configured in TemporalConfig.
func NewClient(cfg config.TemporalConfig) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  cfg.HostPort,
		Namespace: cfg.Namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("dial temporal at %s: %w", cfg.HostPort, err)
	}
	return c, nil
}

// StartSweepSchedule starts the reminder sweep as a cron workflow. The fixed
// workflow ID keeps at most one schedule alive; starting against an already
// running schedule is not an error.
func StartSweepSchedule(ctx context.Context, c client.Client, cfg config.TemporalConfig, schedule string) error {
	_, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:           workflow.SweepWorkflowID,
		TaskQueue:    cfg.TaskQueue,
		CronSchedule: schedule,
	}, workflow.ReminderSweepWorkflow)
	if err != nil {
		var already *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &already) {
			return nil
		}
		return fmt.Errorf("start reminder sweep schedule: %w", err)
	}
	return nil
}
