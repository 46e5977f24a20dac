// Package worker wires the case workflows and activities into a Temporal
// worker and starts the scheduled reminder sweep.
package worker

import (
	sdkworker "go.temporal.io/sdk/worker"

	caseactivity "github.com/casekit/caseflow/internal/activity"
	"github.com/casekit/caseflow/internal/workflow"
)

// RegisterAll registers the case workflows and activities with the worker.
// Must be called once during startup, before the worker runs.
func RegisterAll(w sdkworker.Worker, acts *caseactivity.Activities) {
	w.RegisterWorkflow(workflow.CaseIntakeWorkflow)
	w.RegisterWorkflow(workflow.ReminderSweepWorkflow)

	w.RegisterActivity(acts.IntakeCase)
	w.RegisterActivity(acts.RecordReply)
	w.RegisterActivity(acts.SweepReminders)
}
