// Package sweep schedules the reminder sweep. It wraps the engine's
// CheckAndSendReminders in a cron job so a standalone process can drive
// reminders without a workflow host.
package sweep

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/casekit/caseflow/internal/engine"
)

// sweepTimeout bounds one sweep run; a stuck collaborator must not block the
// next scheduled run forever.
const sweepTimeout = 5 * time.Minute

// Runner drives periodic reminder sweeps from a cron schedule.
type Runner struct {
	cron   *cron.Cron
	engine *engine.Engine
	logger *slog.Logger
}

// New creates a runner firing on the given cron schedule (standard five-field
// expressions plus @every descriptors). The schedule is validated here;
// nothing runs until Start.
func New(eng *engine.Engine, schedule string, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Runner{
		cron:   cron.New(),
		engine: eng,
		logger: logger,
	}

	if _, err := r.cron.AddFunc(schedule, r.runOnce); err != nil {
		return nil, err
	}
	return r, nil
}

// Start begins firing sweeps on schedule. Non-blocking.
func (r *Runner) Start() {
	r.logger.Info("reminder sweep scheduler started")
	r.cron.Start()
}

// Stop halts the schedule and waits for an in-flight sweep to finish or the
// context to expire.
func (r *Runner) Stop(ctx context.Context) {
	done := r.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		r.logger.Warn("sweep scheduler shutdown timed out")
	}
}

// RunOnce triggers a single sweep outside the schedule, e.g. at startup.
func (r *Runner) RunOnce(ctx context.Context) (engine.SweepReport, error) {
	return r.engine.CheckAndSendReminders(ctx)
}

func (r *Runner) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if _, err := r.engine.CheckAndSendReminders(ctx); err != nil {
		r.logger.ErrorContext(ctx, "scheduled reminder sweep failed", "error", err)
	}
}
