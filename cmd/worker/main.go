// Command worker hosts the case workflows on Temporal: it registers the
// intake and reminder-sweep workflows with their activities, starts the
// sweep cron schedule, and runs until interrupted.
//
// Exit codes: 0 = clean shutdown, 1 = startup error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	sdkworker "go.temporal.io/sdk/worker"

	caseactivity "github.com/casekit/caseflow/internal/activity"
	"github.com/casekit/caseflow/internal/app"
	"github.com/casekit/caseflow/internal/config"
	"github.com/casekit/caseflow/internal/worker"
	"github.com/casekit/caseflow/pkg/activity"
	"github.com/casekit/caseflow/pkg/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	eng, cleanup, err := app.BuildEngine(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("build engine", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	temporalClient, err := worker.NewClient(cfg.Temporal)
	if err != nil {
		logger.Error("connect to temporal", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	base := activity.NewBaseActivities(events.NewNoOpEventSink())
	acts := caseactivity.NewActivities(base, eng)

	w := sdkworker.New(temporalClient, cfg.Temporal.TaskQueue, sdkworker.Options{})
	worker.RegisterAll(w, acts)

	scheduleCtx, scheduleCancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = worker.StartSweepSchedule(scheduleCtx, temporalClient, cfg.Temporal, cfg.Workflow.SweepSchedule)
	scheduleCancel()
	if err != nil {
		logger.Error("start sweep schedule", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("worker running",
		slog.String("task_queue", cfg.Temporal.TaskQueue),
		slog.String("sweep_schedule", cfg.Workflow.SweepSchedule))

	if err := w.Run(sdkworker.InterruptCh()); err != nil {
		logger.Error("worker stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
