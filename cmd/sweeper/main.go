// Command sweeper runs the reminder sweep on a cron schedule against the
// case store, without a workflow host. It is the standalone alternative to
// the Temporal worker's scheduled sweep.
//
// Exit codes: 0 = clean shutdown, 1 = startup error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/casekit/caseflow/internal/app"
	"github.com/casekit/caseflow/internal/config"
	"github.com/casekit/caseflow/internal/sweep"
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

	runner, err := sweep.New(eng, cfg.Workflow.SweepSchedule, logger)
	if err != nil {
		logger.Error("invalid sweep schedule",
			slog.String("schedule", cfg.Workflow.SweepSchedule),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	runner.Start()
	logger.Info("sweeper running", slog.String("schedule", cfg.Workflow.SweepSchedule))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	runner.Stop(shutdownCtx)
	logger.Info("sweeper stopped")
}
