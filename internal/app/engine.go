package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"

	"github.com/redis/go-redis/v9"

	"github.com/casekit/caseflow/internal/channel"
	"github.com/casekit/caseflow/internal/config"
	"github.com/casekit/caseflow/internal/engine"
	"github.com/casekit/caseflow/internal/lease"
	"github.com/casekit/caseflow/internal/notify"
	"github.com/casekit/caseflow/internal/store/postgres"
	"github.com/casekit/caseflow/internal/translate"
)

// BuildEngine assembles the workflow engine from configuration: Postgres
// store (with migrations applied), lingua-backed translator, HTTP
// manufacturer channel, SMTP or log notifier, and a Redis lease when
// configured. The returned cleanup closes the owned connections.
func BuildEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*engine.Engine, func(), error) {
	registry, err := cfg.ManufacturerRegistry()
	if err != nil {
		return nil, nil, err
	}

	if err := postgres.Migrate(ctx, cfg.Database.DSN); err != nil {
		return nil, nil, err
	}
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	var notifier notify.Notifier
	if cfg.SMTP.Addr != "" {
		var auth smtp.Auth
		if cfg.SMTP.Username != "" {
			host, _, splitErr := net.SplitHostPort(cfg.SMTP.Addr)
			if splitErr != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("smtp addr %q: %w", cfg.SMTP.Addr, splitErr)
			}
			auth = smtp.PlainAuth("", cfg.SMTP.Username, cfg.SMTP.Password, host)
		}
		notifier = notify.NewSMTPNotifier(cfg.SMTP.Addr, cfg.SMTP.From, auth)
	} else {
		notifier = notify.NewLogNotifier(logger)
	}

	var dispatchLease lease.Lease
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		dispatchLease = lease.NewRedisLease(redisClient)
	}

	manufacturerChannel := channel.NewHTTPChannel(nil,
		channel.RegistryResolver{Registry: registry},
		channel.NewTaskNumberAllocator())

	eng, err := engine.New(engine.Config{
		Store:                  postgres.New(pool),
		Translator:             translate.NewStaticTranslator(translate.NewLinguaDetector()),
		Channel:                manufacturerChannel,
		Notifier:               notifier,
		Registry:               registry,
		Lease:                  dispatchLease,
		LeaseTTL:               cfg.Workflow.LeaseTTL,
		ReviewerAddress:        cfg.Workflow.ReviewerAddress,
		ReminderThresholdHours: cfg.Workflow.ReminderThresholdHours,
		Logger:                 logger,
	})
	if err != nil {
		pool.Close()
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, nil, err
	}

	cleanup := func() {
		pool.Close()
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}
	return eng, cleanup, nil
}
