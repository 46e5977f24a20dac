// Package engine implements the case workflow engine: intake of new support
// cases, manufacturer reply processing, the review decision, and the overdue
// reminder sweep. The engine owns all case mutations and persists them through
// the store; translation, manufacturer channel, and notification are
// collaborator interfaces injected at construction.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/casekit/caseflow/internal/businessclock"
	"github.com/casekit/caseflow/internal/channel"
	"github.com/casekit/caseflow/internal/domain"
	"github.com/casekit/caseflow/internal/lease"
	"github.com/casekit/caseflow/internal/notify"
	"github.com/casekit/caseflow/internal/store"
	"github.com/casekit/caseflow/internal/translate"
	"github.com/casekit/caseflow/pkg/events"
)

const (
	// defaultReminderThresholdHours is the business-hours response deadline
	// applied when configuration does not override it.
	defaultReminderThresholdHours = 24

	// defaultLeaseTTL bounds how long a sweeper holds a per-case dispatch
	// lease before it expires on its own.
	defaultLeaseTTL = 2 * time.Minute

	// updateRetries bounds optimistic-concurrency retries on store updates.
	updateRetries = 3
)

// Config carries the engine's collaborators and tunables. Store, Translator,
// Channel, Notifier, and Registry are required; the rest default sensibly.
type Config struct {
	Store      store.CaseStore
	Translator translate.Translator
	Channel    channel.Channel
	Notifier   notify.Notifier
	Registry   *domain.ManufacturerRegistry

	// Events receives lifecycle events; nil disables emission.
	Events events.EventSink

	// Lease fences concurrent sweepers per case; nil skips the fence and
	// relies on the store's conditional claim alone.
	Lease    lease.Lease
	LeaseTTL time.Duration

	// ReviewerAddress receives the approval-needed notification when a
	// manufacturer reply arrives.
	ReviewerAddress string

	// ReminderThresholdHours is the response deadline in business hours.
	ReminderThresholdHours int

	// Clock supplies the current time; tests inject a fake.
	Clock clockwork.Clock

	Logger *slog.Logger
}

// Engine coordinates the case lifecycle across the store and the external
// collaborators. Methods are safe for concurrent use.
type Engine struct {
	store      store.CaseStore
	translator translate.Translator
	channel    channel.Channel
	notifier   notify.Notifier
	registry   *domain.ManufacturerRegistry
	emitter    *eventEmitter
	lease      lease.Lease
	leaseTTL   time.Duration

	reviewerAddress string
	thresholdHours  int

	clock  clockwork.Clock
	logger *slog.Logger
}

// New validates the configuration and builds an engine.
func New(cfg Config) (*Engine, error) {
	switch {
	case cfg.Store == nil:
		return nil, errors.New("engine: store is required")
	case cfg.Translator == nil:
		return nil, errors.New("engine: translator is required")
	case cfg.Channel == nil:
		return nil, errors.New("engine: channel is required")
	case cfg.Notifier == nil:
		return nil, errors.New("engine: notifier is required")
	case cfg.Registry == nil:
		return nil, errors.New("engine: manufacturer registry is required")
	}

	if cfg.ReminderThresholdHours <= 0 {
		cfg.ReminderThresholdHours = defaultReminderThresholdHours
	}
	if cfg.LeaseTTL <= 0 {
		cfg.LeaseTTL = defaultLeaseTTL
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Events == nil {
		cfg.Events = events.NewNoOpEventSink()
	}

	return &Engine{
		store:           cfg.Store,
		translator:      cfg.Translator,
		channel:         cfg.Channel,
		notifier:        cfg.Notifier,
		registry:        cfg.Registry,
		emitter:         newEventEmitter(cfg.Events, cfg.Logger),
		lease:           cfg.Lease,
		leaseTTL:        cfg.LeaseTTL,
		reviewerAddress: cfg.ReviewerAddress,
		thresholdHours:  cfg.ReminderThresholdHours,
		clock:           cfg.Clock,
		logger:          cfg.Logger,
	}, nil
}

// ProcessNewCase runs the intake pipeline for a fresh support request:
// validate, detect language and translate to English, forward to the
// manufacturer, and persist the case in StatusAwaitingReply. Nothing is
// persisted when any step fails; the caller may simply retry.
func (e *Engine) ProcessNewCase(ctx context.Context, owner, text, manufacturerID string) (*domain.Case, error) {
	manufacturer, err := e.registry.Get(manufacturerID)
	if err != nil {
		return nil, err
	}

	c, err := domain.MakeCase(uuid.New().String(), e.clock.Now().UTC(), owner, text, manufacturerID)
	if err != nil {
		return nil, err
	}
	c.ManufacturerName = manufacturer.Name

	english, langCode, langName, err := e.translator.ToEnglish(ctx, text, "")
	if err != nil {
		return nil, fmt.Errorf("intake case %s: %w", c.ID, err)
	}
	if err := c.RecordTranslation(english, langCode, langName); err != nil {
		return nil, err
	}

	taskNumber, err := e.channel.Submit(ctx, manufacturerID, english)
	if err != nil {
		return nil, fmt.Errorf("intake case %s: %w", c.ID, err)
	}
	if err := c.RecordForwarded(taskNumber, e.clock.Now().UTC()); err != nil {
		return nil, err
	}

	if err := e.store.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("intake case %s: %w", c.ID, err)
	}

	e.logger.InfoContext(ctx, "case forwarded",
		"case_id", c.ID,
		"manufacturer_id", manufacturerID,
		"task_number", taskNumber,
		"language", langCode)
	e.emitter.caseForwarded(ctx, c)

	e.notifyBestEffort(ctx, c.Owner,
		"Support case forwarded",
		fmt.Sprintf("Your case was forwarded to %s. Task number: %s.", c.ManufacturerName, taskNumber))

	return c, nil
}

// ProcessManufacturerReply records the manufacturer's answer for the case
// bound to the task number, translates it back to the requester's language,
// and parks the case in StatusPendingApproval for review. A reply for an
// unknown task number fails with domain.ErrCaseNotFound; a second reply for
// the same case fails with domain.ErrReplyAlreadyReceived.
func (e *Engine) ProcessManufacturerReply(ctx context.Context, taskNumber, reply string) (*domain.Case, error) {
	if reply == "" {
		return nil, fmt.Errorf("%w: empty reply", domain.ErrValidation)
	}

	var updated *domain.Case
	err := e.withRetry(ctx, func() error {
		c, err := e.store.GetByTaskNumber(ctx, taskNumber)
		if err != nil {
			return err
		}

		translated := reply
		if c.OriginalLanguage != translate.LanguageEnglish && c.OriginalLanguage != "" {
			translated, err = e.translator.FromEnglish(ctx, reply, c.OriginalLanguage)
			if err != nil {
				return fmt.Errorf("reply for case %s: %w", c.ID, err)
			}
		}

		if err := c.RecordReply(reply, translated, e.clock.Now().UTC()); err != nil {
			return err
		}
		if err := e.store.Update(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "manufacturer reply recorded",
		"case_id", updated.ID,
		"task_number", taskNumber)
	e.emitter.replyReceived(ctx, updated)

	if e.reviewerAddress != "" {
		e.notifyBestEffort(ctx, e.reviewerAddress,
			"Manufacturer reply awaiting approval",
			fmt.Sprintf("Case %s (task %s) received a reply and needs review.", updated.ID, taskNumber))
	}

	return updated, nil
}

// ApproveCase records a positive review decision and releases the translated
// reply to the case owner. Only cases in StatusPendingApproval can be
// approved; anything else fails with a TransitionError.
func (e *Engine) ApproveCase(ctx context.Context, caseID, notes string) (*domain.Case, error) {
	var updated *domain.Case
	err := e.withRetry(ctx, func() error {
		c, err := e.store.Get(ctx, caseID)
		if err != nil {
			return err
		}
		if err := c.Approve(e.clock.Now().UTC(), notes); err != nil {
			return err
		}
		if err := e.store.Update(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "case approved", "case_id", updated.ID)
	e.emitter.reviewDecided(ctx, updated, "case.approved")

	e.notifyBestEffort(ctx, updated.Owner,
		"Your support case was answered",
		fmt.Sprintf("The manufacturer answered your case %s:\n\n%s", updated.ID, updated.ReplyTranslated))

	return updated, nil
}

// RejectCase records a negative review decision. The owner is notified that
// the case needs rework; the reply is not released.
func (e *Engine) RejectCase(ctx context.Context, caseID, notes string) (*domain.Case, error) {
	var updated *domain.Case
	err := e.withRetry(ctx, func() error {
		c, err := e.store.Get(ctx, caseID)
		if err != nil {
			return err
		}
		if err := c.Reject(notes); err != nil {
			return err
		}
		if err := e.store.Update(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "case rejected", "case_id", updated.ID)
	e.emitter.reviewDecided(ctx, updated, "case.rejected")

	e.notifyBestEffort(ctx, updated.Owner,
		"Your support case needs follow-up",
		fmt.Sprintf("The reply for case %s was not approved for release.", updated.ID))

	return updated, nil
}

// GetCaseStatus returns the current snapshot of a case.
func (e *Engine) GetCaseStatus(ctx context.Context, caseID string) (*domain.Case, error) {
	return e.store.Get(ctx, caseID)
}

// ListPendingApprovals returns all cases waiting on a review decision.
func (e *Engine) ListPendingApprovals(ctx context.Context) ([]*domain.Case, error) {
	return e.store.ListByStatus(ctx, domain.StatusPendingApproval)
}

// ListCasesByOwner returns the owner's cases, newest first.
func (e *Engine) ListCasesByOwner(ctx context.Context, owner string) ([]*domain.Case, error) {
	return e.store.ListByOwner(ctx, owner)
}

// withRetry runs fn, retrying a bounded number of times when the store
// reports a version conflict. fn re-reads inside itself, so each attempt
// operates on a fresh snapshot.
func (e *Engine) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < updateRetries; attempt++ {
		if err = fn(); !errors.Is(err, store.ErrVersionConflict) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}

// notifyBestEffort delivers a notification and logs failures instead of
// propagating them: a state transition never rolls back because an email
// bounced.
func (e *Engine) notifyBestEffort(ctx context.Context, address, subject, body string) {
	if err := e.notifier.Notify(ctx, address, subject, body); err != nil {
		e.logger.WarnContext(ctx, "notification failed",
			"to", address,
			"subject", subject,
			"error", err)
	}
}

// Deadline returns the response deadline for a forwarded case under the
// engine's reminder threshold.
func (e *Engine) Deadline(c *domain.Case) time.Time {
	return businessclock.Deadline(c.ForwardedAt, e.thresholdHours)
}
