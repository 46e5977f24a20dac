package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/casekit/caseflow/internal/businessclock"
	"github.com/casekit/caseflow/internal/domain"
)

// SweepReport summarizes one reminder sweep.
type SweepReport struct {
	// Examined counts cases in StatusAwaitingReply at sweep start.
	Examined int

	// Overdue counts examined cases past their response deadline.
	Overdue int

	// Reminded counts cases this sweep claimed and dispatched a reminder for.
	Reminded int

	// Skipped counts overdue cases another sweep claimed first.
	Skipped int

	// Failed counts overdue cases where claiming or dispatch errored.
	Failed int
}

// CheckAndSendReminders scans cases awaiting a manufacturer reply and sends
// one reminder per case whose business-hours deadline has passed. The store's
// conditional claim guarantees each case is reminded at most once, across
// processes and across time; the optional lease additionally keeps concurrent
// sweepers off the same case. Per-case failures are logged and counted, never
// fatal for the sweep.
func (e *Engine) CheckAndSendReminders(ctx context.Context) (SweepReport, error) {
	var report SweepReport

	cases, err := e.store.ListByStatus(ctx, domain.StatusAwaitingReply)
	if err != nil {
		return report, fmt.Errorf("reminder sweep: %w", err)
	}
	report.Examined = len(cases)

	now := e.clock.Now().UTC()
	for _, c := range cases {
		if !businessclock.IsOverdue(c.ForwardedAt, now, e.thresholdHours) {
			continue
		}
		report.Overdue++

		switch sent, err := e.remindCase(ctx, c, now); {
		case err != nil:
			report.Failed++
			e.logger.ErrorContext(ctx, "reminder failed",
				"case_id", c.ID,
				"task_number", c.TaskNumber,
				"error", err)
		case sent:
			report.Reminded++
		default:
			report.Skipped++
		}
	}

	e.logger.InfoContext(ctx, "reminder sweep finished",
		"examined", report.Examined,
		"overdue", report.Overdue,
		"reminded", report.Reminded,
		"skipped", report.Skipped,
		"failed", report.Failed)

	return report, nil
}

// remindCase claims and dispatches the reminder for one overdue case.
// Returns false with a nil error when another sweep holds the case.
//
// The claim is taken before dispatch: losing a dispatch to a crash between
// claim and send is accepted, a duplicate reminder is not.
func (e *Engine) remindCase(ctx context.Context, c *domain.Case, now time.Time) (bool, error) {
	if e.lease != nil {
		held, err := e.lease.Acquire(ctx, "reminder:"+c.ID, e.leaseTTL)
		if err != nil {
			return false, fmt.Errorf("acquire lease: %w", err)
		}
		if !held {
			return false, nil
		}
		defer func() {
			if err := e.lease.Release(ctx, "reminder:"+c.ID); err != nil {
				e.logger.WarnContext(ctx, "lease release failed", "case_id", c.ID, "error", err)
			}
		}()
	}

	claimed, err := e.store.MarkReminderSent(ctx, c.ID, now)
	if err != nil {
		return false, fmt.Errorf("claim reminder: %w", err)
	}
	if !claimed {
		return false, nil
	}

	if err := e.channel.SendReminder(ctx, c.TaskNumber, c.ManufacturerID); err != nil {
		return false, fmt.Errorf("dispatch reminder: %w", err)
	}

	e.emitter.reminderSent(ctx, c.ID, c.TaskNumber, now)

	if manufacturer, err := e.registry.Get(c.ManufacturerID); err == nil && manufacturer.Email != "" {
		e.notifyBestEffort(ctx, manufacturer.Email,
			"Reminder: open support task "+c.TaskNumber,
			fmt.Sprintf("Task %s has been unanswered since its response deadline of %s (%d business hours).",
				c.TaskNumber, e.Deadline(c).Format(time.RFC1123), e.thresholdHours))
	}

	return true, nil
}
