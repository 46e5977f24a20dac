package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casekit/caseflow/internal/channel"
	"github.com/casekit/caseflow/internal/domain"
	"github.com/casekit/caseflow/internal/lease"
	"github.com/casekit/caseflow/internal/notify"
	"github.com/casekit/caseflow/internal/translate"
)

// fridayFourPM precedes a weekend, exercising business-hour deadline carry.
var fridayFourPM = time.Date(2026, time.August, 21, 16, 0, 0, 0, time.UTC)

func TestDeadline(t *testing.T) {
	t.Run("weekday forwarding", func(t *testing.T) {
		h := newHarness(t)
		c := h.intake(t)

		// Monday 09:00 + 24 business hours = Tuesday 09:00.
		assert.Equal(t, mondayNineAM.Add(24*time.Hour), h.engine.Deadline(c))
	})

	t.Run("deadline carries over the weekend", func(t *testing.T) {
		h := newHarnessAt(t, fridayFourPM)
		c := h.intake(t)

		// Friday 16:00 + 24 business hours = Monday 16:00.
		assert.Equal(t, fridayFourPM.Add(72*time.Hour), h.engine.Deadline(c))
	})
}

func TestCheckAndSendReminders_NotOverdue(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.intake(t)

	h.clock.Advance(23 * time.Hour)
	report, err := h.engine.CheckAndSendReminders(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Examined)
	assert.Equal(t, 0, report.Overdue)
	assert.Equal(t, 0, report.Reminded)
}

func TestCheckAndSendReminders_ExactDeadlineIsNotOverdue(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.intake(t)

	h.clock.Advance(24 * time.Hour)
	report, err := h.engine.CheckAndSendReminders(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Examined)
	assert.Equal(t, 0, report.Overdue, "landing exactly on the deadline is not overdue")
}

func TestCheckAndSendReminders_Overdue(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	c := h.intake(t)

	h.clock.Advance(25 * time.Hour)
	report, err := h.engine.CheckAndSendReminders(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Examined)
	assert.Equal(t, 1, report.Overdue)
	assert.Equal(t, 1, report.Reminded)
	assert.Equal(t, 0, report.Failed)

	updated, err := h.store.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReminderSent, updated.Status)
	assert.True(t, updated.ReminderSent)
	assert.Equal(t, 1, h.channel.ReminderCount(c.TaskNumber))

	sent := h.notifier.Sent()
	require.Len(t, sent, 2, "intake notification plus manufacturer reminder")
	assert.Equal(t, "support@techsolutions.com", sent[1].Address)
	assert.Contains(t, sent[1].Subject, c.TaskNumber)
	assert.Contains(t, sent[1].Body, h.engine.Deadline(updated).Format(time.RFC1123),
		"reminder names the missed deadline")

	emitted := h.events.Events()
	require.Len(t, emitted, 2)
	assert.Equal(t, "case.reminder_sent", emitted[1].Type)
}

func TestCheckAndSendReminders_SecondSweepIsNoOp(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	c := h.intake(t)

	h.clock.Advance(25 * time.Hour)
	_, err := h.engine.CheckAndSendReminders(ctx)
	require.NoError(t, err)

	report, err := h.engine.CheckAndSendReminders(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Examined, "a reminded case leaves the awaiting-reply set")
	assert.Equal(t, 0, report.Reminded)
	assert.Equal(t, 1, h.channel.ReminderCount(c.TaskNumber))
}

func TestCheckAndSendReminders_WeekendDoesNotCount(t *testing.T) {
	ctx := context.Background()
	h := newHarnessAt(t, fridayFourPM)
	h.intake(t)

	// Friday 16:00 plus 24 business hours lands Monday 16:00.
	h.clock.Advance(71 * time.Hour) // Monday 15:00
	report, err := h.engine.CheckAndSendReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Overdue)

	h.clock.Advance(2 * time.Hour) // Monday 17:00
	report, err = h.engine.CheckAndSendReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Overdue)
	assert.Equal(t, 1, report.Reminded)
}

func TestCheckAndSendReminders_ConcurrentSweepsSingleReminder(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	c := h.intake(t)

	h.clock.Advance(25 * time.Hour)

	const sweepers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	totalReminded := 0
	for i := 0; i < sweepers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report, err := h.engine.CheckAndSendReminders(ctx)
			assert.NoError(t, err)
			mu.Lock()
			totalReminded += report.Reminded
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, totalReminded)
	assert.Equal(t, 1, h.channel.ReminderCount(c.TaskNumber))
}

func TestCheckAndSendReminders_PerCaseFailureIsolation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	first := h.intake(t)
	second := h.intake(t)

	faulty := &reminderFailingChannel{
		InMemoryChannel: h.channel,
		failTask:        first.TaskNumber,
	}
	eng, err := New(Config{
		Store:      h.store,
		Translator: translate.NewStaticTranslator(danishDetector{}),
		Channel:    faulty,
		Notifier:   &notify.Recorder{},
		Registry:   mustRegistry(t),
		Clock:      h.clock,
	})
	require.NoError(t, err)

	h.clock.Advance(25 * time.Hour)
	report, err := eng.CheckAndSendReminders(ctx)
	require.NoError(t, err, "per-case failures do not fail the sweep")

	assert.Equal(t, 2, report.Overdue)
	assert.Equal(t, 1, report.Reminded)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, h.channel.ReminderCount(second.TaskNumber))
}

func TestCheckAndSendReminders_WithLease(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	c := h.intake(t)

	fenced, err := New(Config{
		Store:      h.store,
		Translator: translate.NewStaticTranslator(danishDetector{}),
		Channel:    h.channel,
		Notifier:   &notify.Recorder{},
		Registry:   mustRegistry(t),
		Lease:      lease.NewInMemoryLease(nil),
		Clock:      h.clock,
	})
	require.NoError(t, err)

	h.clock.Advance(25 * time.Hour)

	const sweepers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	totalReminded := 0
	for i := 0; i < sweepers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report, err := fenced.CheckAndSendReminders(ctx)
			assert.NoError(t, err)
			mu.Lock()
			totalReminded += report.Reminded
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, totalReminded)
	assert.Equal(t, 1, h.channel.ReminderCount(c.TaskNumber))
}

// reminderFailingChannel fails SendReminder for one chosen task number.
type reminderFailingChannel struct {
	*channel.InMemoryChannel
	failTask string
}

func (c *reminderFailingChannel) SendReminder(ctx context.Context, taskNumber, manufacturerID string) error {
	if taskNumber == c.failTask {
		return fmt.Errorf("%w: manufacturer unreachable", domain.ErrChannel)
	}
	return c.InMemoryChannel.SendReminder(ctx, taskNumber, manufacturerID)
}
