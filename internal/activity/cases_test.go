package activity

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	"github.com/casekit/caseflow/internal/channel"
	"github.com/casekit/caseflow/internal/domain"
	"github.com/casekit/caseflow/internal/engine"
	"github.com/casekit/caseflow/internal/notify"
	"github.com/casekit/caseflow/internal/store/memory"
	"github.com/casekit/caseflow/internal/translate"
	"github.com/casekit/caseflow/pkg/activity"
	"github.com/casekit/caseflow/pkg/events"
)

type germanDetector struct{}

func (germanDetector) DetectLanguage(string) (string, string, bool) {
	return "de", "German", true
}

func newActivities(t *testing.T) (*Activities, *clockwork.FakeClock, *events.MemorySink) {
	t.Helper()

	registry, err := domain.NewManufacturerRegistry(domain.DefaultManufacturers())
	require.NoError(t, err)

	clock := clockwork.NewFakeClockAt(time.Date(2026, time.August, 17, 9, 0, 0, 0, time.UTC))
	eng, err := engine.New(engine.Config{
		Store:      memory.New(),
		Translator: translate.NewStaticTranslator(germanDetector{}),
		Channel:    channel.NewInMemoryChannel(nil),
		Notifier:   &notify.Recorder{},
		Registry:   registry,
		Clock:      clock,
	})
	require.NoError(t, err)

	sink := events.NewMemorySink()
	return NewActivities(activity.NewBaseActivities(sink), eng), clock, sink
}

// eventsOfType filters the recorded envelopes down to one activity event type.
func eventsOfType(sink *events.MemorySink, eventType string) []events.Envelope {
	var matched []events.Envelope
	for _, envelope := range sink.Events() {
		if envelope.Type == eventType {
			matched = append(matched, envelope)
		}
	}
	return matched
}

func TestIntakeCase(t *testing.T) {
	ctx := context.Background()
	acts, _, sink := newActivities(t)

	t.Run("success", func(t *testing.T) {
		result, err := acts.IntakeCase(ctx, IntakeInput{
			Owner:          "owner@example.com",
			Text:           "Mein Gerät funktioniert nicht",
			ManufacturerID: "manufacturer_2",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, result.CaseID)
		assert.Contains(t, result.TaskNumber, "MANUFACTURER_2-TASK-")
		assert.Equal(t, domain.StatusAwaitingReply, result.Status)
		assert.Equal(t, "de", result.Language)

		emitted := eventsOfType(sink, "activity.case_intake_completed")
		require.Len(t, emitted, 1)
		assert.Equal(t, result.CaseID, emitted[0].CaseID)
		assert.Equal(t, result.TaskNumber, emitted[0].TaskNumber)
		assert.NotEmpty(t, emitted[0].WorkflowID, "envelope carries workflow correlation")
		assert.NotEmpty(t, emitted[0].RunID)
	})

	t.Run("unknown manufacturer is non-retryable", func(t *testing.T) {
		_, err := acts.IntakeCase(ctx, IntakeInput{
			Owner:          "owner@example.com",
			Text:           "text",
			ManufacturerID: "manufacturer_99",
		})
		requireNonRetryable(t, err)
	})

	t.Run("invalid owner is non-retryable", func(t *testing.T) {
		_, err := acts.IntakeCase(ctx, IntakeInput{
			Owner:          "not-an-email",
			Text:           "text",
			ManufacturerID: "manufacturer_1",
		})
		requireNonRetryable(t, err)
	})
}

func TestRecordReply(t *testing.T) {
	ctx := context.Background()
	acts, _, sink := newActivities(t)

	intake, err := acts.IntakeCase(ctx, IntakeInput{
		Owner:          "owner@example.com",
		Text:           "Mein Gerät funktioniert nicht",
		ManufacturerID: "manufacturer_1",
	})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		result, err := acts.RecordReply(ctx, ReplyInput{
			TaskNumber: intake.TaskNumber,
			Reply:      "Please update the firmware.",
		})
		require.NoError(t, err)
		assert.Equal(t, intake.CaseID, result.CaseID)
		assert.Equal(t, domain.StatusPendingApproval, result.Status)

		emitted := eventsOfType(sink, "activity.reply_recorded")
		require.Len(t, emitted, 1)
		assert.Equal(t, intake.CaseID, emitted[0].CaseID)
		assert.NotEmpty(t, emitted[0].WorkflowID)
	})

	t.Run("duplicate delivery is non-retryable", func(t *testing.T) {
		_, err := acts.RecordReply(ctx, ReplyInput{
			TaskNumber: intake.TaskNumber,
			Reply:      "Please update the firmware.",
		})
		requireNonRetryable(t, err)
	})

	t.Run("unknown task number is non-retryable", func(t *testing.T) {
		_, err := acts.RecordReply(ctx, ReplyInput{TaskNumber: "NO-SUCH-TASK", Reply: "x"})
		requireNonRetryable(t, err)
	})
}

func TestSweepReminders(t *testing.T) {
	ctx := context.Background()
	acts, clock, sink := newActivities(t)

	_, err := acts.IntakeCase(ctx, IntakeInput{
		Owner:          "owner@example.com",
		Text:           "Mein Gerät funktioniert nicht",
		ManufacturerID: "manufacturer_1",
	})
	require.NoError(t, err)

	clock.Advance(25 * time.Hour)

	result, err := acts.SweepReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Reminded)

	// Replays claim nothing more.
	result, err = acts.SweepReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Reminded)

	// One completion event per sweep run, keyed on the execution.
	emitted := eventsOfType(sink, "activity.reminder_sweep_completed")
	require.Len(t, emitted, 2)
	assert.NotEmpty(t, emitted[0].RunID)
	assert.NotEqual(t, emitted[0].IdempotencyKey, emitted[1].IdempotencyKey)
}

func requireNonRetryable(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.True(t, appErr.NonRetryable(), "expected non-retryable error, got %v", err)
}
