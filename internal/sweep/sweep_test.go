package sweep

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casekit/caseflow/internal/channel"
	"github.com/casekit/caseflow/internal/domain"
	"github.com/casekit/caseflow/internal/engine"
	"github.com/casekit/caseflow/internal/notify"
	"github.com/casekit/caseflow/internal/store/memory"
	"github.com/casekit/caseflow/internal/translate"
)

// englishDetector keeps translation a passthrough in these tests.
type englishDetector struct{}

func (englishDetector) DetectLanguage(string) (string, string, bool) {
	return "en", "English", true
}

func newEngine(t *testing.T, clock *clockwork.FakeClock) (*engine.Engine, *channel.InMemoryChannel) {
	t.Helper()

	registry, err := domain.NewManufacturerRegistry(domain.DefaultManufacturers())
	require.NoError(t, err)

	ch := channel.NewInMemoryChannel(nil)
	eng, err := engine.New(engine.Config{
		Store:      memory.New(),
		Translator: translate.NewStaticTranslator(englishDetector{}),
		Channel:    ch,
		Notifier:   &notify.Recorder{},
		Registry:   registry,
		Clock:      clock,
	})
	require.NoError(t, err)
	return eng, ch
}

func TestNew_InvalidSchedule(t *testing.T) {
	eng, _ := newEngine(t, clockwork.NewFakeClock())
	_, err := New(eng, "not a schedule", nil)
	require.Error(t, err)
}

func TestRunOnce(t *testing.T) {
	ctx := context.Background()
	// Monday 09:00 UTC.
	clock := clockwork.NewFakeClockAt(time.Date(2026, time.August, 17, 9, 0, 0, 0, time.UTC))
	eng, ch := newEngine(t, clock)

	c, err := eng.ProcessNewCase(ctx, "owner@example.com", "My device stopped working", "manufacturer_1")
	require.NoError(t, err)

	runner, err := New(eng, "@every 15m", nil)
	require.NoError(t, err)

	report, err := runner.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Overdue, "fresh case is not overdue")

	clock.Advance(25 * time.Hour)
	report, err = runner.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Reminded)
	assert.Equal(t, 1, ch.ReminderCount(c.TaskNumber))
}

func TestStartStop(t *testing.T) {
	eng, _ := newEngine(t, clockwork.NewFakeClock())
	runner, err := New(eng, "@every 1h", nil)
	require.NoError(t, err)

	runner.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	runner.Stop(ctx)
}
