package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casekit/caseflow/internal/domain"
	"github.com/casekit/caseflow/internal/store"
)

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Store) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, New(mock)
}

func sampleCase(t *testing.T) *domain.Case {
	t.Helper()
	c, err := domain.NewCase("u@example.com", "Jeg har et problem med mit produkt", "manufacturer_1")
	require.NoError(t, err)
	require.NoError(t, c.RecordTranslation("I have a problem with my product", "da", "Danish"))
	require.NoError(t, c.RecordForwarded("MANUFACTURER_1-TASK-1001", c.SubmittedAt.Add(time.Second)))
	return c
}

// caseRow builds a pgxmock row in caseColumns order for the given case.
func caseRow(c *domain.Case) *pgxmock.Rows {
	task := &c.TaskNumber
	if c.TaskNumber == "" {
		task = nil
	}
	return pgxmock.NewRows(caseColumns).AddRow(
		c.ID, c.Owner, c.OriginalText, c.OriginalLanguage,
		c.OriginalLanguageName, c.TranslatedText, c.ManufacturerID,
		c.ManufacturerName, task, c.ManufacturerReply, c.ReplyTranslated,
		string(c.Status), c.Notes, c.SubmittedAt,
		nullTime(c.ForwardedAt), nullTime(c.ReplyReceivedAt),
		nullTime(c.ReminderSentAt), nullTime(c.ApprovedAt),
		c.ReminderSent, c.NeedsApproval, c.Version,
	)
}

func TestStore_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts with version 1", func(t *testing.T) {
		mock, s := newMock(t)
		c := sampleCase(t)

		mock.ExpectExec("INSERT INTO support_cases").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, s.Create(ctx, c))
		assert.Equal(t, int64(1), c.Version)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps unique violation to duplicate task number", func(t *testing.T) {
		mock, s := newMock(t)
		c := sampleCase(t)

		mock.ExpectExec("INSERT INTO support_cases").
			WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

		require.ErrorIs(t, s.Create(ctx, c), domain.ErrDuplicateTaskNumber)
	})
}

func TestStore_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock, s := newMock(t)
		c := sampleCase(t)
		c.Version = 1

		mock.ExpectQuery(`SELECT .+ FROM support_cases WHERE case_id = \$1`).
			WithArgs(c.ID).
			WillReturnRows(caseRow(c))

		got, err := s.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, got.ID)
		assert.Equal(t, domain.StatusAwaitingReply, got.Status)
		assert.Equal(t, "MANUFACTURER_1-TASK-1001", got.TaskNumber)
		assert.True(t, got.ReplyReceivedAt.IsZero())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("miss maps to case not found", func(t *testing.T) {
		mock, s := newMock(t)

		mock.ExpectQuery(`SELECT .+ FROM support_cases WHERE case_id = \$1`).
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		_, err := s.Get(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrCaseNotFound)
	})
}

func TestStore_GetByTaskNumber(t *testing.T) {
	ctx := context.Background()
	mock, s := newMock(t)

	mock.ExpectQuery(`SELECT .+ FROM support_cases WHERE task_number = \$1`).
		WithArgs("no-such-token").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetByTaskNumber(ctx, "no-such-token")
	require.ErrorIs(t, err, domain.ErrCaseNotFound)
}

func TestStore_ListByStatus(t *testing.T) {
	ctx := context.Background()
	mock, s := newMock(t)
	c := sampleCase(t)
	c.Version = 1

	mock.ExpectQuery(`SELECT .+ FROM support_cases WHERE status = \$1 ORDER BY submitted_at DESC`).
		WithArgs(string(domain.StatusAwaitingReply)).
		WillReturnRows(caseRow(c))

	got, err := s.ListByStatus(ctx, domain.StatusAwaitingReply)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, c.ID, got[0].ID)
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("bumps version on success", func(t *testing.T) {
		mock, s := newMock(t)
		c := sampleCase(t)
		c.Version = 1

		mock.ExpectExec("UPDATE support_cases SET").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, s.Update(ctx, c))
		assert.Equal(t, int64(2), c.Version)
	})

	t.Run("zero rows with existing case is a version conflict", func(t *testing.T) {
		mock, s := newMock(t)
		c := sampleCase(t)
		c.Version = 1

		mock.ExpectExec("UPDATE support_cases SET").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectQuery(`SELECT .+ FROM support_cases WHERE case_id = \$1`).
			WithArgs(c.ID).
			WillReturnRows(caseRow(c))

		require.ErrorIs(t, s.Update(ctx, c), store.ErrVersionConflict)
	})

	t.Run("zero rows with missing case is not found", func(t *testing.T) {
		mock, s := newMock(t)
		c := sampleCase(t)
		c.Version = 1

		mock.ExpectExec("UPDATE support_cases SET").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectQuery(`SELECT .+ FROM support_cases WHERE case_id = \$1`).
			WithArgs(c.ID).
			WillReturnError(pgx.ErrNoRows)

		require.ErrorIs(t, s.Update(ctx, c), domain.ErrCaseNotFound)
	})
}

func TestStore_MarkReminderSent(t *testing.T) {
	ctx := context.Background()

	t.Run("claims when guard matches", func(t *testing.T) {
		mock, s := newMock(t)

		mock.ExpectExec("UPDATE support_cases SET reminder_sent").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		claimed, err := s.MarkReminderSent(ctx, "case-1", time.Now())
		require.NoError(t, err)
		assert.True(t, claimed)
	})

	t.Run("loses when already claimed", func(t *testing.T) {
		mock, s := newMock(t)

		mock.ExpectExec("UPDATE support_cases SET reminder_sent").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		claimed, err := s.MarkReminderSent(ctx, "case-1", time.Now())
		require.NoError(t, err)
		assert.False(t, claimed)
	})
}
