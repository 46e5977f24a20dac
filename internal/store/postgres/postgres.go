// Package postgres implements the CaseStore contract on PostgreSQL using pgx.
// Single-case atomicity comes from conditional single-row UPDATEs: optimistic
// version guards for general mutations and a reminder_sent = FALSE guard for
// the at-most-once reminder claim.
package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/casekit/caseflow/internal/domain"
	"github.com/casekit/caseflow/internal/store"
)

// DB is the subset of pgxpool.Pool the store depends on.
// pgxmock satisfies it for tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// psql builds queries with PostgreSQL $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// caseColumns is the canonical column order shared by every SELECT and scan.
var caseColumns = []string{
	"case_id", "owner_email", "original_text", "original_language",
	"original_language_name", "translated_text", "manufacturer_id",
	"manufacturer_name", "task_number", "manufacturer_reply", "reply_translated",
	"status", "notes", "submitted_at", "forwarded_at", "reply_received_at",
	"reminder_sent_at", "approved_at", "reminder_sent", "needs_approval", "version",
}

// Store provides case persistence backed by PostgreSQL.
type Store struct {
	db DB
}

var _ store.CaseStore = (*Store)(nil)

// New creates a new PostgreSQL case store.
func New(db DB) *Store {
	return &Store{db: db}
}

// Create inserts a new case snapshot with version 1. The unique index on
// task_number makes duplicate tokens a hard error.
func (s *Store) Create(ctx context.Context, c *domain.Case) error {
	c.Version = 1

	query, args, err := psql.Insert("support_cases").
		Columns(caseColumns...).
		Values(
			c.ID, c.Owner, c.OriginalText, c.OriginalLanguage,
			c.OriginalLanguageName, c.TranslatedText, c.ManufacturerID,
			c.ManufacturerName, nullString(c.TaskNumber), c.ManufacturerReply,
			c.ReplyTranslated, string(c.Status), c.Notes, c.SubmittedAt,
			nullTime(c.ForwardedAt), nullTime(c.ReplyReceivedAt),
			nullTime(c.ReminderSentAt), nullTime(c.ApprovedAt),
			c.ReminderSent, c.NeedsApproval, c.Version,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return mapError(err, c.ID)
	}
	return nil
}

// Get returns the case with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.Case, error) {
	return s.getWhere(ctx, sq.Eq{"case_id": id}, id)
}

// GetByTaskNumber resolves a case through the unique task-number index.
func (s *Store) GetByTaskNumber(ctx context.Context, taskNumber string) (*domain.Case, error) {
	return s.getWhere(ctx, sq.Eq{"task_number": taskNumber}, taskNumber)
}

func (s *Store) getWhere(ctx context.Context, pred sq.Eq, key string) (*domain.Case, error) {
	query, args, err := psql.Select(caseColumns...).
		From("support_cases").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	c, err := scanCase(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, key)
	}
	return c, nil
}

// ListByOwner returns the owner's cases, newest submission first.
func (s *Store) ListByOwner(ctx context.Context, owner string) ([]*domain.Case, error) {
	return s.listWhere(ctx, sq.Eq{"owner_email": owner})
}

// ListByStatus returns all cases currently in the given status.
func (s *Store) ListByStatus(ctx context.Context, status domain.CaseStatus) ([]*domain.Case, error) {
	return s.listWhere(ctx, sq.Eq{"status": string(status)})
}

func (s *Store) listWhere(ctx context.Context, pred sq.Eq) ([]*domain.Case, error) {
	query, args, err := psql.Select(caseColumns...).
		From("support_cases").
		Where(pred).
		OrderBy("submitted_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list support_cases: %w", err)
	}
	defer rows.Close()

	var out []*domain.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan support_cases: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list support_cases: %w", err)
	}
	return out, nil
}

// Update persists a mutated snapshot guarded by its version and increments it.
// A zero-row update means either a lost race or a missing row; the follow-up
// lookup disambiguates.
func (s *Store) Update(ctx context.Context, c *domain.Case) error {
	query, args, err := psql.Update("support_cases").
		Set("original_language", c.OriginalLanguage).
		Set("original_language_name", c.OriginalLanguageName).
		Set("translated_text", c.TranslatedText).
		Set("manufacturer_name", c.ManufacturerName).
		Set("task_number", nullString(c.TaskNumber)).
		Set("manufacturer_reply", c.ManufacturerReply).
		Set("reply_translated", c.ReplyTranslated).
		Set("status", string(c.Status)).
		Set("notes", c.Notes).
		Set("forwarded_at", nullTime(c.ForwardedAt)).
		Set("reply_received_at", nullTime(c.ReplyReceivedAt)).
		Set("reminder_sent_at", nullTime(c.ReminderSentAt)).
		Set("approved_at", nullTime(c.ApprovedAt)).
		Set("reminder_sent", c.ReminderSent).
		Set("needs_approval", c.NeedsApproval).
		Set("version", c.Version+1).
		Where(sq.Eq{"case_id": c.ID, "version": c.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, c.ID)
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.Get(ctx, c.ID); err != nil {
			return err
		}
		return fmt.Errorf("case %s: %w", c.ID, store.ErrVersionConflict)
	}

	c.Version++
	return nil
}

// MarkReminderSent claims the reminder dispatch in one conditional UPDATE.
// The reminder_sent = FALSE guard in the WHERE clause is what makes the claim
// at-most-once under concurrent sweeps.
func (s *Store) MarkReminderSent(ctx context.Context, id string, at time.Time) (bool, error) {
	query, args, err := psql.Update("support_cases").
		Set("reminder_sent", true).
		Set("reminder_sent_at", at).
		Set("status", string(domain.StatusReminderSent)).
		Set("version", sq.Expr("version + 1")).
		Where(sq.Eq{
			"case_id":       id,
			"status":        string(domain.StatusAwaitingReply),
			"reminder_sent": false,
		}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update: %w", err)
	}

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return false, mapError(err, id)
	}
	return tag.RowsAffected() == 1, nil
}

// scanCase reads one row in caseColumns order.
func scanCase(row pgx.Row) (*domain.Case, error) {
	var (
		c           domain.Case
		status      string
		taskNumber  *string
		forwarded   *time.Time
		replyAt     *time.Time
		reminderAt  *time.Time
		approvedAt  *time.Time
	)

	err := row.Scan(
		&c.ID, &c.Owner, &c.OriginalText, &c.OriginalLanguage,
		&c.OriginalLanguageName, &c.TranslatedText, &c.ManufacturerID,
		&c.ManufacturerName, &taskNumber, &c.ManufacturerReply,
		&c.ReplyTranslated, &status, &c.Notes, &c.SubmittedAt,
		&forwarded, &replyAt, &reminderAt, &approvedAt,
		&c.ReminderSent, &c.NeedsApproval, &c.Version,
	)
	if err != nil {
		return nil, err
	}

	parsed, err := domain.ParseCaseStatus(status)
	if err != nil {
		return nil, err
	}
	c.Status = parsed

	if taskNumber != nil {
		c.TaskNumber = *taskNumber
	}
	c.ForwardedAt = deref(forwarded)
	c.ReplyReceivedAt = deref(replyAt)
	c.ReminderSentAt = deref(reminderAt)
	c.ApprovedAt = deref(approvedAt)

	return &c, nil
}

// nullString maps the empty string onto SQL NULL so the partial unique index
// on task_number never sees empty tokens.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nullTime maps the zero time onto SQL NULL.
func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func deref(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
