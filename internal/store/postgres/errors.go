package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/casekit/caseflow/internal/domain"
)

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

// mapError converts pgx/pgconn errors to domain errors.
// Context cancellation errors pass through unmapped.
func mapError(err error, key string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("case %s: %w", key, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("case %s: %w", key, domain.ErrCaseNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		// The only unique constraints on support_cases are the primary key
		// and the task number; both mean the same thing to the engine.
		return fmt.Errorf("case %s: %w", key, domain.ErrDuplicateTaskNumber)
	}

	return fmt.Errorf("case %s: %w", key, err)
}
