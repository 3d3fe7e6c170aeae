package postgres

import (
	"context"
	"errors"
	"fmt"

	"missionsuivi/pkg/platform/sentinel"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes surfaced to callers as constraint conflicts.
const (
	uniqueViolation     = "23505"
	checkViolation      = "23514"
	foreignKeyViolation = "23503"
	queryCanceled       = "57014"
)

// TranslateError wraps constraint violations in sentinel.ErrConflict, keeping
// the constraint name for logs, and statement timeouts in
// context.DeadlineExceeded. Other errors pass through unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case uniqueViolation, checkViolation, foreignKeyViolation:
		return fmt.Errorf("%w: %s (%s)", sentinel.ErrConflict, pgErr.ConstraintName, pgErr.Code)
	case queryCanceled:
		return fmt.Errorf("%w: %s", context.DeadlineExceeded, pgErr.Message)
	default:
		return err
	}
}
