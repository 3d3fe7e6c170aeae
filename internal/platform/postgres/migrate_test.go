package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"missionsuivi/pkg/platform/sentinel"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_OrderedAndContiguous(t *testing.T) {
	ms, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, ms)

	for i, m := range ms {
		assert.Equal(t, i+1, m.Version, "migration %s", m.Name)
		assert.NotEmpty(t, m.SQL)
	}
	assert.Equal(t, ms[len(ms)-1].Version, LatestVersion())
}

func TestTranslateError(t *testing.T) {
	t.Run("unique violation becomes conflict", func(t *testing.T) {
		err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "bareme_pkey"})
		got := TranslateError(err)
		require.ErrorIs(t, got, sentinel.ErrConflict)
		assert.Contains(t, got.Error(), "bareme_pkey")
	})

	t.Run("check violation becomes conflict", func(t *testing.T) {
		got := TranslateError(&pgconn.PgError{Code: "23514", ConstraintName: "mission_dates_check"})
		require.ErrorIs(t, got, sentinel.ErrConflict)
	})

	t.Run("statement timeout becomes deadline exceeded", func(t *testing.T) {
		err := fmt.Errorf("fetch records: %w", &pgconn.PgError{Code: "57014", Message: "canceling statement due to statement timeout"})
		got := TranslateError(err)
		require.ErrorIs(t, got, context.DeadlineExceeded)
		assert.Contains(t, got.Error(), "statement timeout")
	})

	t.Run("other errors pass through", func(t *testing.T) {
		plain := errors.New("connection refused")
		assert.Equal(t, plain, TranslateError(plain))
		syntax := &pgconn.PgError{Code: "42601"}
		assert.Equal(t, error(syntax), TranslateError(syntax))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, TranslateError(nil))
	})
}
