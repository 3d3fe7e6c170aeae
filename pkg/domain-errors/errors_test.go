package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapNilReturnsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestHasCodeThroughWrapping(t *testing.T) {
	base := New(CodeNotFound, "mission not found")
	wrapped := fmt.Errorf("lookup: %w", base)

	assert.True(t, HasCode(wrapped, CodeNotFound))
	assert.False(t, HasCode(wrapped, CodeConflict))
	assert.False(t, HasCode(errors.New("plain"), CodeNotFound))
}

func TestIsMatchesByCode(t *testing.T) {
	err := Wrap(errors.New("pq: duplicate"), CodeConflict, "duplicate evaluation")
	require.ErrorIs(t, err, New(CodeConflict, ""))
	assert.NotErrorIs(t, err, New(CodeNotFound, ""))
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, CodeInternal, "failed to fetch records")
	assert.ErrorIs(t, err, cause)

	de, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, "failed to fetch records", de.Message)
}
