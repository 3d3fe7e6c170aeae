package compliance

import (
	"context"
	"errors"
	"testing"

	audit "missionsuivi/pkg/platform/audit"
	"missionsuivi/pkg/platform/audit/store/memory"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Append(context.Context, audit.Event) error {
	return errors.New("disk full")
}

func TestEmit_PersistsWithDefaults(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := New(store)

	err := pub.Emit(context.Background(), audit.Event{
		Action:   string(audit.EventEvaluationsDeleted),
		Subject:  "all",
		Affected: 12,
	})
	require.NoError(t, err)

	events, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "system", events[0].ActorID)
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.Equal(t, int64(12), events[0].Affected)
}

func TestEmit_RequiresAction(t *testing.T) {
	pub := New(memory.NewInMemoryStore())
	err := pub.Emit(context.Background(), audit.Event{})
	require.Error(t, err)
}

func TestEmit_FailsClosed(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	pub := New(failingStore{}, WithMetrics(m))

	err := pub.Emit(context.Background(), audit.Event{Action: string(audit.EventEvaluationRestored)})
	require.Error(t, err)
	assert.InDelta(t, 1, testutil.ToFloat64(m.PersistFailures), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.EventsEmitted), 0)
}
