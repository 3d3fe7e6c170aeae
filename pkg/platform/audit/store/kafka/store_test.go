package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	audit "missionsuivi/pkg/platform/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type recordingProducer struct {
	records []*kgo.Record
	err     error
}

func (p *recordingProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	p.records = append(p.records, rs...)
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		results = append(results, kgo.ProduceResult{Record: r, Err: p.err})
	}
	return results
}

func TestAppend_ProducesKeyedJSON(t *testing.T) {
	p := &recordingProducer{}
	store := New(p, "missionsuivi.audit")

	err := store.Append(context.Background(), audit.Event{
		Action:    string(audit.EventReportExported),
		ActorID:   "admin@dgi",
		Subject:   "volet=FI",
		Affected:  4,
		RequestID: "req-1",
	})
	require.NoError(t, err)
	require.Len(t, p.records, 1)

	rec := p.records[0]
	assert.Equal(t, "missionsuivi.audit", rec.Topic)
	assert.Equal(t, "report_exported", string(rec.Key))

	var msg message
	require.NoError(t, json.Unmarshal(rec.Value, &msg))
	assert.Equal(t, "operations", msg.Category)
	assert.Equal(t, int64(4), msg.Affected)
	assert.Equal(t, "req-1", msg.RequestID)
	assert.NotEmpty(t, msg.ID)
	assert.NotEmpty(t, msg.Timestamp)
}

func TestAppend_PropagatesProduceError(t *testing.T) {
	p := &recordingProducer{err: errors.New("NOT_LEADER_FOR_PARTITION")}
	store := New(p, "t")

	err := store.Append(context.Background(), audit.Event{Action: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "produce audit event")
}
