// Package kafka streams audit events to a topic. Each record is keyed by
// action so consumers can partition by event type.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	audit "missionsuivi/pkg/platform/audit"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer is the subset of *kgo.Client used here.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

type Store struct {
	client Producer
	topic  string
}

func New(client Producer, topic string) *Store {
	return &Store{client: client, topic: topic}
}

type message struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	ActorID   string `json:"actor_id,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Affected  int64  `json:"affected"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func encode(event audit.Event) ([]byte, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return json.Marshal(message{
		ID:        uuid.NewString(),
		Category:  string(audit.AuditEvent(event.Action).Category()),
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339Nano),
		Action:    event.Action,
		ActorID:   event.ActorID,
		Subject:   event.Subject,
		Affected:  event.Affected,
		Reason:    event.Reason,
		RequestID: event.RequestID,
	})
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	value, err := encode(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.Action),
		Value: value,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}
