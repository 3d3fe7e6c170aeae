package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	audit "missionsuivi/pkg/platform/audit"
	txcontext "missionsuivi/pkg/platform/tx"

	"github.com/google/uuid"
)

// Store implements audit.Store on the audit_event table. When the context
// carries a transaction the event commits or rolls back with the change it
// describes.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) execer(ctx context.Context) txcontext.Querier {
	return txcontext.QuerierFor(ctx, s.db)
}

// payload is the JSON body kept alongside the indexed columns.
type payload struct {
	Subject  string `json:"subject"`
	Affected int64  `json:"affected"`
	Reason   string `json:"reason,omitempty"`
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	category := audit.AuditEvent(event.Action).Category()
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	body, err := json.Marshal(payload{
		Subject:  event.Subject,
		Affected: event.Affected,
		Reason:   event.Reason,
	})
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	query := `
		INSERT INTO audit_event (id, category, action, actor_id, request_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		uuid.New(),
		string(category),
		event.Action,
		event.ActorID,
		event.RequestID,
		body,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListRecent returns the newest events first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	query := `
		SELECT category, action, actor_id, request_id, payload, created_at
		FROM audit_event
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			e        audit.Event
			category string
			body     []byte
			p        payload
		)
		if err := rows.Scan(&category, &e.Action, &e.ActorID, &e.RequestID, &body, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("decode audit payload: %w", err)
		}
		e.Category = audit.EventCategory(category)
		e.Subject = p.Subject
		e.Affected = p.Affected
		e.Reason = p.Reason
		events = append(events, e)
	}
	return events, rows.Err()
}
