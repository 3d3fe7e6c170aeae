package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by retention and delivery guarantees.
type EventCategory string

const (
	// CategoryCompliance covers destructive or corrective actions on evaluation
	// data. These are persisted fail-closed alongside the change itself.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine activity (submissions, exports, imports).
	// These are streamed best-effort.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from services to capture key actions. It stays
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	Action    string
	// ActorID is the subject claim of the caller, or "system" for CLI jobs.
	ActorID string
	// Subject describes the target, e.g. "ville=1 etab=4 volet=2".
	Subject  string
	Affected int64
	Reason   string
	// RequestID correlates the event with the HTTP request log line.
	RequestID string
}

type AuditEvent string

const (
	EventEvaluationsDeleted    AuditEvent = "evaluations_deleted"
	EventEvaluationRestored    AuditEvent = "evaluation_restored"
	EventEvaluationsRestored   AuditEvent = "evaluations_restored_all"
	EventEvaluationReplaced    AuditEvent = "evaluation_replaced"
	EventEvaluationSubmitted   AuditEvent = "evaluation_submitted"
	EventReferenceDeleted      AuditEvent = "reference_deleted"
	EventReferenceRestored     AuditEvent = "reference_restored"
	EventReportExported        AuditEvent = "report_exported"
	EventReferenceDataImported AuditEvent = "reference_data_imported"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventEvaluationsDeleted:  CategoryCompliance,
	EventEvaluationRestored:  CategoryCompliance,
	EventEvaluationsRestored: CategoryCompliance,
	EventEvaluationReplaced:  CategoryCompliance,
	EventReferenceDeleted:    CategoryCompliance,
	EventReferenceRestored:   CategoryCompliance,

	EventEvaluationSubmitted:   CategoryOperations,
	EventReportExported:        CategoryOperations,
	EventReferenceDataImported: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}
