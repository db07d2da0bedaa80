package domain

import "time"

// EventType classifies an activity timeline entry.
type EventType string

const (
	EventProjectCreated      EventType = "project_created"
	EventProjectUpdated      EventType = "project_updated"
	EventStatusChanged       EventType = "status_changed"
	EventPaymentCreated      EventType = "payment_created"
	EventPaymentReceived     EventType = "payment_received"
	EventPaymentPartial      EventType = "payment_partial"
	EventPaymentOverdue      EventType = "payment_overdue"
	EventInvoiceGenerated    EventType = "invoice_generated"
	EventInvoiceSent         EventType = "invoice_sent"
	EventScopeVersionCreated EventType = "scope_version_created"
	EventReminderCompleted   EventType = "reminder_completed"
	EventReminderSnoozed     EventType = "reminder_snoozed"
	EventNoteAdded           EventType = "note_added"
	EventEmailSent           EventType = "email_sent"
	EventClientContacted     EventType = "client_contacted"
)

// TimelineEvent is an append-only activity record. It is informational only;
// no invariant depends on it.
type TimelineEvent struct {
	ID          string         `json:"id" bson:"_id"`
	OwnerID     string         `json:"-" bson:"owner_id"`
	ProjectID   string         `json:"project_id,omitempty" bson:"project_id,omitempty"`
	ClientID    string         `json:"client_id,omitempty" bson:"client_id,omitempty"`
	EventType   EventType      `json:"event_type" bson:"event_type"`
	Title       string         `json:"title" bson:"title"`
	Description string         `json:"description,omitempty" bson:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
}
