package domain

import "time"

type ReminderType string

const (
	ReminderFollowUp ReminderType = "follow_up"
	ReminderPayment  ReminderType = "payment"
	ReminderDeadline ReminderType = "deadline"
	ReminderGeneral  ReminderType = "general"
)

func (t ReminderType) IsValid() bool {
	switch t {
	case ReminderFollowUp, ReminderPayment, ReminderDeadline, ReminderGeneral:
		return true
	}
	return false
}

func (t ReminderType) Label() string {
	switch t {
	case ReminderFollowUp:
		return "Follow-up"
	case ReminderPayment:
		return "Payment"
	case ReminderDeadline:
		return "Deadline"
	default:
		return "General"
	}
}

type ReminderStatus string

const (
	ReminderPending ReminderStatus = "pending"
	ReminderSnoozed ReminderStatus = "snoozed"
	ReminderDone    ReminderStatus = "done"
)

// Reminder may be linked to any subset of project, client and payment.
type Reminder struct {
	ID           string         `json:"id" bson:"_id"`
	OwnerID      string         `json:"-" bson:"owner_id"`
	ProjectID    string         `json:"project_id,omitempty" bson:"project_id,omitempty"`
	ClientID     string         `json:"client_id,omitempty" bson:"client_id,omitempty"`
	PaymentID    string         `json:"payment_id,omitempty" bson:"payment_id,omitempty"`
	Title        string         `json:"title" bson:"title"`
	Message      string         `json:"message" bson:"message"`
	ReminderDate time.Time      `json:"reminder_date" bson:"reminder_date"`
	ReminderType ReminderType   `json:"reminder_type" bson:"reminder_type"`
	Status       ReminderStatus `json:"status" bson:"status"`
	IsSent       bool           `json:"is_sent" bson:"is_sent"`
	SentAt       *time.Time     `json:"sent_at,omitempty" bson:"sent_at,omitempty"`
	SnoozedUntil *time.Time     `json:"snoozed_until,omitempty" bson:"snoozed_until,omitempty"`
	CreatedAt    time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" bson:"updated_at"`
}

// IsVisible reports whether the reminder belongs in the follow-up inbox:
// not sent, and not snoozed past now.
func (r *Reminder) IsVisible(now time.Time) bool {
	if r.IsSent {
		return false
	}
	if r.Status != ReminderSnoozed {
		return true
	}
	return r.SnoozedUntil == nil || !r.SnoozedUntil.After(now)
}

// IsDue reports whether a visible reminder's date has been reached.
func (r *Reminder) IsDue(now time.Time) bool {
	return r.IsVisible(now) && !r.ReminderDate.After(now)
}

// Snooze pushes the reminder date forward by days, counted from the current
// reminder date, and hides the reminder until then.
func (r *Reminder) Snooze(days int) {
	next := r.ReminderDate.Add(time.Duration(days) * 24 * time.Hour)
	r.ReminderDate = next
	r.Status = ReminderSnoozed
	r.SnoozedUntil = &next
}

// MarkDone records the reminder as handled at now.
func (r *Reminder) MarkDone(now time.Time) {
	r.IsSent = true
	r.SentAt = &now
	r.Status = ReminderDone
}
