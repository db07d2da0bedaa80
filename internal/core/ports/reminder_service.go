package ports

import (
	"context"
	"time"

	"github.com/freelanceos/backend/internal/core/domain"
)

type CreateReminderInput struct {
	OwnerID      string
	ProjectID    string
	ClientID     string
	PaymentID    string
	Title        string
	Message      string
	ReminderDate time.Time
	ReminderType domain.ReminderType
}

type UpdateReminderInput struct {
	OwnerID      string
	ID           string
	Title        *string
	Message      *string
	ReminderDate *time.Time
	ReminderType *domain.ReminderType
}

type SendFollowUpInput struct {
	OwnerID    string
	ReminderID string
	Email      string
	SaveEmail  bool
	Subject    string
	Message    string
}

type ReminderService interface {
	Create(ctx context.Context, in CreateReminderInput) (*domain.Reminder, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Reminder, error)
	List(ctx context.Context, filter ReminderFilter) ([]*domain.Reminder, error)
	Update(ctx context.Context, in UpdateReminderInput) (*domain.Reminder, error)
	Delete(ctx context.Context, ownerID, id string) error
	// Due lists inbox reminders whose date has been reached.
	Due(ctx context.Context, ownerID string) ([]*domain.Reminder, error)
	// Upcoming lists inbox reminders falling within the next days.
	Upcoming(ctx context.Context, ownerID string, days int) ([]*domain.Reminder, error)
	MarkDone(ctx context.Context, ownerID, id string) (*domain.Reminder, error)
	Snooze(ctx context.Context, ownerID, id string, days int) (*domain.Reminder, error)
	SendFollowUp(ctx context.Context, in SendFollowUpInput) (*domain.Reminder, error)
}
