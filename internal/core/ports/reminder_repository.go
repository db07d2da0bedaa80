package ports

import (
	"context"
	"time"

	"github.com/freelanceos/backend/internal/core/domain"
)

// ReminderFilter narrows a reminder listing. Results are ordered by
// reminder_date ascending.
type ReminderFilter struct {
	OwnerID      string
	ProjectID    string
	ClientID     string
	PaymentID    string
	IncludeSent  bool      // false = only is_sent == false
	DateAfter    time.Time // optional: reminder_date > DateAfter
	DateNotAfter time.Time // optional: reminder_date <= DateNotAfter
}

type ReminderRepository interface {
	Create(ctx context.Context, r *domain.Reminder) error
	FindByID(ctx context.Context, ownerID, id string) (*domain.Reminder, error)
	List(ctx context.Context, filter ReminderFilter) ([]*domain.Reminder, error)
	Update(ctx context.Context, r *domain.Reminder) error
	Delete(ctx context.Context, ownerID, id string) error
}
