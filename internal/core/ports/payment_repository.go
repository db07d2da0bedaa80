package ports

import (
	"context"
	"time"

	"github.com/freelanceos/backend/internal/core/domain"
)

// PaymentFilter narrows a payment listing.
type PaymentFilter struct {
	OwnerID   string // empty = all owners (background sweep only)
	ProjectID string
	ClientID  string
	Statuses  []domain.PaymentStatus
	DueBefore time.Time // optional: due_date < DueBefore
}

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	FindByID(ctx context.Context, ownerID, id string) (*domain.Payment, error)
	FindByIdempotencyKey(ctx context.Context, ownerID, key string) (*domain.Payment, error)
	List(ctx context.Context, filter PaymentFilter) ([]*domain.Payment, error)
	Update(ctx context.Context, p *domain.Payment) error
	Delete(ctx context.Context, ownerID, id string) error
}
