package ports

import (
	"context"

	"github.com/freelanceos/backend/internal/core/domain"
)

// ClientFilter narrows a client listing. OwnerID is always required.
type ClientFilter struct {
	OwnerID string
	Status  domain.ClientStatus // optional
	Search  string              // optional: partial match on name, email or company
	Email   string              // optional: exact, case-insensitive
}

// ClientRepository defines persistence operations for clients.
// Every lookup is scoped by owner; a row owned by someone else is reported
// as domain.ErrClientNotFound.
type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) error
	FindByID(ctx context.Context, ownerID, id string) (*domain.Client, error)
	List(ctx context.Context, filter ClientFilter) ([]*domain.Client, error)
	Update(ctx context.Context, c *domain.Client) error
	Delete(ctx context.Context, ownerID, id string) error
}
