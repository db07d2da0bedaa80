package ports

import (
	"context"
	"io"

	"github.com/freelanceos/backend/internal/core/domain"
)

type CreateClientInput struct {
	OwnerID string
	Name    string
	Email   string
	Company string
	Phone   string
	Notes   string
	Status  domain.ClientStatus // defaults to active
}

type UpdateClientInput struct {
	OwnerID string
	ID      string
	Name    *string
	Email   *string
	Company *string
	Phone   *string
	Notes   *string
	Status  *domain.ClientStatus
}

// ImportResult reports a CSV import. Valid rows are imported even when
// other rows fail.
type ImportResult struct {
	Imported []*domain.Client
	Errors   []string
}

type ClientService interface {
	Create(ctx context.Context, in CreateClientInput) (*domain.Client, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Client, error)
	List(ctx context.Context, filter ClientFilter) ([]*domain.Client, error)
	Update(ctx context.Context, in UpdateClientInput) (*domain.Client, error)
	Delete(ctx context.Context, ownerID, id string) error
	LogContact(ctx context.Context, ownerID, id, note string) (*domain.Client, error)
	ImportCSV(ctx context.Context, ownerID string, r io.Reader) (*ImportResult, error)
}
