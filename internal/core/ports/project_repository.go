package ports

import (
	"context"

	"github.com/freelanceos/backend/internal/core/domain"
)

// ProjectFilter narrows a project listing.
type ProjectFilter struct {
	OwnerID  string
	ClientID string                 // optional
	Statuses []domain.ProjectStatus // optional: any of
}

type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	FindByID(ctx context.Context, ownerID, id string) (*domain.Project, error)
	// FindByIDUnscoped is used only by the public share link, which has no owner.
	FindByIDUnscoped(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, ownerID, id string) error
}
