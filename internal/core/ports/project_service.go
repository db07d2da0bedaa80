package ports

import (
	"context"
	"time"

	"github.com/freelanceos/backend/internal/core/domain"
)

type CreateProjectInput struct {
	OwnerID     string
	ClientID    string
	Name        string
	Description string
	Status      domain.ProjectStatus // defaults to planning
	Budget      float64
	Currency    string
	StartDate   *time.Time
	EndDate     *time.Time
}

// UpdateProjectInput accepts either a stored Status or a display UIStatus;
// Status wins when both are set.
type UpdateProjectInput struct {
	OwnerID     string
	ID          string
	Name        *string
	Description *string
	Status      *domain.ProjectStatus
	UIStatus    *domain.UIStatus
	Budget      *float64
	Currency    *string
	StartDate   *time.Time
	EndDate     *time.Time
}

type ListProjectsInput struct {
	OwnerID  string
	ClientID string
	Status   domain.ProjectStatus
	UIStatus domain.UIStatus
}

type ProjectService interface {
	Create(ctx context.Context, in CreateProjectInput) (*domain.Project, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Project, error)
	List(ctx context.Context, in ListProjectsInput) ([]*domain.Project, error)
	Update(ctx context.Context, in UpdateProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, ownerID, id string) error
}
