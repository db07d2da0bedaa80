package ports

import (
	"context"

	"github.com/freelanceos/backend/internal/core/domain"
)

type CreateScopeInput struct {
	OwnerID      string
	ProjectID    string
	Deliverables []string
	OutOfScope   []string
	Assumptions  []string
	Notes        string
}

// SharedScope is the public view behind a share link: one version plus the
// parent project's name and status.
type SharedScope struct {
	Version       *domain.ScopeVersion
	ProjectName   string
	ProjectStatus domain.ProjectStatus
}

type ScopeService interface {
	CreateVersion(ctx context.Context, in CreateScopeInput) (*domain.ScopeVersion, error)
	List(ctx context.Context, ownerID, projectID string) ([]*domain.ScopeVersion, error)
	GetLatest(ctx context.Context, ownerID, projectID string) (*domain.ScopeVersion, error)
	Get(ctx context.Context, ownerID, projectID string, version int) (*domain.ScopeVersion, error)
	GetByShareToken(ctx context.Context, token string) (*SharedScope, error)
}
