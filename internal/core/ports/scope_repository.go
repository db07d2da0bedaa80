package ports

import (
	"context"

	"github.com/freelanceos/backend/internal/core/domain"
)

// ScopeRepository persists immutable scope versions. There is no update or
// delete: scope changes are new versions.
type ScopeRepository interface {
	// NextVersionNumber atomically reserves the next version number of a
	// project. Concurrent callers never receive the same number.
	NextVersionNumber(ctx context.Context, projectID string) (int, error)
	Create(ctx context.Context, v *domain.ScopeVersion) error
	ListByProject(ctx context.Context, ownerID, projectID string) ([]*domain.ScopeVersion, error)
	FindLatest(ctx context.Context, ownerID, projectID string) (*domain.ScopeVersion, error)
	FindByVersion(ctx context.Context, ownerID, projectID string, version int) (*domain.ScopeVersion, error)
	FindByShareToken(ctx context.Context, token string) (*domain.ScopeVersion, error)
}
