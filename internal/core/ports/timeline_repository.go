package ports

import (
	"context"
	"time"

	"github.com/freelanceos/backend/internal/core/domain"
)

// TimelineRepository is an append-only activity log.
type TimelineRepository interface {
	Insert(ctx context.Context, e *domain.TimelineEvent) error
	ListByProject(ctx context.Context, ownerID, projectID string, limit int) ([]*domain.TimelineEvent, error)
	ListRecent(ctx context.Context, ownerID string, limit int) ([]*domain.TimelineEvent, error)
	// LastActivity returns the newest event time per project id. Projects
	// without events are absent from the map.
	LastActivity(ctx context.Context, ownerID string, projectIDs []string) (map[string]time.Time, error)
}
