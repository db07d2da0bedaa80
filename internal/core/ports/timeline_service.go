package ports

import (
	"context"

	"github.com/freelanceos/backend/internal/core/domain"
)

type TimelineService interface {
	// Record appends an event. Failures are logged, never returned.
	Record(ctx context.Context, e *domain.TimelineEvent)
	ListByProject(ctx context.Context, ownerID, projectID string, limit int) ([]*domain.TimelineEvent, error)
	ListRecent(ctx context.Context, ownerID string, limit int) ([]*domain.TimelineEvent, error)
}
