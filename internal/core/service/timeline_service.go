package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

const (
	defaultTimelineLimit = 50
	maxTimelineLimit     = 200
)

// TimelineService appends and reads the activity log.
type TimelineService struct {
	repo  ports.TimelineRepository
	clock Clock
	ids   IDGenerator
	log   zerolog.Logger
}

func NewTimelineService(repo ports.TimelineRepository, clock Clock, ids IDGenerator, log zerolog.Logger) *TimelineService {
	return &TimelineService{repo: repo, clock: clock, ids: ids, log: log}
}

// Record appends e. A failed write is logged and swallowed: the timeline is a
// side channel and must never fail the mutation that produced it.
func (s *TimelineService) Record(ctx context.Context, e *domain.TimelineEvent) {
	if e.ID == "" {
		e.ID = s.ids.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock.Now()
	}
	if err := s.repo.Insert(ctx, e); err != nil {
		s.log.Warn().Err(err).
			Str("event_type", string(e.EventType)).
			Str("project_id", e.ProjectID).
			Msg("failed to record timeline event")
	}
}

func (s *TimelineService) ListByProject(ctx context.Context, ownerID, projectID string, limit int) ([]*domain.TimelineEvent, error) {
	return s.repo.ListByProject(ctx, ownerID, projectID, clampLimit(limit))
}

func (s *TimelineService) ListRecent(ctx context.Context, ownerID string, limit int) ([]*domain.TimelineEvent, error) {
	return s.repo.ListRecent(ctx, ownerID, clampLimit(limit))
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultTimelineLimit
	}
	if limit > maxTimelineLimit {
		return maxTimelineLimit
	}
	return limit
}
