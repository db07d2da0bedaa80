package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/freelanceos/backend/internal/api/metrics"
	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

type ScopeService struct {
	scopes   ports.ScopeRepository
	projects ports.ProjectRepository
	timeline ports.TimelineService
	clock    Clock
	ids      IDGenerator
	logger   zerolog.Logger
}

func NewScopeService(scopes ports.ScopeRepository, projects ports.ProjectRepository, timeline ports.TimelineService, clock Clock, ids IDGenerator, logger zerolog.Logger) *ScopeService {
	return &ScopeService{scopes: scopes, projects: projects, timeline: timeline, clock: clock, ids: ids, logger: logger}
}

// CreateVersion appends a new immutable scope version. The version number is
// reserved from the repository counter, so concurrent calls stay gap-free.
func (s *ScopeService) CreateVersion(ctx context.Context, in ports.CreateScopeInput) (*domain.ScopeVersion, error) {
	project, err := s.projects.FindByID(ctx, in.OwnerID, in.ProjectID)
	if err != nil {
		return nil, err
	}

	n, err := s.scopes.NextVersionNumber(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("reserve scope version: %w", err)
	}

	v := &domain.ScopeVersion{
		ID:            s.ids.New(),
		OwnerID:       in.OwnerID,
		ProjectID:     project.ID,
		VersionNumber: n,
		Deliverables:  compactLines(in.Deliverables),
		OutOfScope:    compactLines(in.OutOfScope),
		Assumptions:   compactLines(in.Assumptions),
		Notes:         strings.TrimSpace(in.Notes),
		ShareToken:    s.ids.New(),
		CreatedAt:     s.clock.Now(),
	}
	if err := s.scopes.Create(ctx, v); err != nil {
		s.logger.Error().Err(err).Str("project_id", project.ID).Msg("failed to create scope version")
		return nil, fmt.Errorf("create scope version: %w", err)
	}

	metrics.ScopeVersionsCreatedTotal.Inc()
	s.timeline.Record(ctx, &domain.TimelineEvent{
		OwnerID:   in.OwnerID,
		ProjectID: project.ID,
		ClientID:  project.ClientID,
		EventType: domain.EventScopeVersionCreated,
		Title:     fmt.Sprintf("Scope v%d created", n),
		Metadata:  map[string]any{"scope_id": v.ID, "version_number": n},
	})
	return v, nil
}

func (s *ScopeService) List(ctx context.Context, ownerID, projectID string) ([]*domain.ScopeVersion, error) {
	if _, err := s.projects.FindByID(ctx, ownerID, projectID); err != nil {
		return nil, err
	}
	return s.scopes.ListByProject(ctx, ownerID, projectID)
}

func (s *ScopeService) GetLatest(ctx context.Context, ownerID, projectID string) (*domain.ScopeVersion, error) {
	return s.scopes.FindLatest(ctx, ownerID, projectID)
}

func (s *ScopeService) Get(ctx context.Context, ownerID, projectID string, version int) (*domain.ScopeVersion, error) {
	if version <= 0 {
		return nil, domain.ErrScopeNotFound
	}
	return s.scopes.FindByVersion(ctx, ownerID, projectID, version)
}

// GetByShareToken serves the public share link. The token is the only
// credential.
func (s *ScopeService) GetByShareToken(ctx context.Context, token string) (*ports.SharedScope, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrScopeNotFound
	}
	v, err := s.scopes.FindByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.FindByIDUnscoped(ctx, v.ProjectID)
	if err != nil {
		return nil, err
	}
	return &ports.SharedScope{Version: v, ProjectName: project.Name, ProjectStatus: project.Status}, nil
}

func compactLines(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
