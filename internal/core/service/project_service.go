package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

type ProjectService struct {
	projects ports.ProjectRepository
	clients  ports.ClientRepository
	timeline ports.TimelineService
	clock    Clock
	ids      IDGenerator
	logger   zerolog.Logger
}

func NewProjectService(
	projects ports.ProjectRepository,
	clients ports.ClientRepository,
	timeline ports.TimelineService,
	clock Clock,
	ids IDGenerator,
	logger zerolog.Logger,
) *ProjectService {
	return &ProjectService{
		projects: projects,
		clients:  clients,
		timeline: timeline,
		clock:    clock,
		ids:      ids,
		logger:   logger,
	}
}

// Create opens a project for one of the caller's clients.
func (s *ProjectService) Create(ctx context.Context, in ports.CreateProjectInput) (*domain.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalidf("name is required")
	}
	if in.ClientID == "" {
		return nil, domain.Invalidf("client_id is required")
	}
	status := in.Status
	if status == "" {
		status = domain.ProjectPlanning
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: project status %q", domain.ErrInvalidStatus, status)
	}

	client, err := s.clients.FindByID(ctx, in.OwnerID, in.ClientID)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	now := s.clock.Now()
	p := &domain.Project{
		ID:          s.ids.New(),
		OwnerID:     in.OwnerID,
		ClientID:    client.ID,
		Name:        name,
		Description: in.Description,
		Status:      status,
		Budget:      in.Budget,
		Currency:    strings.ToUpper(strings.TrimSpace(in.Currency)),
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Msg("failed to create project")
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.timeline.Record(ctx, &domain.TimelineEvent{
		OwnerID:   p.OwnerID,
		ProjectID: p.ID,
		ClientID:  p.ClientID,
		EventType: domain.EventProjectCreated,
		Title:     "Project created: " + p.Name,
	})

	s.logger.Info().Str("project_id", p.ID).Str("client_id", p.ClientID).Msg("project created")
	return p, nil
}

func (s *ProjectService) Get(ctx context.Context, ownerID, id string) (*domain.Project, error) {
	return s.projects.FindByID(ctx, ownerID, id)
}

// List filters by stored status, or by every stored status that displays as
// the requested UI status.
func (s *ProjectService) List(ctx context.Context, in ports.ListProjectsInput) ([]*domain.Project, error) {
	filter := ports.ProjectFilter{OwnerID: in.OwnerID, ClientID: in.ClientID}
	switch {
	case in.Status != "":
		if !in.Status.IsValid() {
			return nil, fmt.Errorf("%w: project status %q", domain.ErrInvalidStatus, in.Status)
		}
		filter.Statuses = []domain.ProjectStatus{in.Status}
	case in.UIStatus != "":
		if !in.UIStatus.IsValid() {
			return nil, fmt.Errorf("%w: ui status %q", domain.ErrInvalidStatus, in.UIStatus)
		}
		filter.Statuses = domain.ProjectStatusesForUI(in.UIStatus)
	}
	return s.projects.List(ctx, filter)
}

func (s *ProjectService) Update(ctx context.Context, in ports.UpdateProjectInput) (*domain.Project, error) {
	p, err := s.projects.FindByID(ctx, in.OwnerID, in.ID)
	if err != nil {
		return nil, err
	}
	prevStatus := p.Status

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalidf("name is required")
		}
		p.Name = name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Budget != nil {
		p.Budget = *in.Budget
	}
	if in.Currency != nil {
		p.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	if in.StartDate != nil {
		p.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		p.EndDate = in.EndDate
	}

	switch {
	case in.Status != nil:
		if !in.Status.IsValid() {
			return nil, fmt.Errorf("%w: project status %q", domain.ErrInvalidStatus, *in.Status)
		}
		p.Status = *in.Status
	case in.UIStatus != nil:
		// A display status only changes the stored one when it actually
		// displays differently, so review/cancelled survive a no-op board move.
		if p.Status.UIStatus() != *in.UIStatus {
			st, ok := domain.ProjectStatusFromUI(*in.UIStatus)
			if !ok {
				return nil, fmt.Errorf("%w: ui status %q", domain.ErrInvalidStatus, *in.UIStatus)
			}
			p.Status = st
		}
	}
	p.UpdatedAt = s.clock.Now()

	if err := s.projects.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	if p.Status != prevStatus {
		s.timeline.Record(ctx, &domain.TimelineEvent{
			OwnerID:   p.OwnerID,
			ProjectID: p.ID,
			ClientID:  p.ClientID,
			EventType: domain.EventStatusChanged,
			Title:     fmt.Sprintf("Status changed from %s to %s", prevStatus, p.Status),
			Metadata:  map[string]any{"from": string(prevStatus), "to": string(p.Status)},
		})
	} else {
		s.timeline.Record(ctx, &domain.TimelineEvent{
			OwnerID:   p.OwnerID,
			ProjectID: p.ID,
			ClientID:  p.ClientID,
			EventType: domain.EventProjectUpdated,
			Title:     "Project updated",
		})
	}
	return p, nil
}

func (s *ProjectService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.projects.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.Info().Str("project_id", id).Msg("project deleted")
	return nil
}
