package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

type ClientService struct {
	repo     ports.ClientRepository
	timeline ports.TimelineService
	clock    Clock
	ids      IDGenerator
	logger   zerolog.Logger
}

func NewClientService(repo ports.ClientRepository, timeline ports.TimelineService, clock Clock, ids IDGenerator, logger zerolog.Logger) *ClientService {
	return &ClientService{repo: repo, timeline: timeline, clock: clock, ids: ids, logger: logger}
}

func (s *ClientService) Create(ctx context.Context, in ports.CreateClientInput) (*domain.Client, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalidf("name is required")
	}
	status := in.Status
	if status == "" {
		status = domain.ClientActive
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: client status %q", domain.ErrInvalidStatus, status)
	}

	now := s.clock.Now()
	c := &domain.Client{
		ID:        s.ids.New(),
		OwnerID:   in.OwnerID,
		Name:      name,
		Email:     normalizeEmail(in.Email),
		Company:   strings.TrimSpace(in.Company),
		Phone:     strings.TrimSpace(in.Phone),
		Notes:     in.Notes,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error().Err(err).Msg("failed to create client")
		return nil, fmt.Errorf("create client: %w", err)
	}

	s.logger.Info().Str("client_id", c.ID).Str("owner_id", c.OwnerID).Msg("client created")
	return c, nil
}

func (s *ClientService) Get(ctx context.Context, ownerID, id string) (*domain.Client, error) {
	return s.repo.FindByID(ctx, ownerID, id)
}

func (s *ClientService) List(ctx context.Context, filter ports.ClientFilter) ([]*domain.Client, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: client status %q", domain.ErrInvalidStatus, filter.Status)
	}
	return s.repo.List(ctx, filter)
}

func (s *ClientService) Update(ctx context.Context, in ports.UpdateClientInput) (*domain.Client, error) {
	c, err := s.repo.FindByID(ctx, in.OwnerID, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalidf("name is required")
		}
		c.Name = name
	}
	if in.Email != nil {
		c.Email = normalizeEmail(*in.Email)
	}
	if in.Company != nil {
		c.Company = strings.TrimSpace(*in.Company)
	}
	if in.Phone != nil {
		c.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Notes != nil {
		c.Notes = *in.Notes
	}
	if in.Status != nil {
		if !in.Status.IsValid() {
			return nil, fmt.Errorf("%w: client status %q", domain.ErrInvalidStatus, *in.Status)
		}
		c.Status = *in.Status
	}
	c.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	return c, nil
}

func (s *ClientService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.Info().Str("client_id", id).Msg("client deleted")
	return nil
}

// LogContact stamps the client's last contact time and records the contact
// on the timeline.
func (s *ClientService) LogContact(ctx context.Context, ownerID, id, note string) (*domain.Client, error) {
	c, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	c.LastContactAt = &now
	c.UpdatedAt = now
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("log contact: %w", err)
	}

	s.timeline.Record(ctx, &domain.TimelineEvent{
		OwnerID:     ownerID,
		ClientID:    c.ID,
		EventType:   domain.EventClientContacted,
		Title:       "Contacted " + c.Name,
		Description: note,
	})
	return c, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
