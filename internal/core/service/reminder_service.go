package service

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

const defaultUpcomingDays = 7

type ReminderService struct {
	reminders ports.ReminderRepository
	projects  ports.ProjectRepository
	clients   ports.ClientRepository
	emails    ports.EmailQueue
	timeline  ports.TimelineService
	clock     Clock
	ids       IDGenerator
	logger    zerolog.Logger
}

type ReminderServiceDeps struct {
	Reminders ports.ReminderRepository
	Projects  ports.ProjectRepository
	Clients   ports.ClientRepository
	Emails    ports.EmailQueue
	Timeline  ports.TimelineService
	Clock     Clock
	IDs       IDGenerator
	Logger    zerolog.Logger
}

func NewReminderService(d ReminderServiceDeps) *ReminderService {
	return &ReminderService{
		reminders: d.Reminders,
		projects:  d.Projects,
		clients:   d.Clients,
		emails:    d.Emails,
		timeline:  d.Timeline,
		clock:     d.Clock,
		ids:       d.IDs,
		logger:    d.Logger,
	}
}

func (s *ReminderService) Create(ctx context.Context, in ports.CreateReminderInput) (*domain.Reminder, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.Invalidf("title is required")
	}
	if in.ReminderDate.IsZero() {
		return nil, domain.Invalidf("reminder_date is required")
	}
	kind := in.ReminderType
	if kind == "" {
		kind = domain.ReminderGeneral
	}
	if !kind.IsValid() {
		return nil, domain.Invalidf("invalid reminder_type %q", kind)
	}

	clientID := in.ClientID
	if in.ProjectID != "" {
		project, err := s.projects.FindByID(ctx, in.OwnerID, in.ProjectID)
		if err != nil {
			return nil, err
		}
		if clientID == "" {
			clientID = project.ClientID
		}
	}
	if clientID != "" {
		if _, err := s.clients.FindByID(ctx, in.OwnerID, clientID); err != nil {
			return nil, err
		}
	}

	now := s.clock.Now()
	r := &domain.Reminder{
		ID:           s.ids.New(),
		OwnerID:      in.OwnerID,
		ProjectID:    in.ProjectID,
		ClientID:     clientID,
		PaymentID:    in.PaymentID,
		Title:        title,
		Message:      in.Message,
		ReminderDate: in.ReminderDate.UTC(),
		ReminderType: kind,
		Status:       domain.ReminderPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.reminders.Create(ctx, r); err != nil {
		s.logger.Error().Err(err).Msg("failed to create reminder")
		return nil, fmt.Errorf("create reminder: %w", err)
	}
	return r, nil
}

func (s *ReminderService) Get(ctx context.Context, ownerID, id string) (*domain.Reminder, error) {
	return s.reminders.FindByID(ctx, ownerID, id)
}

func (s *ReminderService) List(ctx context.Context, filter ports.ReminderFilter) ([]*domain.Reminder, error) {
	return s.reminders.List(ctx, filter)
}

func (s *ReminderService) Update(ctx context.Context, in ports.UpdateReminderInput) (*domain.Reminder, error) {
	r, err := s.reminders.FindByID(ctx, in.OwnerID, in.ID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.Invalidf("title is required")
		}
		r.Title = title
	}
	if in.Message != nil {
		r.Message = *in.Message
	}
	if in.ReminderDate != nil {
		r.ReminderDate = in.ReminderDate.UTC()
		// A new date replaces any pending snooze.
		if r.Status == domain.ReminderSnoozed {
			r.Status = domain.ReminderPending
			r.SnoozedUntil = nil
		}
	}
	if in.ReminderType != nil {
		if !in.ReminderType.IsValid() {
			return nil, domain.Invalidf("invalid reminder_type %q", *in.ReminderType)
		}
		r.ReminderType = *in.ReminderType
	}
	r.UpdatedAt = s.clock.Now()

	if err := s.reminders.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("update reminder: %w", err)
	}
	return r, nil
}

func (s *ReminderService) Delete(ctx context.Context, ownerID, id string) error {
	return s.reminders.Delete(ctx, ownerID, id)
}

func (s *ReminderService) Due(ctx context.Context, ownerID string) ([]*domain.Reminder, error) {
	now := s.clock.Now()
	list, err := s.reminders.List(ctx, ports.ReminderFilter{OwnerID: ownerID, DateNotAfter: now})
	if err != nil {
		return nil, fmt.Errorf("list due reminders: %w", err)
	}
	return visibleReminders(list, now, func(r *domain.Reminder) bool { return r.IsDue(now) }), nil
}

func (s *ReminderService) Upcoming(ctx context.Context, ownerID string, days int) ([]*domain.Reminder, error) {
	if days <= 0 {
		days = defaultUpcomingDays
	}
	now := s.clock.Now()
	until := now.Add(time.Duration(days) * 24 * time.Hour)
	list, err := s.reminders.List(ctx, ports.ReminderFilter{OwnerID: ownerID, DateAfter: now, DateNotAfter: until})
	if err != nil {
		return nil, fmt.Errorf("list upcoming reminders: %w", err)
	}
	return visibleReminders(list, now, func(r *domain.Reminder) bool {
		return r.ReminderDate.After(now) && !r.ReminderDate.After(until)
	}), nil
}

func visibleReminders(list []*domain.Reminder, now time.Time, keep func(*domain.Reminder) bool) []*domain.Reminder {
	out := make([]*domain.Reminder, 0, len(list))
	for _, r := range list {
		if r.IsVisible(now) && keep(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReminderDate.Before(out[j].ReminderDate) })
	return out
}

func (s *ReminderService) MarkDone(ctx context.Context, ownerID, id string) (*domain.Reminder, error) {
	r, err := s.reminders.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	r.MarkDone(now)
	r.UpdatedAt = now
	if err := s.reminders.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("complete reminder: %w", err)
	}

	if r.ProjectID != "" {
		s.timeline.Record(ctx, &domain.TimelineEvent{
			OwnerID:   r.OwnerID,
			ProjectID: r.ProjectID,
			ClientID:  r.ClientID,
			EventType: domain.EventReminderCompleted,
			Title:     "Reminder completed: " + r.Title,
			Metadata:  map[string]any{"reminder_id": r.ID},
		})
	}
	return r, nil
}

func (s *ReminderService) Snooze(ctx context.Context, ownerID, id string, days int) (*domain.Reminder, error) {
	if days <= 0 {
		return nil, domain.Invalidf("days must be greater than 0")
	}
	r, err := s.reminders.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	r.Snooze(days)
	r.UpdatedAt = s.clock.Now()
	if err := s.reminders.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("snooze reminder: %w", err)
	}

	if r.ProjectID != "" {
		s.timeline.Record(ctx, &domain.TimelineEvent{
			OwnerID:   r.OwnerID,
			ProjectID: r.ProjectID,
			ClientID:  r.ClientID,
			EventType: domain.EventReminderSnoozed,
			Title:     fmt.Sprintf("Reminder snoozed for %d day(s): %s", days, r.Title),
			Metadata:  map[string]any{"reminder_id": r.ID, "days": days, "snoozed_until": r.SnoozedUntil},
		})
	}
	return r, nil
}

// SendFollowUp emails the reminder's client and then marks the reminder done.
func (s *ReminderService) SendFollowUp(ctx context.Context, in ports.SendFollowUpInput) (*domain.Reminder, error) {
	r, err := s.reminders.FindByID(ctx, in.OwnerID, in.ReminderID)
	if err != nil {
		return nil, err
	}

	clientID := r.ClientID
	if clientID == "" && r.ProjectID != "" {
		if project, err := s.projects.FindByID(ctx, in.OwnerID, r.ProjectID); err == nil {
			clientID = project.ClientID
		}
	}
	client, to, err := resolveRecipient(ctx, s.clients, s.clock, in.OwnerID, clientID, in.Email, in.SaveEmail)
	if err != nil {
		return nil, err
	}

	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		subject = "Following up: " + r.Title
	}
	message := in.Message
	if message == "" {
		message = r.Message
	}
	s.emails.Enqueue(ports.EmailMessage{
		Kind:    "follow_up",
		To:      to,
		Subject: subject,
		HTML:    followUpHTML(client, message),
	})

	now := s.clock.Now()
	r.MarkDone(now)
	r.UpdatedAt = now
	if err := s.reminders.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("complete reminder: %w", err)
	}

	if client != nil {
		client.LastContactAt = &now
		client.UpdatedAt = now
		if err := s.clients.Update(ctx, client); err != nil {
			s.logger.Warn().Err(err).Str("client_id", client.ID).Msg("failed to update last contact")
		}
	}

	s.timeline.Record(ctx, &domain.TimelineEvent{
		OwnerID:     r.OwnerID,
		ProjectID:   r.ProjectID,
		ClientID:    clientID,
		EventType:   domain.EventEmailSent,
		Title:       "Follow-up sent to " + to,
		Description: subject,
		Metadata:    map[string]any{"reminder_id": r.ID, "to": to},
	})
	s.logger.Info().Str("reminder_id", r.ID).Msg("follow-up queued for delivery")
	return r, nil
}

func followUpHTML(client *domain.Client, message string) string {
	var b strings.Builder
	if client != nil && client.Name != "" {
		fmt.Fprintf(&b, "<p>Hi %s,</p>", html.EscapeString(client.Name))
	} else {
		b.WriteString("<p>Hi,</p>")
	}
	for _, line := range strings.Split(message, "\n") {
		b.WriteString("<p>" + html.EscapeString(line) + "</p>")
	}
	return b.String()
}
