package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/freelanceos/backend/internal/api/metrics"
	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

type PaymentService struct {
	payments ports.PaymentRepository
	projects ports.ProjectRepository
	settings ports.SettingsService
	timeline ports.TimelineService
	clock    Clock
	ids      IDGenerator
	logger   zerolog.Logger
}

func NewPaymentService(
	payments ports.PaymentRepository,
	projects ports.ProjectRepository,
	settings ports.SettingsService,
	timeline ports.TimelineService,
	clock Clock,
	ids IDGenerator,
	logger zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		payments: payments,
		projects: projects,
		settings: settings,
		timeline: timeline,
		clock:    clock,
		ids:      ids,
		logger:   logger,
	}
}

// Create adds a pending milestone to one of the caller's projects. If an
// idempotency key is provided and already seen, the previously created
// payment is returned without side effects.
func (s *PaymentService) Create(ctx context.Context, in ports.CreatePaymentInput) (*domain.Payment, error) {
	if in.IdempotencyKey != "" {
		existing, err := s.payments.FindByIdempotencyKey(ctx, in.OwnerID, in.IdempotencyKey)
		if err == nil && existing != nil {
			s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Str("payment_id", existing.ID).Msg("idempotent replay")
			return existing, nil
		}
	}

	milestone := strings.TrimSpace(in.MilestoneName)
	if milestone == "" {
		return nil, domain.Invalidf("milestone_name is required")
	}
	if in.Amount <= 0 {
		return nil, domain.Invalidf("amount must be greater than 0")
	}

	project, err := s.projects.FindByID(ctx, in.OwnerID, in.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	currency, err := s.resolveCurrency(ctx, in.OwnerID, in.Currency, project)
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	now := s.clock.Now()
	p := &domain.Payment{
		ID:             s.ids.New(),
		OwnerID:        in.OwnerID,
		ProjectID:      project.ID,
		ClientID:       project.ClientID,
		MilestoneName:  milestone,
		Amount:         in.Amount,
		AmountPaid:     0,
		Currency:       currency,
		Status:         domain.PaymentPending,
		DueDate:        in.DueDate,
		IdempotencyKey: in.IdempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		if errors.Is(err, domain.ErrIdempotencyKeyTaken) {
			existing, ferr := s.payments.FindByIdempotencyKey(ctx, in.OwnerID, in.IdempotencyKey)
			if ferr != nil {
				return nil, fmt.Errorf("create payment: %w", ferr)
			}
			s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Str("payment_id", existing.ID).Msg("idempotent replay")
			return existing, nil
		}
		s.logger.Error().Err(err).Msg("failed to create payment")
		return nil, fmt.Errorf("create payment: %w", err)
	}

	metrics.PaymentsCreatedTotal.WithLabelValues(p.Currency).Inc()
	s.timeline.Record(ctx, &domain.TimelineEvent{
		OwnerID:   p.OwnerID,
		ProjectID: p.ProjectID,
		ClientID:  p.ClientID,
		EventType: domain.EventPaymentCreated,
		Title:     "Payment milestone added: " + p.MilestoneName,
		Metadata:  map[string]any{"payment_id": p.ID, "amount": p.Amount, "currency": p.Currency},
	})

	s.logger.Info().Str("payment_id", p.ID).Str("project_id", p.ProjectID).Msg("payment created")
	return p, nil
}

func (s *PaymentService) resolveCurrency(ctx context.Context, ownerID, requested string, project *domain.Project) (string, error) {
	if c := strings.ToUpper(strings.TrimSpace(requested)); c != "" {
		return c, nil
	}
	if project.Currency != "" {
		return project.Currency, nil
	}
	settings, err := s.settings.Get(ctx, ownerID)
	if err != nil {
		return "", err
	}
	if settings.DefaultCurrency != "" {
		return settings.DefaultCurrency, nil
	}
	return domain.DefaultCurrency, nil
}

func (s *PaymentService) Get(ctx context.Context, ownerID, id string) (*domain.Payment, error) {
	return s.payments.FindByID(ctx, ownerID, id)
}

func (s *PaymentService) List(ctx context.Context, filter ports.PaymentFilter) ([]*domain.Payment, error) {
	if filter.OwnerID == "" {
		return nil, domain.ErrForbidden
	}
	for _, st := range filter.Statuses {
		if !st.IsValid() {
			return nil, fmt.Errorf("%w: payment status %q", domain.ErrInvalidStatus, st)
		}
	}
	return s.payments.List(ctx, filter)
}

func (s *PaymentService) Update(ctx context.Context, in ports.UpdatePaymentInput) (*domain.Payment, error) {
	p, err := s.payments.FindByID(ctx, in.OwnerID, in.ID)
	if err != nil {
		return nil, err
	}
	if in.MilestoneName != nil {
		name := strings.TrimSpace(*in.MilestoneName)
		if name == "" {
			return nil, domain.Invalidf("milestone_name is required")
		}
		p.MilestoneName = name
	}
	if in.Amount != nil {
		if *in.Amount <= 0 {
			return nil, domain.Invalidf("amount must be greater than 0")
		}
		p.Amount = *in.Amount
	}
	if in.Currency != nil {
		p.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	if in.DueDate != nil {
		p.DueDate = in.DueDate
	}
	p.UpdatedAt = s.clock.Now()

	if err := s.payments.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}
	return p, nil
}

// UpdateStatus applies a user-driven status change. paid_date defaults to now
// only when moving into paid with no paid_date on record; a supplied
// paid_date always wins.
func (s *PaymentService) UpdateStatus(ctx context.Context, in ports.UpdatePaymentStatusInput) (*domain.Payment, error) {
	if !in.Status.IsValid() {
		return nil, fmt.Errorf("%w: payment status %q", domain.ErrInvalidStatus, in.Status)
	}
	if in.AmountPaid != nil && *in.AmountPaid < 0 {
		return nil, domain.Invalidf("amount_paid must not be negative")
	}

	p, err := s.payments.FindByID(ctx, in.OwnerID, in.ID)
	if err != nil {
		return nil, err
	}
	prev := p.Status
	now := s.clock.Now()

	p.Status = in.Status
	if in.AmountPaid != nil {
		p.AmountPaid = *in.AmountPaid
	} else if in.Status == domain.PaymentPaid {
		p.AmountPaid = p.Amount
	}
	if in.PaymentMethod != "" {
		p.PaymentMethod = in.PaymentMethod
	}
	switch {
	case in.PaidDate != nil:
		p.PaidDate = in.PaidDate
	case in.Status == domain.PaymentPaid && p.PaidDate == nil:
		p.PaidDate = &now
	}
	p.UpdatedAt = now

	if err := s.payments.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}

	metrics.PaymentStatusTransitionsTotal.WithLabelValues(string(prev), string(p.Status)).Inc()

	switch p.Status {
	case domain.PaymentPaid:
		s.timeline.Record(ctx, &domain.TimelineEvent{
			OwnerID:   p.OwnerID,
			ProjectID: p.ProjectID,
			ClientID:  p.ClientID,
			EventType: domain.EventPaymentReceived,
			Title:     "Payment received: " + p.MilestoneName,
			Metadata:  map[string]any{"payment_id": p.ID, "amount": p.AmountPaid, "currency": p.Currency},
		})
	case domain.PaymentPartial:
		s.timeline.Record(ctx, &domain.TimelineEvent{
			OwnerID:   p.OwnerID,
			ProjectID: p.ProjectID,
			ClientID:  p.ClientID,
			EventType: domain.EventPaymentPartial,
			Title:     "Partial payment received: " + p.MilestoneName,
			Metadata: map[string]any{
				"payment_id":  p.ID,
				"amount_paid": p.AmountPaid,
				"remaining":   p.Outstanding(),
				"currency":    p.Currency,
			},
		})
	}

	s.logger.Info().
		Str("payment_id", p.ID).
		Str("from", string(prev)).
		Str("to", string(p.Status)).
		Msg("payment status updated")
	return p, nil
}

func (s *PaymentService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.payments.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.Info().Str("payment_id", id).Msg("payment deleted")
	return nil
}

// GenerateInvoice fills the invoice fields of the payment in place.
func (s *PaymentService) GenerateInvoice(ctx context.Context, in ports.GenerateInvoiceInput) (*domain.Payment, error) {
	p, err := s.payments.FindByID(ctx, in.OwnerID, in.PaymentID)
	if err != nil {
		return nil, err
	}

	for i, it := range in.LineItems {
		if strings.TrimSpace(it.Description) == "" {
			return nil, domain.Invalidf("line_items[%d]: description is required", i)
		}
		if it.Quantity <= 0 {
			return nil, domain.Invalidf("line_items[%d]: quantity must be greater than 0", i)
		}
		if it.UnitPrice < 0 {
			return nil, domain.Invalidf("line_items[%d]: unit_price must not be negative", i)
		}
	}

	number := strings.TrimSpace(in.InvoiceNumber)
	if number == "" {
		if p.InvoiceNumber != "" {
			number = p.InvoiceNumber
		} else {
			settings, err := s.settings.Get(ctx, in.OwnerID)
			if err != nil {
				return nil, fmt.Errorf("generate invoice: %w", err)
			}
			number = generateInvoiceNumber(settings.InvoicePrefix, s.clock.Now())
		}
	}

	now := s.clock.Now()
	switch {
	case len(in.LineItems) > 0:
		p.LineItems = in.LineItems
		p.Amount = domain.LineItemsTotal(in.LineItems)
	case len(p.LineItems) == 0:
		p.LineItems = []domain.LineItem{{Description: p.MilestoneName, Quantity: 1, UnitPrice: p.Amount}}
	}
	p.InvoiceNumber = number
	if in.DueDate != nil {
		p.DueDate = in.DueDate
	}
	p.InvoiceNotes = in.Notes
	p.InvoiceGeneratedAt = &now
	p.UpdatedAt = now

	if err := s.payments.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("generate invoice: %w", err)
	}

	s.timeline.Record(ctx, &domain.TimelineEvent{
		OwnerID:   p.OwnerID,
		ProjectID: p.ProjectID,
		ClientID:  p.ClientID,
		EventType: domain.EventInvoiceGenerated,
		Title:     "Invoice " + p.InvoiceNumber + " generated",
		Metadata:  map[string]any{"payment_id": p.ID, "invoice_number": p.InvoiceNumber, "amount": p.Amount},
	})
	return p, nil
}

// CheckOverduePayments marks the project's past-due pending payments overdue.
func (s *PaymentService) CheckOverduePayments(ctx context.Context, ownerID, projectID string) (int, error) {
	if _, err := s.projects.FindByID(ctx, ownerID, projectID); err != nil {
		return 0, err
	}
	return s.markOverdue(ctx, ports.PaymentFilter{OwnerID: ownerID, ProjectID: projectID})
}

// SweepOverdue marks past-due pending payments of every owner overdue.
func (s *PaymentService) SweepOverdue(ctx context.Context) (int, error) {
	n, err := s.markOverdue(ctx, ports.PaymentFilter{})
	if err != nil {
		return n, err
	}
	s.logger.Info().Int("marked", n).Msg("overdue sweep finished")
	return n, nil
}

func (s *PaymentService) markOverdue(ctx context.Context, filter ports.PaymentFilter) (int, error) {
	now := s.clock.Now()
	filter.Statuses = []domain.PaymentStatus{domain.PaymentPending}
	filter.DueBefore = now

	candidates, err := s.payments.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("list overdue candidates: %w", err)
	}

	marked := 0
	for _, p := range candidates {
		if !p.IsPastDue(now) {
			continue
		}
		p.Status = domain.PaymentOverdue
		p.UpdatedAt = now
		if err := s.payments.Update(ctx, p); err != nil {
			s.logger.Warn().Err(err).Str("payment_id", p.ID).Msg("failed to mark payment overdue")
			continue
		}
		marked++
		s.timeline.Record(ctx, &domain.TimelineEvent{
			OwnerID:   p.OwnerID,
			ProjectID: p.ProjectID,
			ClientID:  p.ClientID,
			EventType: domain.EventPaymentOverdue,
			Title:     "Payment overdue: " + p.MilestoneName,
			Metadata:  map[string]any{"payment_id": p.ID, "due_date": p.DueDate},
		})
	}
	metrics.PaymentsMarkedOverdueTotal.Add(float64(marked))
	return marked, nil
}

// generateInvoiceNumber returns a number in the format <PREFIX>-YYYYMM-XXXXXXXX.
func generateInvoiceNumber(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = "INV"
	}
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%s-%s-%08X", prefix, now.Format("200601"), now.UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("%s-%s-%08X", prefix, now.Format("200601"), b)
}
