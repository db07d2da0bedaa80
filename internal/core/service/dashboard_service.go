package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

// ghostingThreshold is how long an open project may go without activity
// before it is flagged.
const ghostingThreshold = 7 * 24 * time.Hour

type DashboardService struct {
	users     ports.UserRepository
	clients   ports.ClientRepository
	projects  ports.ProjectRepository
	payments  ports.PaymentRepository
	events    ports.TimelineRepository
	reminders ports.ReminderService
	clock     Clock
	logger    zerolog.Logger
}

type DashboardServiceDeps struct {
	Users     ports.UserRepository
	Clients   ports.ClientRepository
	Projects  ports.ProjectRepository
	Payments  ports.PaymentRepository
	Events    ports.TimelineRepository
	Reminders ports.ReminderService
	Clock     Clock
	Logger    zerolog.Logger
}

func NewDashboardService(d DashboardServiceDeps) *DashboardService {
	return &DashboardService{
		users:     d.Users,
		clients:   d.Clients,
		projects:  d.Projects,
		payments:  d.Payments,
		events:    d.Events,
		reminders: d.Reminders,
		clock:     d.Clock,
		logger:    d.Logger,
	}
}

// Revenue aggregates collected and outstanding amounts over rng. Each payment
// is dated by its paid date, falling back to its creation date.
func (s *DashboardService) Revenue(ctx context.Context, ownerID string, rng ports.RevenueRange) (*ports.RevenueReport, error) {
	if rng == "" {
		rng = ports.RangeYear
	}

	payments, err := s.payments.List(ctx, ports.PaymentFilter{OwnerID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("revenue: %w", err)
	}

	now := s.clock.Now()
	var buckets []ports.RevenueBucket
	switch rng {
	case ports.Range7Days:
		buckets = dayBuckets(now, 7)
	case ports.Range30Days:
		buckets = dayBuckets(now, 30)
	case ports.RangeYear:
		buckets = monthBuckets(time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), 12)
	case ports.RangeSinceCreated:
		user, err := s.users.FindByID(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		buckets = monthBucketsThrough(user.CreatedAt, now)
	case ports.RangeAllTime:
		first := now
		for _, p := range payments {
			if d := p.EffectiveDate(); d.Before(first) {
				first = d
			}
		}
		buckets = monthBucketsThrough(first, now)
	default:
		return nil, domain.Invalidf("unknown range %q", rng)
	}

	report := &ports.RevenueReport{Range: rng, From: buckets[0].Start, Buckets: buckets}
	report.To = bucketEnd(rng, buckets[len(buckets)-1].Start)

	for _, p := range payments {
		d := p.EffectiveDate()
		if d.Before(report.From) || !d.Before(report.To) {
			continue
		}
		i := sort.Search(len(buckets), func(i int) bool { return buckets[i].Start.After(d) }) - 1
		if i < 0 {
			continue
		}
		collected, open := p.Collected(), p.Outstanding()
		buckets[i].Revenue += collected
		buckets[i].Outstanding += open
		report.Revenue += collected
		report.Outstanding += open
	}
	return report, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func dayBuckets(now time.Time, days int) []ports.RevenueBucket {
	first := startOfDay(now).AddDate(0, 0, -(days - 1))
	out := make([]ports.RevenueBucket, days)
	for i := range out {
		start := first.AddDate(0, 0, i)
		out[i] = ports.RevenueBucket{Label: start.Format("Jan 2"), Start: start}
	}
	return out
}

func monthBuckets(first time.Time, months int) []ports.RevenueBucket {
	first = startOfMonth(first)
	out := make([]ports.RevenueBucket, months)
	for i := range out {
		start := first.AddDate(0, i, 0)
		out[i] = ports.RevenueBucket{Label: start.Format("Jan 2006"), Start: start}
	}
	return out
}

func monthBucketsThrough(from, now time.Time) []ports.RevenueBucket {
	a, b := startOfMonth(from), startOfMonth(now)
	months := (b.Year()-a.Year())*12 + int(b.Month()-a.Month()) + 1
	if months < 1 {
		months = 1
	}
	return monthBuckets(a, months)
}

func bucketEnd(rng ports.RevenueRange, lastStart time.Time) time.Time {
	if rng == ports.Range7Days || rng == ports.Range30Days {
		return lastStart.AddDate(0, 0, 1)
	}
	return lastStart.AddDate(0, 1, 0)
}

// AtRisk lists projects with overdue money first, ranked by days overdue,
// then open projects that have gone quiet. A project appears at most once.
func (s *DashboardService) AtRisk(ctx context.Context, ownerID string) ([]ports.AtRiskProject, error) {
	now := s.clock.Now()

	projects, err := s.projects.List(ctx, ports.ProjectFilter{OwnerID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("at risk: %w", err)
	}
	byID := make(map[string]*domain.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}

	late, err := s.payments.List(ctx, ports.PaymentFilter{
		OwnerID:  ownerID,
		Statuses: []domain.PaymentStatus{domain.PaymentOverdue, domain.PaymentPending},
	})
	if err != nil {
		return nil, fmt.Errorf("at risk: %w", err)
	}

	paymentRisk := make(map[string]*ports.AtRiskProject)
	for _, pay := range late {
		if pay.Status != domain.PaymentOverdue && !pay.IsPastDue(now) {
			continue
		}
		project, ok := byID[pay.ProjectID]
		if !ok {
			continue
		}
		r, ok := paymentRisk[project.ID]
		if !ok {
			r = &ports.AtRiskProject{
				ProjectID:   project.ID,
				ProjectName: project.Name,
				ClientID:    project.ClientID,
				Kind:        ports.RiskPayment,
			}
			paymentRisk[project.ID] = r
		}
		if d := pay.DaysOverdue(now); d > r.DaysOverdue {
			r.DaysOverdue = d
		}
		r.Amount += pay.Outstanding()
	}

	out := make([]ports.AtRiskProject, 0, len(paymentRisk))
	for _, r := range paymentRisk {
		out = append(out, *r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DaysOverdue != out[j].DaysOverdue {
			return out[i].DaysOverdue > out[j].DaysOverdue
		}
		return out[i].ProjectName < out[j].ProjectName
	})

	var openIDs []string
	for _, p := range projects {
		if p.Status.IsOpen() {
			if _, flagged := paymentRisk[p.ID]; !flagged {
				openIDs = append(openIDs, p.ID)
			}
		}
	}
	if len(openIDs) == 0 {
		return out, nil
	}

	last, err := s.events.LastActivity(ctx, ownerID, openIDs)
	if err != nil {
		return nil, fmt.Errorf("at risk: %w", err)
	}

	var ghosting []ports.AtRiskProject
	for _, id := range openIDs {
		p := byID[id]
		seen, ok := last[id]
		if !ok {
			seen = p.CreatedAt
		}
		if now.Sub(seen) <= ghostingThreshold {
			continue
		}
		ghosting = append(ghosting, ports.AtRiskProject{
			ProjectID:    p.ID,
			ProjectName:  p.Name,
			ClientID:     p.ClientID,
			Kind:         ports.RiskGhosting,
			DaysInactive: int(now.Sub(seen).Hours() / 24),
			LastActivity: seen,
		})
	}
	sort.SliceStable(ghosting, func(i, j int) bool { return ghosting[i].DaysInactive > ghosting[j].DaysInactive })

	return append(out, ghosting...), nil
}

func (s *DashboardService) Summary(ctx context.Context, ownerID string) (*ports.DashboardSummary, error) {
	now := s.clock.Now()
	sum := &ports.DashboardSummary{}

	clients, err := s.clients.List(ctx, ports.ClientFilter{OwnerID: ownerID, Status: domain.ClientActive})
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	sum.ActiveClients = len(clients)

	active, err := s.projects.List(ctx, ports.ProjectFilter{
		OwnerID:  ownerID,
		Statuses: domain.ProjectStatusesForUI(domain.UIActive),
	})
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	sum.ActiveProjects = len(active)

	if sum.DueReminders, err = s.reminders.Due(ctx, ownerID); err != nil {
		return nil, err
	}
	if sum.UpcomingReminders, err = s.reminders.Upcoming(ctx, ownerID, defaultUpcomingDays); err != nil {
		return nil, err
	}

	payments, err := s.payments.List(ctx, ports.PaymentFilter{OwnerID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	month := startOfMonth(now)
	for _, p := range payments {
		if !p.EffectiveDate().Before(month) {
			sum.RevenueThisMonth += p.Collected()
		}
		sum.Outstanding += p.Outstanding()
	}

	if sum.AtRisk, err = s.AtRisk(ctx, ownerID); err != nil {
		return nil, err
	}
	return sum, nil
}
