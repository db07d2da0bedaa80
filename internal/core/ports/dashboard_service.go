package ports

import (
	"context"
	"time"

	"github.com/freelanceos/backend/internal/core/domain"
)

// RevenueRange selects the reporting window of the revenue report.
type RevenueRange string

const (
	Range7Days        RevenueRange = "7d"
	Range30Days       RevenueRange = "30d"
	RangeSinceCreated RevenueRange = "since_creation"
	RangeAllTime      RevenueRange = "all_time"
	RangeYear         RevenueRange = "year"
)

// RevenueBucket is one period of the revenue chart.
type RevenueBucket struct {
	Label       string
	Start       time.Time
	Revenue     float64
	Outstanding float64
}

type RevenueReport struct {
	Range       RevenueRange
	From        time.Time
	To          time.Time
	Revenue     float64
	Outstanding float64
	Buckets     []RevenueBucket
}

type RiskKind string

const (
	RiskPayment  RiskKind = "payment"
	RiskGhosting RiskKind = "ghosting"
)

type AtRiskProject struct {
	ProjectID    string
	ProjectName  string
	ClientID     string
	Kind         RiskKind
	DaysOverdue  int // payment risk
	DaysInactive int // ghosting risk
	LastActivity time.Time
	Amount       float64 // outstanding on overdue payments
}

type DashboardSummary struct {
	ActiveClients     int
	ActiveProjects    int
	DueReminders      []*domain.Reminder
	UpcomingReminders []*domain.Reminder
	RevenueThisMonth  float64
	Outstanding       float64
	AtRisk            []AtRiskProject
}

type DashboardService interface {
	Revenue(ctx context.Context, ownerID string, rng RevenueRange) (*RevenueReport, error)
	AtRisk(ctx context.Context, ownerID string) ([]AtRiskProject, error)
	Summary(ctx context.Context, ownerID string) (*DashboardSummary, error)
}
