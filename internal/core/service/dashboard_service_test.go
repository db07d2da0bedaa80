package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

func seedPayment(f *fixture, p *domain.Payment) {
	if p.ID == "" {
		p.ID = f.ids.New()
	}
	if p.OwnerID == "" {
		p.OwnerID = owner
	}
	_ = f.payments.Create(context.Background(), p)
}

func TestDashboardService_Revenue_PaidVsPending(t *testing.T) {
	f := newFixture()
	f.seedUser(owner)
	seedPayment(f, &domain.Payment{Amount: 100, Status: domain.PaymentPaid, CreatedAt: testNow})
	seedPayment(f, &domain.Payment{Amount: 50, Status: domain.PaymentPending, CreatedAt: testNow})

	for _, rng := range []ports.RevenueRange{"", ports.Range7Days, ports.Range30Days, ports.RangeAllTime, ports.RangeSinceCreated} {
		report, err := f.dashSvc.Revenue(context.Background(), owner, rng)
		if err != nil {
			t.Fatalf("Revenue(%q) returned error: %v", rng, err)
		}
		if report.Revenue != 100 || report.Outstanding != 50 {
			t.Fatalf("Revenue(%q): expected 100/50, got %v/%v", rng, report.Revenue, report.Outstanding)
		}
	}
}

func TestDashboardService_Revenue_Buckets(t *testing.T) {
	f := newFixture()
	f.seedUser(owner)
	paidAt := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	seedPayment(f, &domain.Payment{Amount: 80, AmountPaid: 80, Status: domain.PaymentPaid, PaidDate: &paidAt, CreatedAt: testNow})
	seedPayment(f, &domain.Payment{Amount: 100, AmountPaid: 30, Status: domain.PaymentPartial, CreatedAt: testNow})
	seedPayment(f, &domain.Payment{Amount: 40, Status: domain.PaymentCancelled, CreatedAt: testNow})
	lastYear := time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)
	seedPayment(f, &domain.Payment{Amount: 999, Status: domain.PaymentPaid, PaidDate: &lastYear, CreatedAt: lastYear})

	report, err := f.dashSvc.Revenue(context.Background(), owner, ports.RangeYear)
	if err != nil {
		t.Fatalf("Revenue returned error: %v", err)
	}
	if len(report.Buckets) != 12 {
		t.Fatalf("expected 12 month buckets, got %d", len(report.Buckets))
	}
	if report.Buckets[2].Revenue != 80 {
		t.Fatalf("expected March revenue 80, got %v", report.Buckets[2].Revenue)
	}
	if report.Buckets[5].Revenue != 30 || report.Buckets[5].Outstanding != 70 {
		t.Fatalf("unexpected June bucket: %+v", report.Buckets[5])
	}
	if report.Revenue != 110 || report.Outstanding != 70 {
		t.Fatalf("expected totals 110/70, got %v/%v", report.Revenue, report.Outstanding)
	}

	week, err := f.dashSvc.Revenue(context.Background(), owner, ports.Range7Days)
	if err != nil {
		t.Fatalf("Revenue returned error: %v", err)
	}
	if len(week.Buckets) != 7 || !week.Buckets[6].Start.Equal(time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected 7d buckets: %+v", week.Buckets)
	}

	all, err := f.dashSvc.Revenue(context.Background(), owner, ports.RangeAllTime)
	if err != nil {
		t.Fatalf("Revenue returned error: %v", err)
	}
	if len(all.Buckets) != 7 || all.Revenue != 1109 {
		t.Fatalf("expected 7 buckets from Dec 2024 and revenue 1109, got %d/%v", len(all.Buckets), all.Revenue)
	}

	if _, err := f.dashSvc.Revenue(context.Background(), owner, "decade"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDashboardService_AtRisk(t *testing.T) {
	f := newFixture()
	old := testNow.Add(-10 * 24 * time.Hour)
	mk := func(name string, status domain.ProjectStatus, created time.Time) *domain.Project {
		p := &domain.Project{ID: f.ids.New(), OwnerID: owner, Name: name, Status: status, CreatedAt: created}
		_ = f.projects.Create(context.Background(), p)
		return p
	}
	late := mk("late", domain.ProjectInProgress, old)
	veryLate := mk("very late", domain.ProjectCompleted, old)
	quiet := mk("quiet", domain.ProjectPlanning, old)
	busy := mk("busy", domain.ProjectInProgress, old)
	mk("finished", domain.ProjectCompleted, old)
	mk("fresh", domain.ProjectInProgress, testNow.Add(-24*time.Hour))

	due5 := testNow.Add(-5 * 24 * time.Hour)
	due20 := testNow.Add(-20 * 24 * time.Hour)
	seedPayment(f, &domain.Payment{ProjectID: late.ID, Amount: 100, Status: domain.PaymentOverdue, DueDate: &due5})
	seedPayment(f, &domain.Payment{ProjectID: veryLate.ID, Amount: 60, AmountPaid: 10, Status: domain.PaymentPending, DueDate: &due20})
	_ = f.events.Insert(context.Background(), &domain.TimelineEvent{OwnerID: owner, ProjectID: busy.ID, CreatedAt: testNow.Add(-2 * 24 * time.Hour)})

	risks, err := f.dashSvc.AtRisk(context.Background(), owner)
	if err != nil {
		t.Fatalf("AtRisk returned error: %v", err)
	}
	if len(risks) != 3 {
		t.Fatalf("expected 3 risks, got %+v", risks)
	}
	if risks[0].ProjectID != veryLate.ID || risks[0].Kind != ports.RiskPayment || risks[0].DaysOverdue != 20 || risks[0].Amount != 50 {
		t.Fatalf("unexpected first risk: %+v", risks[0])
	}
	if risks[1].ProjectID != late.ID || risks[1].Kind != ports.RiskPayment {
		t.Fatalf("unexpected second risk: %+v", risks[1])
	}
	if risks[2].ProjectID != quiet.ID || risks[2].Kind != ports.RiskGhosting || risks[2].DaysInactive != 10 {
		t.Fatalf("unexpected third risk: %+v", risks[2])
	}
}

func TestDashboardService_Summary(t *testing.T) {
	f := newFixture()
	f.seedUser(owner)
	c := f.seedClient(owner, "a@x.com")
	f.seedProject(owner, c.ID, domain.ProjectInProgress)
	f.seedProject(owner, c.ID, domain.ProjectPlanning)
	seedPayment(f, &domain.Payment{Amount: 100, Status: domain.PaymentPaid, CreatedAt: testNow})
	seedPayment(f, &domain.Payment{Amount: 50, Status: domain.PaymentPending, CreatedAt: testNow})
	_ = f.reminders.Create(context.Background(), &domain.Reminder{ID: "r1", OwnerID: owner, Title: "due", ReminderDate: testNow.Add(-time.Hour), Status: domain.ReminderPending})
	_ = f.reminders.Create(context.Background(), &domain.Reminder{ID: "r2", OwnerID: owner, Title: "soon", ReminderDate: testNow.Add(24 * time.Hour), Status: domain.ReminderPending})

	sum, err := f.dashSvc.Summary(context.Background(), owner)
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if sum.ActiveClients != 1 || sum.ActiveProjects != 1 {
		t.Fatalf("unexpected counts: %+v", sum)
	}
	if len(sum.DueReminders) != 1 || len(sum.UpcomingReminders) != 1 {
		t.Fatalf("unexpected reminders: due=%d upcoming=%d", len(sum.DueReminders), len(sum.UpcomingReminders))
	}
	if sum.RevenueThisMonth != 100 || sum.Outstanding != 50 {
		t.Fatalf("unexpected money: %v/%v", sum.RevenueThisMonth, sum.Outstanding)
	}
}
