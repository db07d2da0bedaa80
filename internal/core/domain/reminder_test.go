package domain

import (
	"testing"
	"time"
)

func TestReminder_Visibility(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	cases := []struct {
		name    string
		r       Reminder
		visible bool
	}{
		{"pending", Reminder{Status: ReminderPending}, true},
		{"sent", Reminder{Status: ReminderDone, IsSent: true}, false},
		{"snoozed into the future", Reminder{Status: ReminderSnoozed, SnoozedUntil: &future}, false},
		{"snooze elapsed", Reminder{Status: ReminderSnoozed, SnoozedUntil: &past}, true},
		{"snooze ends now", Reminder{Status: ReminderSnoozed, SnoozedUntil: &now}, true},
		{"snoozed without date", Reminder{Status: ReminderSnoozed}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.r.IsVisible(now); got != tc.visible {
				t.Fatalf("IsVisible = %v, want %v", got, tc.visible)
			}
		})
	}
}

func TestReminder_SnoozeAndMarkDone(t *testing.T) {
	start := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	r := Reminder{ReminderDate: start, Status: ReminderPending}

	r.Snooze(3)
	want := start.Add(72 * time.Hour)
	if !r.ReminderDate.Equal(want) || r.Status != ReminderSnoozed || !r.SnoozedUntil.Equal(want) {
		t.Fatalf("unexpected snoozed reminder: %+v", r)
	}
	if r.IsDue(start.Add(71 * time.Hour)) {
		t.Fatalf("expected reminder not to be due before the snooze elapses")
	}
	if !r.IsDue(want) {
		t.Fatalf("expected reminder to be due once the snooze elapses")
	}

	done := want.Add(time.Minute)
	r.MarkDone(done)
	if !r.IsSent || r.Status != ReminderDone || !r.SentAt.Equal(done) {
		t.Fatalf("unexpected done reminder: %+v", r)
	}
	if r.IsVisible(done) {
		t.Fatalf("expected a done reminder to be hidden")
	}
}
