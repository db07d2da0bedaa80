package domain

import (
	"testing"
	"time"
)

func TestPayment_OutstandingAndCollected(t *testing.T) {
	cases := []struct {
		p           Payment
		outstanding float64
		collected   float64
	}{
		{Payment{Status: PaymentPending, Amount: 50}, 50, 0},
		{Payment{Status: PaymentPaid, Amount: 100, AmountPaid: 100}, 0, 100},
		{Payment{Status: PaymentPartial, Amount: 100, AmountPaid: 30.1}, 69.9, 30.1},
		{Payment{Status: PaymentOverdue, Amount: 80}, 80, 0},
		{Payment{Status: PaymentCancelled, Amount: 80}, 0, 0},
	}
	for _, tc := range cases {
		if got := tc.p.Outstanding(); got != tc.outstanding {
			t.Fatalf("%s: Outstanding = %v, want %v", tc.p.Status, got, tc.outstanding)
		}
		if got := tc.p.Collected(); got != tc.collected {
			t.Fatalf("%s: Collected = %v, want %v", tc.p.Status, got, tc.collected)
		}
	}
}

func TestPayment_PastDue(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	due := now.Add(-49 * time.Hour)
	p := Payment{Status: PaymentPending, DueDate: &due}

	if !p.IsPastDue(now) {
		t.Fatalf("expected payment to be past due")
	}
	if d := p.DaysOverdue(now); d != 2 {
		t.Fatalf("DaysOverdue = %d, want 2", d)
	}
	p.Status = PaymentPaid
	if p.IsPastDue(now) {
		t.Fatalf("a paid payment is never past due")
	}
}

func TestPaymentStatus_Display(t *testing.T) {
	if PaymentPartial.Label() != "Partially paid" || PaymentOverdue.Color() != "red" {
		t.Fatalf("unexpected display helpers")
	}
	if LineItemsTotal([]LineItem{{Quantity: 2, UnitPrice: 10.25}, {Quantity: 1, UnitPrice: 5}}) != 25.5 {
		t.Fatalf("unexpected line item total")
	}
}
