package domain

import (
	"math"
	"time"
)

// PaymentStatus represents the lifecycle state of a payment milestone.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentPartial   PaymentStatus = "partial"
	PaymentOverdue   PaymentStatus = "overdue"
	PaymentCancelled PaymentStatus = "cancelled"
)

const DefaultCurrency = "USD"

var paymentLabels = map[PaymentStatus]struct{ label, color string }{
	PaymentPending:   {"Pending", "amber"},
	PaymentPaid:      {"Paid", "green"},
	PaymentPartial:   {"Partially paid", "blue"},
	PaymentOverdue:   {"Overdue", "red"},
	PaymentCancelled: {"Cancelled", "gray"},
}

func (s PaymentStatus) IsValid() bool {
	_, ok := paymentLabels[s]
	return ok
}

// Label is the human-readable status name.
func (s PaymentStatus) Label() string {
	if l, ok := paymentLabels[s]; ok {
		return l.label
	}
	return string(s)
}

// Color is the badge color used when the status is displayed.
func (s PaymentStatus) Color() string {
	if l, ok := paymentLabels[s]; ok {
		return l.color
	}
	return "gray"
}

// LineItem is a single invoice row.
type LineItem struct {
	Description string  `json:"description" bson:"description"`
	Quantity    float64 `json:"quantity" bson:"quantity"`
	UnitPrice   float64 `json:"unit_price" bson:"unit_price"`
}

func (l LineItem) Total() float64 {
	return roundCents(l.Quantity * l.UnitPrice)
}

// LineItemsTotal sums the totals of items.
func LineItemsTotal(items []LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Total()
	}
	return roundCents(sum)
}

// Payment is a milestone/invoice unit. An invoice is not a separate record:
// generating one fills the invoice fields of the payment in place.
type Payment struct {
	ID                 string        `json:"id" bson:"_id"`
	OwnerID            string        `json:"-" bson:"owner_id"`
	ProjectID          string        `json:"project_id" bson:"project_id"`
	ClientID           string        `json:"client_id" bson:"client_id"`
	MilestoneName      string        `json:"milestone_name" bson:"milestone_name"`
	Amount             float64       `json:"amount" bson:"amount"`
	AmountPaid         float64       `json:"amount_paid" bson:"amount_paid"`
	Currency           string        `json:"currency" bson:"currency"`
	Status             PaymentStatus `json:"status" bson:"status"`
	PaymentMethod      string        `json:"payment_method,omitempty" bson:"payment_method,omitempty"`
	DueDate            *time.Time    `json:"due_date,omitempty" bson:"due_date,omitempty"`
	PaidDate           *time.Time    `json:"paid_date,omitempty" bson:"paid_date,omitempty"`
	InvoiceNumber      string        `json:"invoice_number,omitempty" bson:"invoice_number,omitempty"`
	LineItems          []LineItem    `json:"line_items,omitempty" bson:"line_items,omitempty"`
	InvoiceNotes       string        `json:"invoice_notes,omitempty" bson:"invoice_notes,omitempty"`
	InvoiceGeneratedAt *time.Time    `json:"invoice_generated_at,omitempty" bson:"invoice_generated_at,omitempty"`
	InvoiceSentAt      *time.Time    `json:"invoice_sent_at,omitempty" bson:"invoice_sent_at,omitempty"`
	InvoicePDFKey      string        `json:"-" bson:"invoice_pdf_key,omitempty"`
	IdempotencyKey     string        `json:"-" bson:"idempotency_key,omitempty"`
	CreatedAt          time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" bson:"updated_at"`
}

// Outstanding is the amount still expected for an open payment.
// Paid and cancelled payments have nothing outstanding.
func (p *Payment) Outstanding() float64 {
	switch p.Status {
	case PaymentPending, PaymentPartial, PaymentOverdue:
		return math.Max(roundCents(p.Amount-p.AmountPaid), 0)
	}
	return 0
}

// Collected is the amount counted as revenue.
func (p *Payment) Collected() float64 {
	switch p.Status {
	case PaymentPaid:
		return p.Amount
	case PaymentPartial:
		return p.AmountPaid
	}
	return 0
}

// IsPastDue reports whether a pending payment's due date has passed at now.
func (p *Payment) IsPastDue(now time.Time) bool {
	return p.Status == PaymentPending && p.DueDate != nil && p.DueDate.Before(now)
}

// DaysOverdue is the number of whole days since the due date, or 0.
func (p *Payment) DaysOverdue(now time.Time) int {
	if p.DueDate == nil || !p.DueDate.Before(now) {
		return 0
	}
	return int(now.Sub(*p.DueDate).Hours() / 24)
}

// EffectiveDate is the date used for revenue bucketing.
func (p *Payment) EffectiveDate() time.Time {
	if p.PaidDate != nil {
		return *p.PaidDate
	}
	return p.CreatedAt
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
