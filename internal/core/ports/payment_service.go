package ports

import (
	"context"
	"time"

	"github.com/freelanceos/backend/internal/core/domain"
)

type CreatePaymentInput struct {
	OwnerID        string
	ProjectID      string
	MilestoneName  string
	Amount         float64
	Currency       string // optional
	DueDate        *time.Time
	IdempotencyKey string
}

type UpdatePaymentInput struct {
	OwnerID       string
	ID            string
	MilestoneName *string
	Amount        *float64
	Currency      *string
	DueDate       *time.Time
}

type UpdatePaymentStatusInput struct {
	OwnerID       string
	ID            string
	Status        domain.PaymentStatus
	AmountPaid    *float64
	PaidDate      *time.Time
	PaymentMethod string
}

type GenerateInvoiceInput struct {
	OwnerID       string
	PaymentID     string
	InvoiceNumber string // generated when empty
	LineItems     []domain.LineItem
	DueDate       *time.Time
	Notes         string
}

type PaymentService interface {
	Create(ctx context.Context, in CreatePaymentInput) (*domain.Payment, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Payment, error)
	List(ctx context.Context, filter PaymentFilter) ([]*domain.Payment, error)
	Update(ctx context.Context, in UpdatePaymentInput) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, in UpdatePaymentStatusInput) (*domain.Payment, error)
	Delete(ctx context.Context, ownerID, id string) error
	GenerateInvoice(ctx context.Context, in GenerateInvoiceInput) (*domain.Payment, error)
	// CheckOverduePayments flips the project's past-due pending payments to
	// overdue and returns how many changed.
	CheckOverduePayments(ctx context.Context, ownerID, projectID string) (int, error)
	// SweepOverdue does the same across every owner.
	SweepOverdue(ctx context.Context) (int, error)
}

// InvoiceFile is a rendered invoice document.
type InvoiceFile struct {
	Filename string
	Content  []byte
}

type SendInvoiceInput struct {
	OwnerID   string
	PaymentID string
	Email     string // ad-hoc recipient, optional
	SaveEmail bool   // persist Email on the client record
	Message   string
}

type InvoiceService interface {
	RenderPDF(ctx context.Context, ownerID, paymentID string) (*InvoiceFile, error)
	Send(ctx context.Context, in SendInvoiceInput) (*domain.Payment, error)
}
