package ports

import (
	"context"
	"time"

	"github.com/freelanceos/backend/internal/core/domain"
)

// EmailAttachment is a file attached to an outbound email.
type EmailAttachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// EmailMessage is a single outbound email. Kind is used for metrics only
// ("invoice", "follow_up", ...).
type EmailMessage struct {
	Kind        string
	To          string
	Subject     string
	HTML        string
	Attachments []EmailAttachment
}

// EmailQueue accepts messages for asynchronous delivery.
type EmailQueue interface {
	Enqueue(msg EmailMessage)
}

// InvoiceDocument is everything printed on an invoice.
type InvoiceDocument struct {
	Branding      domain.Settings
	InvoiceNumber string
	IssueDate     time.Time
	DueDate       *time.Time
	ClientName    string
	ClientCompany string
	ClientEmail   string
	ProjectName   string
	Milestone     string
	LineItems     []domain.LineItem
	Currency      string
	Total         float64
	AmountPaid    float64
	Status        domain.PaymentStatus
	Notes         string
}

type InvoiceRenderer interface {
	Render(doc InvoiceDocument) ([]byte, error)
}

// InvoiceArchive stores rendered invoices and returns the storage key.
type InvoiceArchive interface {
	Put(ctx context.Context, ownerID, filename string, pdf []byte) (string, error)
}

// SecretSealer encrypts small secrets for storage at rest.
type SecretSealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

// ReplayGuard records single-use keys. Claim returns true the first time a
// key is seen within ttl.
type ReplayGuard interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
