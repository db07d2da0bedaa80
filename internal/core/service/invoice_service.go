package service

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// InvoiceService renders invoices and delivers them by email.
type InvoiceService struct {
	payments ports.PaymentRepository
	projects ports.ProjectRepository
	clients  ports.ClientRepository
	settings ports.SettingsService
	renderer ports.InvoiceRenderer
	archive  ports.InvoiceArchive // nil when no bucket is configured
	emails   ports.EmailQueue
	timeline ports.TimelineService
	clock    Clock
	logger   zerolog.Logger
}

type InvoiceServiceDeps struct {
	Payments ports.PaymentRepository
	Projects ports.ProjectRepository
	Clients  ports.ClientRepository
	Settings ports.SettingsService
	Renderer ports.InvoiceRenderer
	Archive  ports.InvoiceArchive
	Emails   ports.EmailQueue
	Timeline ports.TimelineService
	Clock    Clock
	Logger   zerolog.Logger
}

func NewInvoiceService(d InvoiceServiceDeps) *InvoiceService {
	return &InvoiceService{
		payments: d.Payments,
		projects: d.Projects,
		clients:  d.Clients,
		settings: d.Settings,
		renderer: d.Renderer,
		archive:  d.Archive,
		emails:   d.Emails,
		timeline: d.Timeline,
		clock:    d.Clock,
		logger:   d.Logger,
	}
}

func (s *InvoiceService) RenderPDF(ctx context.Context, ownerID, paymentID string) (*ports.InvoiceFile, error) {
	p, err := s.payments.FindByID(ctx, ownerID, paymentID)
	if err != nil {
		return nil, err
	}
	file, _, err := s.render(ctx, p, nil)
	return file, err
}

// Send emails the invoice PDF to the client. The payment keeps its invoice
// fields; only invoice_sent_at changes.
func (s *InvoiceService) Send(ctx context.Context, in ports.SendInvoiceInput) (*domain.Payment, error) {
	p, err := s.payments.FindByID(ctx, in.OwnerID, in.PaymentID)
	if err != nil {
		return nil, err
	}

	client, to, err := resolveRecipient(ctx, s.clients, s.clock, in.OwnerID, p.ClientID, in.Email, in.SaveEmail)
	if err != nil {
		return nil, err
	}

	file, settings, err := s.render(ctx, p, client)
	if err != nil {
		return nil, err
	}

	number := invoiceLabel(p)
	sender := settings.BusinessName
	if sender == "" {
		sender = "FreelanceOS"
	}
	s.emails.Enqueue(ports.EmailMessage{
		Kind:    "invoice",
		To:      to,
		Subject: fmt.Sprintf("Invoice %s from %s", number, sender),
		HTML:    invoiceEmailHTML(p, number, sender, in.Message),
		Attachments: []ports.EmailAttachment{{
			Filename:    file.Filename,
			ContentType: "application/pdf",
			Content:     file.Content,
		}},
	})

	now := s.clock.Now()
	p.InvoiceSentAt = &now
	p.UpdatedAt = now
	if err := s.payments.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("mark invoice sent: %w", err)
	}

	s.timeline.Record(ctx, &domain.TimelineEvent{
		OwnerID:   p.OwnerID,
		ProjectID: p.ProjectID,
		ClientID:  p.ClientID,
		EventType: domain.EventInvoiceSent,
		Title:     "Invoice " + number + " sent to " + to,
		Metadata:  map[string]any{"payment_id": p.ID, "invoice_number": number, "to": to},
	})
	s.logger.Info().Str("payment_id", p.ID).Str("invoice_number", number).Msg("invoice queued for delivery")
	return p, nil
}

func (s *InvoiceService) render(ctx context.Context, p *domain.Payment, client *domain.Client) (*ports.InvoiceFile, *domain.Settings, error) {
	project, err := s.projects.FindByID(ctx, p.OwnerID, p.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("render invoice: %w", err)
	}
	if client == nil && p.ClientID != "" {
		if c, err := s.clients.FindByID(ctx, p.OwnerID, p.ClientID); err == nil {
			client = c
		}
	}
	settings, err := s.settings.Get(ctx, p.OwnerID)
	if err != nil {
		return nil, nil, fmt.Errorf("render invoice: %w", err)
	}

	items := p.LineItems
	if len(items) == 0 {
		items = []domain.LineItem{{Description: p.MilestoneName, Quantity: 1, UnitPrice: p.Amount}}
	}
	issued := p.CreatedAt
	if p.InvoiceGeneratedAt != nil {
		issued = *p.InvoiceGeneratedAt
	}
	doc := ports.InvoiceDocument{
		Branding:      *settings,
		InvoiceNumber: invoiceLabel(p),
		IssueDate:     issued,
		DueDate:       p.DueDate,
		ProjectName:   project.Name,
		Milestone:     p.MilestoneName,
		LineItems:     items,
		Currency:      p.Currency,
		Total:         domain.LineItemsTotal(items),
		AmountPaid:    p.AmountPaid,
		Status:        p.Status,
		Notes:         p.InvoiceNotes,
	}
	if client != nil {
		doc.ClientName = client.Name
		doc.ClientCompany = client.Company
		doc.ClientEmail = client.Email
	}

	content, err := s.renderer.Render(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("render invoice: %w", err)
	}
	file := &ports.InvoiceFile{Filename: invoiceFilename(p), Content: content}
	s.archivePDF(ctx, p, file)
	return file, settings, nil
}

// archivePDF uploads the rendered file. Failures are logged only.
func (s *InvoiceService) archivePDF(ctx context.Context, p *domain.Payment, file *ports.InvoiceFile) {
	if s.archive == nil {
		return
	}
	key, err := s.archive.Put(ctx, p.OwnerID, file.Filename, file.Content)
	if err != nil {
		s.logger.Warn().Err(err).Str("payment_id", p.ID).Msg("failed to archive invoice pdf")
		return
	}
	p.InvoicePDFKey = key
	if err := s.payments.Update(ctx, p); err != nil {
		s.logger.Warn().Err(err).Str("payment_id", p.ID).Msg("failed to store invoice pdf key")
	}
}

func invoiceLabel(p *domain.Payment) string {
	if p.InvoiceNumber != "" {
		return p.InvoiceNumber
	}
	id := p.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return "DRAFT-" + strings.ToUpper(id)
}

func invoiceFilename(p *domain.Payment) string {
	name := unsafeFilenameChars.ReplaceAllString(invoiceLabel(p), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "invoice"
	}
	return name + ".pdf"
}

func invoiceEmailHTML(p *domain.Payment, number, sender, message string) string {
	var b strings.Builder
	b.WriteString("<p>Hello,</p>")
	if message != "" {
		for _, line := range strings.Split(message, "\n") {
			b.WriteString("<p>" + html.EscapeString(line) + "</p>")
		}
	} else {
		fmt.Fprintf(&b, "<p>Please find attached invoice <strong>%s</strong> for %s.</p>",
			html.EscapeString(number), html.EscapeString(p.MilestoneName))
	}
	fmt.Fprintf(&b, "<p>Amount due: <strong>%s %.2f</strong></p>", html.EscapeString(p.Currency), p.Outstanding())
	if p.DueDate != nil {
		fmt.Fprintf(&b, "<p>Due date: %s</p>", p.DueDate.Format("January 2, 2006"))
	}
	fmt.Fprintf(&b, "<p>Thank you,<br>%s</p>", html.EscapeString(sender))
	return b.String()
}
