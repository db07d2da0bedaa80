package service

import (
	"context"
	"errors"
	"testing"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

func newInvoiceFixture(t *testing.T, clientEmail string) (*fixture, *domain.Client, *domain.Payment) {
	t.Helper()
	f := newFixture()
	f.seedUser(owner)
	c := f.seedClient(owner, clientEmail)
	project := f.seedProject(owner, c.ID, domain.ProjectInProgress)
	p := createPendingPayment(t, f, project.ID, 250)
	inv, err := f.paySvc.GenerateInvoice(context.Background(), ports.GenerateInvoiceInput{
		OwnerID: owner, PaymentID: p.ID, InvoiceNumber: "INV 2025/001",
	})
	if err != nil {
		t.Fatalf("GenerateInvoice returned error: %v", err)
	}
	return f, c, inv
}

func TestInvoiceService_RenderPDF(t *testing.T) {
	f, c, p := newInvoiceFixture(t, "client@x.com")

	file, err := f.invSvc.RenderPDF(context.Background(), owner, p.ID)
	if err != nil {
		t.Fatalf("RenderPDF returned error: %v", err)
	}
	if file.Filename != "INV_2025_001.pdf" {
		t.Fatalf("unexpected filename %q", file.Filename)
	}
	doc := f.renderer.last
	if doc.ClientName != c.Name || doc.Total != 250 || doc.Branding.BusinessName != "Default Studio" {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if len(f.archive.keys) != 1 {
		t.Fatalf("expected the pdf to be archived")
	}
	stored, _ := f.payments.FindByID(context.Background(), owner, p.ID)
	if stored.InvoicePDFKey != f.archive.keys[0] {
		t.Fatalf("expected archive key to be stored, got %q", stored.InvoicePDFKey)
	}
}

func TestInvoiceService_RenderPDF_ArchiveFailureIsNotFatal(t *testing.T) {
	f, _, p := newInvoiceFixture(t, "client@x.com")
	f.archive.err = errors.New("bucket unavailable")

	if _, err := f.invSvc.RenderPDF(context.Background(), owner, p.ID); err != nil {
		t.Fatalf("expected archive failure to be swallowed, got %v", err)
	}
}

func TestInvoiceService_Send(t *testing.T) {
	f, _, p := newInvoiceFixture(t, "client@x.com")

	sent, err := f.invSvc.Send(context.Background(), ports.SendInvoiceInput{OwnerID: owner, PaymentID: p.ID})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if sent.InvoiceSentAt == nil || !sent.InvoiceSentAt.Equal(testNow) {
		t.Fatalf("expected invoice_sent_at = now, got %v", sent.InvoiceSentAt)
	}
	if len(f.emails.sent) != 1 {
		t.Fatalf("expected one queued email, got %d", len(f.emails.sent))
	}
	msg := f.emails.sent[0]
	if msg.To != "client@x.com" || len(msg.Attachments) != 1 || msg.Attachments[0].ContentType != "application/pdf" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if got := f.events.byType(domain.EventInvoiceSent); len(got) != 1 {
		t.Fatalf("expected one invoice_sent event, got %d", len(got))
	}
}

func TestInvoiceService_Send_RecipientResolution(t *testing.T) {
	f, c, p := newInvoiceFixture(t, "")

	if _, err := f.invSvc.Send(context.Background(), ports.SendInvoiceInput{OwnerID: owner, PaymentID: p.ID}); !errors.Is(err, domain.ErrClientEmailMissing) {
		t.Fatalf("expected ErrClientEmailMissing, got %v", err)
	}
	if len(f.emails.sent) != 0 {
		t.Fatalf("expected nothing to be queued")
	}

	if _, err := f.invSvc.Send(context.Background(), ports.SendInvoiceInput{OwnerID: owner, PaymentID: p.ID, Email: "not-an-email"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if _, err := f.invSvc.Send(context.Background(), ports.SendInvoiceInput{OwnerID: owner, PaymentID: p.ID, Email: "billing@x.com"}); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	stored, _ := f.clients.FindByID(context.Background(), owner, c.ID)
	if stored.Email != "" {
		t.Fatalf("expected client email to stay empty without save_email, got %q", stored.Email)
	}

	if _, err := f.invSvc.Send(context.Background(), ports.SendInvoiceInput{OwnerID: owner, PaymentID: p.ID, Email: "billing@x.com", SaveEmail: true}); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	stored, _ = f.clients.FindByID(context.Background(), owner, c.ID)
	if stored.Email != "billing@x.com" {
		t.Fatalf("expected client email to be saved, got %q", stored.Email)
	}
}
