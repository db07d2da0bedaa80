package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	netmail "net/mail"
	"net/smtp"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/freelanceos/backend/internal/core/ports"
)

func TestNewSender(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"resend default", Config{From: "me@example.com", ResendAPIKey: "re_123"}, false},
		{"resend without key", Config{From: "me@example.com"}, true},
		{"smtp", Config{Provider: "smtp", From: "me@example.com", SMTPHost: "localhost"}, false},
		{"smtp without host", Config{Provider: "smtp", From: "me@example.com"}, true},
		{"missing from", Config{ResendAPIKey: "re_123"}, true},
		{"unknown provider", Config{Provider: "pigeon", From: "me@example.com"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSender(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSender() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResendSender_Send(t *testing.T) {
	var got resendRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"email_1"}`))
	}))
	defer srv.Close()

	s := NewResendSender(Config{From: "studio@example.com", ResendAPIKey: "re_key", ResendEndpoint: srv.URL}, srv.Client())
	err := s.Send(context.Background(), ports.EmailMessage{
		Kind:    "invoice",
		To:      "client@example.com",
		Subject: "Invoice INV-0001",
		HTML:    "<p>Hello</p>",
		Attachments: []ports.EmailAttachment{
			{Filename: "INV-0001.pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.3")},
		},
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if auth != "Bearer re_key" {
		t.Errorf("Authorization = %q", auth)
	}
	if got.From != "studio@example.com" || len(got.To) != 1 || got.To[0] != "client@example.com" {
		t.Errorf("unexpected envelope: %+v", got)
	}
	if len(got.Attachments) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(got.Attachments))
	}
	raw, _ := base64.StdEncoding.DecodeString(got.Attachments[0].Content)
	if string(raw) != "%PDF-1.3" {
		t.Errorf("attachment content = %q", raw)
	}
}

func TestResendSender_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from"}`))
	}))
	defer srv.Close()

	s := NewResendSender(Config{From: "x@example.com", ResendAPIKey: "k", ResendEndpoint: srv.URL}, srv.Client())
	err := s.Send(context.Background(), ports.EmailMessage{To: "c@example.com"})
	if err == nil || !strings.Contains(err.Error(), "422") {
		t.Fatalf("expected status 422 error, got %v", err)
	}
}

func TestSMTPSender_BuildsMultipart(t *testing.T) {
	var captured []byte
	var rcpt []string
	s := NewSMTPSender(Config{From: "studio@example.com", SMTPHost: "mail.example.com"})
	s.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		if addr != "mail.example.com:587" {
			t.Errorf("addr = %q", addr)
		}
		rcpt = to
		captured = msg
		return nil
	}

	err := s.Send(context.Background(), ports.EmailMessage{
		To:          "client@example.com",
		Subject:     "Factura",
		HTML:        "<p>Hi</p>",
		Attachments: []ports.EmailAttachment{{Filename: "inv.pdf", ContentType: "application/pdf", Content: []byte("pdf")}},
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(rcpt) != 1 || rcpt[0] != "client@example.com" {
		t.Errorf("recipients = %v", rcpt)
	}
	body := string(captured)
	for _, want := range []string{"multipart/mixed", "<p>Hi</p>", base64.StdEncoding.EncodeToString([]byte("pdf"))} {
		if !strings.Contains(body, want) {
			t.Errorf("message missing %q", want)
		}
	}

	parsed, err := netmail.ReadMessage(bytes.NewReader(captured))
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	_, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	if err != nil {
		t.Fatalf("ParseMediaType() error = %v", err)
	}
	mr := multipart.NewReader(parsed.Body, params["boundary"])
	var filenames []string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("NextPart() error = %v", err)
		}
		if name := part.FileName(); name != "" {
			filenames = append(filenames, name)
		}
	}
	if len(filenames) != 1 || filenames[0] != "inv.pdf" {
		t.Errorf("attachment filenames = %v, want [inv.pdf]", filenames)
	}
}

func TestSMTPSender_CancelledContext(t *testing.T) {
	s := NewSMTPSender(Config{From: "a@example.com", SMTPHost: "localhost"})
	s.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called")
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Send(ctx, ports.EmailMessage{To: "b@example.com"}); err == nil {
		t.Fatal("expected context error")
	}
}

func TestLogSender_Send(t *testing.T) {
	var buf strings.Builder
	s := NewLogSender(zerolog.New(&buf))
	if err := s.Send(context.Background(), ports.EmailMessage{Kind: "invoice", To: "a@example.com"}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if !strings.Contains(buf.String(), "a@example.com") {
		t.Fatalf("expected recipient in log, got %q", buf.String())
	}
}
