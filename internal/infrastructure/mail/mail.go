// Package mail delivers outbound email through Resend or plain SMTP.
package mail

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/freelanceos/backend/internal/core/ports"
)

const (
	ProviderResend = "resend"
	ProviderSMTP   = "smtp"

	defaultResendEndpoint = "https://api.resend.com/emails"
)

// Config selects and configures the delivery provider.
type Config struct {
	Provider       string
	From           string
	ResendAPIKey   string
	ResendEndpoint string
	SMTPHost       string
	SMTPPort       string
	SMTPUser       string
	SMTPPass       string
}

// Sender delivers a single message synchronously.
type Sender interface {
	Send(ctx context.Context, msg ports.EmailMessage) error
}

// NewSender builds the Sender selected by cfg.Provider. Resend is the default.
func NewSender(cfg Config) (Sender, error) {
	if cfg.From == "" {
		return nil, fmt.Errorf("mail: sender address is required")
	}
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderResend:
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("mail: resend api key is required")
		}
		return NewResendSender(cfg, &http.Client{Timeout: 20 * time.Second}), nil
	case ProviderSMTP:
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("mail: smtp host is required")
		}
		return NewSMTPSender(cfg), nil
	default:
		return nil, fmt.Errorf("mail: unknown provider %q", cfg.Provider)
	}
}

// LogSender writes messages to the log instead of delivering them. It is used
// when no provider is configured.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg ports.EmailMessage) error {
	s.log.Warn().
		Str("kind", msg.Kind).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Int("attachments", len(msg.Attachments)).
		Msg("email provider not configured; message dropped")
	return nil
}
