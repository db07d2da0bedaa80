package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/freelanceos/backend/internal/core/ports"
)

type resendAttachment struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	ContentType string `json:"content_type,omitempty"`
}

type resendRequest struct {
	From        string             `json:"from"`
	To          []string           `json:"to"`
	Subject     string             `json:"subject"`
	HTML        string             `json:"html"`
	Attachments []resendAttachment `json:"attachments,omitempty"`
}

// ResendSender posts messages to the Resend HTTP API.
type ResendSender struct {
	from     string
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewResendSender(cfg Config, client *http.Client) *ResendSender {
	endpoint := cfg.ResendEndpoint
	if endpoint == "" {
		endpoint = defaultResendEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &ResendSender{from: cfg.From, apiKey: cfg.ResendAPIKey, endpoint: endpoint, client: client}
}

func (s *ResendSender) Send(ctx context.Context, msg ports.EmailMessage) error {
	body := resendRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	}
	for _, a := range msg.Attachments {
		body.Attachments = append(body.Attachments, resendAttachment{
			Filename:    a.Filename,
			Content:     base64.StdEncoding.EncodeToString(a.Content),
			ContentType: a.ContentType,
		})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("resend: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("resend: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("resend: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("resend: api error: status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}
	return nil
}
