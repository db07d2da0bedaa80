// Package secrets seals small values (TOTP secrets) with age before they are stored.
package secrets

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/freelanceos/backend/internal/core/ports"
)

// AgeSealer encrypts to the X25519 recipient of its identity and returns
// ASCII-armored ciphertext.
type AgeSealer struct {
	identity  *age.X25519Identity
	recipient *age.X25519Recipient
}

var _ ports.SecretSealer = (*AgeSealer)(nil)

// NewAgeSealer parses an "AGE-SECRET-KEY-1..." identity.
func NewAgeSealer(identity string) (*AgeSealer, error) {
	id, err := age.ParseX25519Identity(strings.TrimSpace(identity))
	if err != nil {
		return nil, fmt.Errorf("secrets: parse age identity: %w", err)
	}
	return &AgeSealer{identity: id, recipient: id.Recipient()}, nil
}

// GenerateIdentity returns a fresh identity string for MFA_AGE_IDENTITY.
func GenerateIdentity() (string, error) {
	id, err := age.GenerateX25519Identity()
	if err != nil {
		return "", fmt.Errorf("secrets: generate identity: %w", err)
	}
	return id.String(), nil
}

func (s *AgeSealer) Seal(plaintext string) (string, error) {
	var buf bytes.Buffer
	aw := armor.NewWriter(&buf)
	w, err := age.Encrypt(aw, s.recipient)
	if err != nil {
		return "", fmt.Errorf("secrets: create encrypted writer: %w", err)
	}
	if _, err := io.WriteString(w, plaintext); err != nil {
		return "", fmt.Errorf("secrets: encrypt: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("secrets: finalize encryption: %w", err)
	}
	if err := aw.Close(); err != nil {
		return "", fmt.Errorf("secrets: finalize armor: %w", err)
	}
	return buf.String(), nil
}

func (s *AgeSealer) Open(sealed string) (string, error) {
	r, err := age.Decrypt(armor.NewReader(strings.NewReader(sealed)), s.identity)
	if err != nil {
		return "", fmt.Errorf("secrets: decrypt: %w", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("secrets: read plaintext: %w", err)
	}
	return string(out), nil
}
