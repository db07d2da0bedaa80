package secrets

import (
	"strings"
	"testing"
)

func newTestSealer(t *testing.T) *AgeSealer {
	t.Helper()
	id, err := GenerateIdentity()
	if err != nil {
		t.Fatalf("GenerateIdentity() error = %v", err)
	}
	s, err := NewAgeSealer(id)
	if err != nil {
		t.Fatalf("NewAgeSealer() error = %v", err)
	}
	return s
}

func TestAgeSealer_RoundTrip(t *testing.T) {
	s := newTestSealer(t)
	const secret = "JBSWY3DPEHPK3PXP"

	sealed, err := s.Seal(secret)
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	if strings.Contains(sealed, secret) {
		t.Fatal("sealed value leaks the plaintext")
	}
	if !strings.HasPrefix(sealed, "-----BEGIN AGE ENCRYPTED FILE-----") {
		t.Fatalf("expected armored output, got %q", sealed[:min(len(sealed), 40)])
	}

	opened, err := s.Open(sealed)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if opened != secret {
		t.Fatalf("Open() = %q, want %q", opened, secret)
	}
}

func TestAgeSealer_WrongIdentity(t *testing.T) {
	sealed, err := newTestSealer(t).Seal("secret")
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	if _, err := newTestSealer(t).Open(sealed); err == nil {
		t.Fatal("expected decrypt error with a different identity")
	}
}

func TestNewAgeSealer_InvalidIdentity(t *testing.T) {
	if _, err := NewAgeSealer("not-a-key"); err == nil {
		t.Fatal("expected parse error")
	}
}
