package service

import (
	"context"
	"errors"
	"testing"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

func strPtr(s string) *string { return &s }

func TestSettingsService_GetMergesDefaults(t *testing.T) {
	f := newFixture()
	f.seedUser(owner)

	st, err := f.settings.Get(context.Background(), owner)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if st.BusinessName != "Default Studio" || st.DefaultCurrency != "USD" || st.InvoicePrefix != "INV" {
		t.Fatalf("expected defaults, got %+v", st)
	}
}

func TestSettingsService_Update(t *testing.T) {
	f := newFixture()
	f.seedUser(owner)

	st, err := f.settings.Update(context.Background(), ports.UpdateSettingsInput{
		UserID:          owner,
		BusinessName:    strPtr("Acme Design"),
		AccentColor:     strPtr("#ff6600"),
		DefaultCurrency: strPtr("eur"),
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if st.BusinessName != "Acme Design" || st.DefaultCurrency != "EUR" || st.AccentColor != "#ff6600" {
		t.Fatalf("unexpected settings: %+v", st)
	}

	cleared, err := f.settings.Update(context.Background(), ports.UpdateSettingsInput{UserID: owner, BusinessName: strPtr("")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if cleared.BusinessName != "Default Studio" {
		t.Fatalf("expected a cleared field to fall back to the default, got %q", cleared.BusinessName)
	}
}

func TestSettingsService_Update_Validation(t *testing.T) {
	f := newFixture()
	f.seedUser(owner)

	cases := []ports.UpdateSettingsInput{
		{UserID: owner, AccentColor: strPtr("orange")},
		{UserID: owner, DefaultCurrency: strPtr("dollars")},
		{UserID: owner, BusinessEmail: strPtr("nope")},
		{UserID: owner, InvoicePrefix: strPtr("INV-")},
	}
	for _, in := range cases {
		if _, err := f.settings.Update(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected validation error for %+v, got %v", in, err)
		}
	}

	if _, err := f.settings.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
