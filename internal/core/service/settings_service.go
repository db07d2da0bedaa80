package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

// SettingsService reads and writes account branding. Empty fields fall back
// to the install-wide defaults.
type SettingsService struct {
	users    ports.UserRepository
	defaults domain.Settings
	clock    Clock
	logger   zerolog.Logger
}

func NewSettingsService(users ports.UserRepository, defaults domain.Settings, clock Clock, logger zerolog.Logger) *SettingsService {
	if defaults.DefaultCurrency == "" {
		defaults.DefaultCurrency = domain.DefaultCurrency
	}
	if defaults.InvoicePrefix == "" {
		defaults.InvoicePrefix = "INV"
	}
	return &SettingsService{users: users, defaults: defaults, clock: clock, logger: logger}
}

func (s *SettingsService) Get(ctx context.Context, userID string) (*domain.Settings, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	merged := s.merge(user.Settings)
	return &merged, nil
}

func (s *SettingsService) Update(ctx context.Context, in ports.UpdateSettingsInput) (*domain.Settings, error) {
	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	st := &user.Settings

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&st.BusinessName, in.BusinessName)
	set(&st.BusinessAddress, in.BusinessAddress)
	set(&st.LogoURL, in.LogoURL)
	set(&st.InvoiceFooter, in.InvoiceFooter)

	if in.BusinessEmail != nil {
		email := normalizeEmail(*in.BusinessEmail)
		if email != "" && valueValidator.Var(email, "email") != nil {
			return nil, domain.Invalidf("invalid business_email %q", *in.BusinessEmail)
		}
		st.BusinessEmail = email
	}
	if in.AccentColor != nil {
		color := strings.TrimSpace(*in.AccentColor)
		if color != "" && valueValidator.Var(color, "hexcolor") != nil {
			return nil, domain.Invalidf("accent_color must be a hex color")
		}
		st.AccentColor = color
	}
	if in.DefaultCurrency != nil {
		cur := strings.ToUpper(strings.TrimSpace(*in.DefaultCurrency))
		if cur != "" && valueValidator.Var(cur, "iso4217") != nil {
			return nil, domain.Invalidf("default_currency must be an ISO 4217 code")
		}
		st.DefaultCurrency = cur
	}
	if in.InvoicePrefix != nil {
		prefix := strings.ToUpper(strings.TrimSpace(*in.InvoicePrefix))
		if prefix != "" && valueValidator.Var(prefix, "alphanum,max=10") != nil {
			return nil, domain.Invalidf("invoice_prefix must be up to 10 letters or digits")
		}
		st.InvoicePrefix = prefix
	}

	user.UpdatedAt = s.clock.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	s.logger.Info().Str("user_id", user.ID).Msg("settings updated")

	merged := s.merge(user.Settings)
	return &merged, nil
}

func (s *SettingsService) merge(st domain.Settings) domain.Settings {
	pick := func(v, def string) string {
		if v != "" {
			return v
		}
		return def
	}
	return domain.Settings{
		BusinessName:    pick(st.BusinessName, s.defaults.BusinessName),
		BusinessAddress: pick(st.BusinessAddress, s.defaults.BusinessAddress),
		BusinessEmail:   pick(st.BusinessEmail, s.defaults.BusinessEmail),
		LogoURL:         pick(st.LogoURL, s.defaults.LogoURL),
		AccentColor:     pick(st.AccentColor, s.defaults.AccentColor),
		DefaultCurrency: pick(st.DefaultCurrency, s.defaults.DefaultCurrency),
		InvoicePrefix:   pick(st.InvoicePrefix, s.defaults.InvoicePrefix),
		InvoiceFooter:   pick(st.InvoiceFooter, s.defaults.InvoiceFooter),
	}
}
