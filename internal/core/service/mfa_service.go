package service

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

const (
	totpPeriod = 30
	// codeReplayWindow covers the current step plus one step of skew on
	// either side.
	codeReplayWindow = 90 * time.Second
	qrCodeSize       = 256
)

// totpVerifier checks a TOTP code against a sealed secret and burns it so
// that the same code cannot be used twice.
type totpVerifier struct {
	sealer ports.SecretSealer
	guard  ports.ReplayGuard
	clock  Clock
}

func (v totpVerifier) verify(ctx context.Context, userID, sealedSecret, code string) error {
	code = strings.TrimSpace(code)
	if code == "" || sealedSecret == "" {
		return domain.ErrInvalidMFACode
	}
	secret, err := v.sealer.Open(sealedSecret)
	if err != nil {
		return fmt.Errorf("open mfa secret: %w", err)
	}

	ok, err := totp.ValidateCustom(code, secret, v.clock.Now(), totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil || !ok {
		return domain.ErrInvalidMFACode
	}

	fresh, err := v.guard.Claim(ctx, "mfa:used:"+userID+":"+code, codeReplayWindow)
	if err != nil {
		return fmt.Errorf("mfa replay guard: %w", err)
	}
	if !fresh {
		return domain.ErrInvalidMFACode
	}
	return nil
}

// MFAService manages TOTP enrollment for an account.
type MFAService struct {
	users    ports.UserRepository
	verifier totpVerifier
	issuer   string
	clock    Clock
	logger   zerolog.Logger
}

func NewMFAService(users ports.UserRepository, sealer ports.SecretSealer, guard ports.ReplayGuard, issuer string, clock Clock, logger zerolog.Logger) *MFAService {
	if issuer == "" {
		issuer = "FreelanceOS"
	}
	return &MFAService{
		users:    users,
		verifier: totpVerifier{sealer: sealer, guard: guard, clock: clock},
		issuer:   issuer,
		clock:    clock,
		logger:   logger,
	}
}

// Enroll generates a new key and stores it as pending. The active secret, if
// any, keeps working until Activate succeeds.
func (s *MFAService) Enroll(ctx context.Context, userID string) (*ports.MFAEnrollment, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: user.Email,
		Period:      totpPeriod,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, fmt.Errorf("generate totp key: %w", err)
	}

	img, err := key.Image(qrCodeSize, qrCodeSize)
	if err != nil {
		return nil, fmt.Errorf("render qr code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}

	sealed, err := s.verifier.sealer.Seal(key.Secret())
	if err != nil {
		return nil, fmt.Errorf("seal mfa secret: %w", err)
	}
	user.MFA.PendingSecret = sealed
	user.UpdatedAt = s.clock.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("store pending mfa secret: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("mfa enrollment started")
	return &ports.MFAEnrollment{Secret: key.Secret(), OTPAuthURL: key.URL(), QRCodePNG: buf.Bytes()}, nil
}

// Activate promotes the pending secret once the user proves they hold it.
func (s *MFAService) Activate(ctx context.Context, userID, code string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.MFA.PendingSecret == "" {
		return domain.ErrMFANotEnrolled
	}
	if err := s.verifier.verify(ctx, user.ID, user.MFA.PendingSecret, code); err != nil {
		return err
	}

	now := s.clock.Now()
	user.MFA = domain.MFA{Enabled: true, Secret: user.MFA.PendingSecret, EnabledAt: &now}
	user.UpdatedAt = now
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("activate mfa: %w", err)
	}
	s.logger.Info().Str("user_id", user.ID).Msg("mfa enabled")
	return nil
}

func (s *MFAService) Disable(ctx context.Context, userID, code string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.MFA.Enabled {
		return domain.ErrMFANotEnrolled
	}
	if err := s.verifier.verify(ctx, user.ID, user.MFA.Secret, code); err != nil {
		return err
	}

	user.MFA = domain.MFA{}
	user.UpdatedAt = s.clock.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("disable mfa: %w", err)
	}
	s.logger.Info().Str("user_id", user.ID).Msg("mfa disabled")
	return nil
}
