package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

func enrollAndActivate(t *testing.T, f *fixture, userID string) string {
	t.Helper()
	enrollment, err := f.mfaSvc.Enroll(context.Background(), userID)
	if err != nil {
		t.Fatalf("Enroll returned error: %v", err)
	}
	code, err := totp.GenerateCode(enrollment.Secret, f.clock.Now())
	if err != nil {
		t.Fatalf("GenerateCode returned error: %v", err)
	}
	if err := f.mfaSvc.Activate(context.Background(), userID, code); err != nil {
		t.Fatalf("Activate returned error: %v", err)
	}
	return enrollment.Secret
}

func TestMFAService_Enroll(t *testing.T) {
	f := newFixture()
	u := f.seedUser(owner)

	enrollment, err := f.mfaSvc.Enroll(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("Enroll returned error: %v", err)
	}
	if enrollment.Secret == "" || !strings.HasPrefix(enrollment.OTPAuthURL, "otpauth://totp/") {
		t.Fatalf("unexpected enrollment: %+v", enrollment)
	}
	if !bytes.HasPrefix(enrollment.QRCodePNG, []byte("\x89PNG")) {
		t.Fatalf("expected a PNG qr code")
	}

	stored, _ := f.users.FindByID(context.Background(), u.ID)
	if stored.MFA.Enabled {
		t.Fatalf("expected mfa to stay disabled until activation")
	}
	if stored.MFA.PendingSecret != "sealed:"+enrollment.Secret {
		t.Fatalf("expected the pending secret to be stored sealed, got %q", stored.MFA.PendingSecret)
	}
}

func TestMFAService_Activate(t *testing.T) {
	f := newFixture()
	u := f.seedUser(owner)

	if err := f.mfaSvc.Activate(context.Background(), u.ID, "123456"); !errors.Is(err, domain.ErrMFANotEnrolled) {
		t.Fatalf("expected ErrMFANotEnrolled, got %v", err)
	}

	if _, err := f.mfaSvc.Enroll(context.Background(), u.ID); err != nil {
		t.Fatalf("Enroll returned error: %v", err)
	}
	if err := f.mfaSvc.Activate(context.Background(), u.ID, "000000"); !errors.Is(err, domain.ErrInvalidMFACode) {
		t.Fatalf("expected ErrInvalidMFACode, got %v", err)
	}

	enrollAndActivate(t, f, u.ID)
	stored, _ := f.users.FindByID(context.Background(), u.ID)
	if !stored.MFA.Enabled || stored.MFA.PendingSecret != "" || stored.MFA.EnabledAt == nil {
		t.Fatalf("unexpected mfa state: %+v", stored.MFA)
	}
}

func TestMFAService_Disable(t *testing.T) {
	f := newFixture()
	u := f.seedUser(owner)
	secret := enrollAndActivate(t, f, u.ID)

	f.clock.Advance(30 * time.Second)
	code, _ := totp.GenerateCode(secret, f.clock.Now())
	if err := f.mfaSvc.Disable(context.Background(), u.ID, code); err != nil {
		t.Fatalf("Disable returned error: %v", err)
	}
	stored, _ := f.users.FindByID(context.Background(), u.ID)
	if stored.MFA.Enabled || stored.MFA.Secret != "" {
		t.Fatalf("expected mfa to be cleared, got %+v", stored.MFA)
	}
}

func TestAuthService_LoginWithMFA(t *testing.T) {
	f := newFixture()
	user, err := f.authSvc.Register(context.Background(), ports.RegisterInput{Email: "mfa@example.com", Password: "pass1234"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	secret := enrollAndActivate(t, f, user.ID)

	res, err := f.authSvc.Login(context.Background(), "mfa@example.com", "pass1234")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if !res.MFARequired || res.Token != "" || res.ChallengeToken == "" {
		t.Fatalf("expected an mfa challenge, got %+v", res)
	}
	if claims := parseTestToken(t, f, res.ChallengeToken); claims["purpose"] != PurposeMFA {
		t.Fatalf("expected mfa purpose claim, got %v", claims)
	}

	f.clock.Advance(30 * time.Second)
	code, _ := totp.GenerateCode(secret, f.clock.Now())
	verified, err := f.authSvc.VerifyLoginMFA(context.Background(), res.ChallengeToken, code)
	if err != nil {
		t.Fatalf("VerifyLoginMFA returned error: %v", err)
	}
	if verified.Token == "" {
		t.Fatalf("expected a session token")
	}

	if _, err := f.authSvc.VerifyLoginMFA(context.Background(), res.ChallengeToken, code); !errors.Is(err, domain.ErrInvalidMFACode) {
		t.Fatalf("expected a replayed code to be rejected, got %v", err)
	}
	if _, err := f.authSvc.VerifyLoginMFA(context.Background(), verified.Token, code); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected a session token to be refused as a challenge, got %v", err)
	}

	f.clock.Advance(10 * time.Minute)
	fresh, _ := totp.GenerateCode(secret, f.clock.Now())
	if _, err := f.authSvc.VerifyLoginMFA(context.Background(), res.ChallengeToken, fresh); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected an expired challenge to be refused, got %v", err)
	}
}
