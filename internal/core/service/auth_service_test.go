package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

func parseTestToken(t *testing.T, f *fixture, token string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithTimeFunc(f.clock.Now))
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	return claims
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newFixture()

	user, err := f.authSvc.Register(context.Background(), ports.RegisterInput{Email: "Alice@Example.com", Password: "pass1234", Name: "Alice"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass1234")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleUser || user.Provider != domain.ProviderPassword {
		t.Fatalf("unexpected role/provider: %s/%s", user.Role, user.Provider)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	f := newFixture()

	cases := []ports.RegisterInput{
		{Email: "", Password: "pass1234"},
		{Email: "nope", Password: "pass1234"},
		{Email: "a@x.com", Password: "short"},
		{Email: "a@x.com", Password: "pass1234", Role: "root"},
	}
	for _, in := range cases {
		if _, err := f.authSvc.Register(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected validation error for %+v, got %v", in, err)
		}
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	f := newFixture()

	_, _ = f.authSvc.Register(context.Background(), ports.RegisterInput{Email: "bob@example.com", Password: "pass1234"})
	if _, err := f.authSvc.Register(context.Background(), ports.RegisterInput{Email: "BOB@example.com", Password: "pass5678"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newFixture()
	user, _ := f.authSvc.Register(context.Background(), ports.RegisterInput{Email: "carol@example.com", Password: "s3cret-pw"})

	res, err := f.authSvc.Login(context.Background(), "carol@example.com", "s3cret-pw")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.MFARequired || res.Token == "" {
		t.Fatalf("expected a session token, got %+v", res)
	}
	claims := parseTestToken(t, f, res.Token)
	if claims["sub"] != user.ID || claims["role"] != domain.RoleUser {
		t.Fatalf("unexpected claims: %v", claims)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	f := newFixture()
	_, _ = f.authSvc.Register(context.Background(), ports.RegisterInput{Email: "dave@example.com", Password: "correct-pw"})

	if _, err := f.authSvc.Login(context.Background(), "dave@example.com", "wrong-pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := f.authSvc.Login(context.Background(), "nobody@example.com", "whatever"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
	if _, err := f.authSvc.Login(context.Background(), "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty input, got %v", err)
	}
}

func TestAuthService_LoginWithProvider_CreatesThenLinks(t *testing.T) {
	f := newFixture()
	id := ports.ProviderIdentity{Provider: domain.ProviderGoogle, ProviderID: "g-1", Email: "Eve@Example.com", Name: "Eve"}

	first, err := f.authSvc.LoginWithProvider(context.Background(), id)
	if err != nil {
		t.Fatalf("LoginWithProvider returned error: %v", err)
	}
	if first.User.Provider != domain.ProviderGoogle || first.Token == "" {
		t.Fatalf("unexpected result: %+v", first)
	}

	second, err := f.authSvc.LoginWithProvider(context.Background(), id)
	if err != nil {
		t.Fatalf("LoginWithProvider returned error: %v", err)
	}
	if second.User.ID != first.User.ID {
		t.Fatalf("expected the same account, got %s and %s", first.User.ID, second.User.ID)
	}

	pw, _ := f.authSvc.Register(context.Background(), ports.RegisterInput{Email: "frank@example.com", Password: "pass1234"})
	linked, err := f.authSvc.LoginWithProvider(context.Background(), ports.ProviderIdentity{Provider: domain.ProviderGoogle, ProviderID: "g-2", Email: "frank@example.com"})
	if err != nil {
		t.Fatalf("LoginWithProvider returned error: %v", err)
	}
	if linked.User.ID != pw.ID || linked.User.ProviderID != "g-2" {
		t.Fatalf("expected provider to be linked to the password account, got %+v", linked.User)
	}
}
