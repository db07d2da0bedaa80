package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/freelanceos/backend/internal/core/ports"
)

const routerSecret = "router-secret"

type sweepStub struct {
	ports.PaymentService
	calls int
}

func (s *sweepStub) SweepOverdue(ctx context.Context) (int, error) {
	s.calls++
	return 2, nil
}

func newTestRouter(payments ports.PaymentService, deps map[string]func(context.Context) error) *echo.Echo {
	return NewRouter(Dependencies{
		Payments:  payments,
		JWTSecret: routerSecret,
		Probes:    deps,
		Logger:    zerolog.Nop(),
	})
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-1",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(routerSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + signed
}

func TestRouter_RegistersRoutes(t *testing.T) {
	e := newTestRouter(&sweepStub{}, nil)

	registered := map[string]bool{}
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"POST /auth/register",
		"POST /auth/mfa/verify",
		"GET /scope/share/:token",
		"GET /metrics",
		"POST /v1/clients/import",
		"GET /v1/projects/:id/scopes/latest",
		"POST /v1/payments/:id/invoice/send",
		"GET /v1/payments/:id/invoice.pdf",
		"POST /v1/reminders/:id/snooze",
		"GET /v1/dashboard/at-risk",
		"GET /v1/timeline",
		"PUT /v1/account/settings",
		"POST /v1/admin/payments/sweep-overdue",
	} {
		if !registered[want] {
			t.Errorf("route %q not registered", want)
		}
	}
	if registered["GET /auth/google"] {
		t.Error("google sign-in must not be mounted without credentials")
	}
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	e := newTestRouter(&sweepStub{}, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/clients", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_AdminSweepRequiresAdminRole(t *testing.T) {
	stub := &sweepStub{}
	e := newTestRouter(stub, nil)

	for role, want := range map[string]int{"user": http.StatusForbidden, "admin": http.StatusOK} {
		req := httptest.NewRequest(http.MethodPost, "/v1/admin/payments/sweep-overdue", nil)
		req.Header.Set("Authorization", bearer(t, role))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("role %s: expected %d, got %d (%s)", role, want, rec.Code, rec.Body.String())
		}
	}
	if stub.calls != 1 {
		t.Fatalf("expected exactly one sweep, got %d", stub.calls)
	}
}

func TestRouter_Readiness(t *testing.T) {
	e := newTestRouter(&sweepStub{}, map[string]func(context.Context) error{
		"mongodb": func(context.Context) error { return nil },
		"redis":   func(context.Context) error { return errors.New("connection refused") },
	})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from liveness, got %d", rec.Code)
	}
}
