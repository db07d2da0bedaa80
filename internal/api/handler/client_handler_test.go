package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/freelanceos/backend/internal/api/middleware"
	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

type stubClientService struct {
	ports.ClientService
	createFn  func(ctx context.Context, in ports.CreateClientInput) (*domain.Client, error)
	updateFn  func(ctx context.Context, in ports.UpdateClientInput) (*domain.Client, error)
	contactFn func(ctx context.Context, ownerID, id, note string) (*domain.Client, error)
	importFn  func(ctx context.Context, ownerID string, r io.Reader) (*ports.ImportResult, error)
}

func (s *stubClientService) Create(ctx context.Context, in ports.CreateClientInput) (*domain.Client, error) {
	return s.createFn(ctx, in)
}

func (s *stubClientService) Update(ctx context.Context, in ports.UpdateClientInput) (*domain.Client, error) {
	return s.updateFn(ctx, in)
}

func (s *stubClientService) LogContact(ctx context.Context, ownerID, id, note string) (*domain.Client, error) {
	return s.contactFn(ctx, ownerID, id, note)
}

func (s *stubClientService) ImportCSV(ctx context.Context, ownerID string, r io.Reader) (*ports.ImportResult, error) {
	return s.importFn(ctx, ownerID, r)
}

func TestClientHandler_Create(t *testing.T) {
	e := newTestEcho()
	h := NewClientHandler(&stubClientService{
		createFn: func(ctx context.Context, in ports.CreateClientInput) (*domain.Client, error) {
			if in.OwnerID != testOwner || in.Name != "Acme" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Client{ID: "c1", Name: in.Name, Email: in.Email, Status: domain.ClientActive}, nil
		},
	})

	c, rec := newJSONContext(e, http.MethodPost, "/v1/clients", `{"name":"Acme","email":"hi@acme.test"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertStatus(t, rec, http.StatusCreated)

	c, _ = newJSONContext(e, http.MethodPost, "/v1/clients", `{"name":"Acme","email":"not-an-email"}`)
	if code := httpErrorCode(t, h.Create(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestClientHandler_Update_PartialFields(t *testing.T) {
	e := newTestEcho()
	h := NewClientHandler(&stubClientService{
		updateFn: func(ctx context.Context, in ports.UpdateClientInput) (*domain.Client, error) {
			if in.Name != nil || in.Status == nil || *in.Status != domain.ClientArchived {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Client{ID: in.ID, Status: *in.Status}, nil
		},
	})

	c, rec := newJSONContext(e, http.MethodPatch, "/v1/clients/c1", `{"status":"archived"}`)
	c.SetParamNames("id")
	c.SetParamValues("c1")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if decodeBody(t, rec)["status"] != "archived" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestClientHandler_LogContact_EmptyBody(t *testing.T) {
	e := newTestEcho()
	h := NewClientHandler(&stubClientService{
		contactFn: func(ctx context.Context, ownerID, id, note string) (*domain.Client, error) {
			if note != "" {
				t.Fatalf("expected empty note, got %q", note)
			}
			return &domain.Client{ID: id}, nil
		},
	})

	c, rec := newJSONContext(e, http.MethodPost, "/v1/clients/c1/contact", "")
	if err := h.LogContact(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)
}

func TestClientHandler_Import(t *testing.T) {
	e := newTestEcho()
	h := NewClientHandler(&stubClientService{
		importFn: func(ctx context.Context, ownerID string, r io.Reader) (*ports.ImportResult, error) {
			data, _ := io.ReadAll(r)
			if string(data) != "name,email\nA,a@x.com\n" {
				t.Fatalf("unexpected upload: %q", data)
			}
			return &ports.ImportResult{
				Imported: []*domain.Client{{ID: "c1", Name: "A", Email: "a@x.com"}},
				Errors:   []string{"Row 2: email is required"},
			}, nil
		},
	})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "clients.csv")
	_, _ = fw.Write([]byte("name,email\nA,a@x.com\n"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/clients/import", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxUserID, testOwner)

	if err := h.Import(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	body := decodeBody(t, rec)
	if len(body["imported"].([]any)) != 1 || body["errors"].([]any)[0] != "Row 2: email is required" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestClientHandler_Import_MissingFile(t *testing.T) {
	e := newTestEcho()
	h := NewClientHandler(&stubClientService{})

	c, _ := newJSONContext(e, http.MethodPost, "/v1/clients/import", `{}`)
	if code := httpErrorCode(t, h.Import(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestClientHandler_RequiresIdentity(t *testing.T) {
	e := newTestEcho()
	h := NewClientHandler(&stubClientService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if code := httpErrorCode(t, h.List(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}
