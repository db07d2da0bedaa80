package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

type stubProjectService struct {
	ports.ProjectService
	getFn    func(ctx context.Context, ownerID, id string) (*domain.Project, error)
	listFn   func(ctx context.Context, in ports.ListProjectsInput) ([]*domain.Project, error)
	updateFn func(ctx context.Context, in ports.UpdateProjectInput) (*domain.Project, error)
}

func (s *stubProjectService) Get(ctx context.Context, ownerID, id string) (*domain.Project, error) {
	return s.getFn(ctx, ownerID, id)
}

func (s *stubProjectService) List(ctx context.Context, in ports.ListProjectsInput) ([]*domain.Project, error) {
	return s.listFn(ctx, in)
}

func (s *stubProjectService) Update(ctx context.Context, in ports.UpdateProjectInput) (*domain.Project, error) {
	return s.updateFn(ctx, in)
}

type stubProjectTimeline struct {
	ports.TimelineService
	calls int
}

func (s *stubProjectTimeline) ListByProject(ctx context.Context, ownerID, projectID string, limit int) ([]*domain.TimelineEvent, error) {
	s.calls++
	return []*domain.TimelineEvent{{ID: "e1", ProjectID: projectID, EventType: domain.EventProjectCreated}}, nil
}

func TestProjectHandler_List_ReturnsBothStatuses(t *testing.T) {
	e := newTestEcho()
	h := NewProjectHandler(&stubProjectService{
		listFn: func(ctx context.Context, in ports.ListProjectsInput) ([]*domain.Project, error) {
			if in.UIStatus != domain.UIActive {
				t.Fatalf("unexpected filter: %+v", in)
			}
			return []*domain.Project{{ID: "p1", Status: domain.ProjectReview}}, nil
		},
	}, &stubPaymentService{}, &stubProjectTimeline{})

	c, rec := newJSONContext(e, http.MethodGet, "/v1/projects?ui_status=active", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	p := decodeBody(t, rec)["data"].([]any)[0].(map[string]any)
	if p["status"] != "review" || p["ui_status"] != "active" {
		t.Fatalf("unexpected project: %+v", p)
	}
}

func TestProjectHandler_Update_UIStatus(t *testing.T) {
	e := newTestEcho()
	h := NewProjectHandler(&stubProjectService{
		updateFn: func(ctx context.Context, in ports.UpdateProjectInput) (*domain.Project, error) {
			if in.Status != nil || in.UIStatus == nil || *in.UIStatus != domain.UIWaiting {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Project{ID: in.ID, Status: domain.ProjectOnHold}, nil
		},
	}, &stubPaymentService{}, &stubProjectTimeline{})

	c, rec := newJSONContext(e, http.MethodPatch, "/v1/projects/p1", `{"ui_status":"waiting"}`)
	c.SetParamNames("id")
	c.SetParamValues("p1")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if decodeBody(t, rec)["status"] != "on_hold" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	c, _ = newJSONContext(e, http.MethodPatch, "/v1/projects/p1", `{"ui_status":"archived"}`)
	if code := httpErrorCode(t, h.Update(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestProjectHandler_Timeline_ChecksOwnership(t *testing.T) {
	e := newTestEcho()
	timeline := &stubProjectTimeline{}
	h := NewProjectHandler(&stubProjectService{
		getFn: func(ctx context.Context, ownerID, id string) (*domain.Project, error) {
			if id == "mine" {
				return &domain.Project{ID: id}, nil
			}
			return nil, domain.ErrProjectNotFound
		},
	}, &stubPaymentService{}, timeline)

	c, _ := newJSONContext(e, http.MethodGet, "/v1/projects/theirs/timeline", "")
	c.SetParamNames("id")
	c.SetParamValues("theirs")
	if err := h.Timeline(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if timeline.calls != 0 {
		t.Fatalf("timeline must not be read for a foreign project")
	}

	c, rec := newJSONContext(e, http.MethodGet, "/v1/projects/mine/timeline", "")
	c.SetParamNames("id")
	c.SetParamValues("mine")
	if err := h.Timeline(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if decodeBody(t, rec)["count"] != 1.0 {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestProjectHandler_CheckOverdue(t *testing.T) {
	e := newTestEcho()
	h := NewProjectHandler(&stubProjectService{}, &stubPaymentService{
		checkFn: func(ctx context.Context, ownerID, projectID string) (int, error) {
			if ownerID != testOwner || projectID != "p1" {
				t.Fatalf("unexpected args: %s %s", ownerID, projectID)
			}
			return 2, nil
		},
	}, &stubProjectTimeline{})

	c, rec := newJSONContext(e, http.MethodPost, "/v1/projects/p1/payments/check-overdue", "")
	c.SetParamNames("id")
	c.SetParamValues("p1")
	if err := h.CheckOverdue(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if decodeBody(t, rec)["marked"] != 2.0 {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
