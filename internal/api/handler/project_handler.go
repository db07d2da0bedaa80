package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

const defaultTimelineLimit = 50

// ProjectHandler handles HTTP requests for projects and their per-project
// timeline and overdue check.
type ProjectHandler struct {
	projects ports.ProjectService
	payments ports.PaymentService
	timeline ports.TimelineService
}

func NewProjectHandler(projects ports.ProjectService, payments ports.PaymentService, timeline ports.TimelineService) *ProjectHandler {
	return &ProjectHandler{projects: projects, payments: payments, timeline: timeline}
}

// Create handles POST /v1/projects.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProjectRequest  true  "Project"
// @Success      201   {object}  projectResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req createProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.projects.Create(c.Request().Context(), ports.CreateProjectInput{
		OwnerID:     owner,
		ClientID:    req.ClientID,
		Name:        req.Name,
		Description: req.Description,
		Status:      domain.ProjectStatus(req.Status),
		Budget:      req.Budget,
		Currency:    req.Currency,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toProjectResponse(p))
}

// List handles GET /v1/projects.
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Stored status"
// @Param        ui_status  query     string  false  "Display status (lead, active, waiting, completed)"
// @Param        client_id  query     string  false  "Client ID"
// @Success      200        {object}  listResponse[projectResponse]
// @Failure      422        {object}  errorResponse
// @Router       /v1/projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	projects, err := h.projects.List(c.Request().Context(), ports.ListProjectsInput{
		OwnerID:  owner,
		ClientID: c.QueryParam("client_id"),
		Status:   domain.ProjectStatus(c.QueryParam("status")),
		UIStatus: domain.UIStatus(c.QueryParam("ui_status")),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(toProjectResponses(projects)))
}

// Get handles GET /v1/projects/:id.
//
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  projectResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	p, err := h.projects.Get(c.Request().Context(), owner, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponse(p))
}

// Update handles PATCH /v1/projects/:id. Either status or ui_status may be
// sent; status wins when both are present.
//
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Project ID"
// @Param        body  body      updateProjectRequest  true  "Fields to change"
// @Success      200   {object}  projectResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/projects/{id} [patch]
func (h *ProjectHandler) Update(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req updateProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.projects.Update(c.Request().Context(), ports.UpdateProjectInput{
		OwnerID:     owner,
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		Status:      projectStatusPtr(req.Status),
		UIStatus:    uiStatusPtr(req.UIStatus),
		Budget:      req.Budget,
		Currency:    req.Currency,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponse(p))
}

// Delete handles DELETE /v1/projects/:id.
//
// @Summary      Delete a project
// @Tags         projects
// @Security     BearerAuth
// @Param        id   path  string  true  "Project ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.projects.Delete(c.Request().Context(), owner, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Timeline handles GET /v1/projects/:id/timeline.
//
// @Summary      Project activity timeline
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Project ID"
// @Param        limit  query     int     false  "Maximum events (default 50)"
// @Success      200    {object}  listResponse[timelineEventResponse]
// @Failure      404    {object}  errorResponse
// @Router       /v1/projects/{id}/timeline [get]
func (h *ProjectHandler) Timeline(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	limit, err := queryLimit(c, defaultTimelineLimit)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.projects.Get(ctx, owner, c.Param("id")); err != nil {
		return err
	}
	events, err := h.timeline.ListByProject(ctx, owner, c.Param("id"), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(toTimelineResponses(events)))
}

// CheckOverdue handles POST /v1/projects/:id/payments/check-overdue.
//
// @Summary      Mark the project's past-due payments as overdue
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  overdueCheckResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{id}/payments/check-overdue [post]
func (h *ProjectHandler) CheckOverdue(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	n, err := h.payments.CheckOverduePayments(c.Request().Context(), owner, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, overdueCheckResponse{Marked: n})
}

// queryLimit reads the optional "limit" query parameter.
func queryLimit(c echo.Context, def int) (int, error) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > 500 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "limit must be between 1 and 500")
	}
	return n, nil
}
