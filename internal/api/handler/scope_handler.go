package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/freelanceos/backend/internal/core/ports"
)

// ScopeHandler handles scope versions and their public share links.
type ScopeHandler struct {
	service ports.ScopeService
}

func NewScopeHandler(service ports.ScopeService) *ScopeHandler {
	return &ScopeHandler{service: service}
}

// Create handles POST /v1/projects/:id/scopes.
//
// @Summary      Snapshot a new scope version
// @Tags         scopes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Project ID"
// @Param        body  body      createScopeRequest  true  "Scope contents"
// @Success      201   {object}  scopeResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/projects/{id}/scopes [post]
func (h *ScopeHandler) Create(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req createScopeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	v, err := h.service.CreateVersion(c.Request().Context(), ports.CreateScopeInput{
		OwnerID:      owner,
		ProjectID:    c.Param("id"),
		Deliverables: req.Deliverables,
		OutOfScope:   req.OutOfScope,
		Assumptions:  req.Assumptions,
		Notes:        req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toScopeResponse(v))
}

// List handles GET /v1/projects/:id/scopes.
//
// @Summary      List scope versions, newest first
// @Tags         scopes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  listResponse[scopeResponse]
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{id}/scopes [get]
func (h *ScopeHandler) List(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	versions, err := h.service.List(c.Request().Context(), owner, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(toScopeResponses(versions)))
}

// Latest handles GET /v1/projects/:id/scopes/latest.
//
// @Summary      Latest scope version
// @Tags         scopes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  scopeResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{id}/scopes/latest [get]
func (h *ScopeHandler) Latest(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	v, err := h.service.GetLatest(c.Request().Context(), owner, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toScopeResponse(v))
}

// Get handles GET /v1/projects/:id/scopes/:version.
//
// @Summary      Scope version by number
// @Tags         scopes
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "Project ID"
// @Param        version  path      int     true  "Version number"
// @Success      200      {object}  scopeResponse
// @Failure      400      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/projects/{id}/scopes/{version} [get]
func (h *ScopeHandler) Get(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	version, err := strconv.Atoi(c.Param("version"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "version must be a number")
	}

	v, err := h.service.Get(c.Request().Context(), owner, c.Param("id"), version)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toScopeResponse(v))
}

// Shared handles GET /scope/share/:token. No authentication: the token is
// the credential.
//
// @Summary      Public view of a shared scope version
// @Tags         scopes
// @Produce      json
// @Param        token  path      string  true  "Share token"
// @Success      200    {object}  sharedScopeResponse
// @Failure      404    {object}  errorResponse
// @Router       /scope/share/{token} [get]
func (h *ScopeHandler) Shared(c echo.Context) error {
	shared, err := h.service.GetByShareToken(c.Request().Context(), c.Param("token"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSharedScopeResponse(shared))
}
