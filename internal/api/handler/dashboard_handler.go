package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freelanceos/backend/internal/core/ports"
)

const defaultRecentLimit = 20

// DashboardHandler serves the read-only aggregate views.
type DashboardHandler struct {
	dashboard ports.DashboardService
	timeline  ports.TimelineService
}

func NewDashboardHandler(dashboard ports.DashboardService, timeline ports.TimelineService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, timeline: timeline}
}

// Summary handles GET /v1/dashboard.
//
// @Summary      Dashboard summary
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Router       /v1/dashboard [get]
func (h *DashboardHandler) Summary(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	s, err := h.dashboard.Summary(c.Request().Context(), owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDashboardResponse(s))
}

// Revenue handles GET /v1/dashboard/revenue.
//
// @Summary      Revenue and outstanding totals per period
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        range  query     string  false  "7d, 30d, year, since_creation or all_time (default year)"
// @Success      200    {object}  revenueResponse
// @Failure      422    {object}  errorResponse
// @Router       /v1/dashboard/revenue [get]
func (h *DashboardHandler) Revenue(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	report, err := h.dashboard.Revenue(c.Request().Context(), owner, ports.RevenueRange(c.QueryParam("range")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRevenueResponse(report))
}

// AtRisk handles GET /v1/dashboard/at-risk.
//
// @Summary      Projects with overdue payments or no recent activity
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[atRiskResponse]
// @Router       /v1/dashboard/at-risk [get]
func (h *DashboardHandler) AtRisk(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	risks, err := h.dashboard.AtRisk(c.Request().Context(), owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(toAtRiskResponses(risks)))
}

// Timeline handles GET /v1/timeline.
//
// @Summary      Recent activity across all projects
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum events (default 20)"
// @Success      200    {object}  listResponse[timelineEventResponse]
// @Failure      400    {object}  errorResponse
// @Router       /v1/timeline [get]
func (h *DashboardHandler) Timeline(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	limit, err := queryLimit(c, defaultRecentLimit)
	if err != nil {
		return err
	}

	events, err := h.timeline.ListRecent(c.Request().Context(), owner, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(toTimelineResponses(events)))
}
