package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freelanceos/backend/internal/core/ports"
)

// AdminHandler exposes operator actions. Routes are guarded by the admin role.
type AdminHandler struct {
	payments ports.PaymentService
}

func NewAdminHandler(payments ports.PaymentService) *AdminHandler {
	return &AdminHandler{payments: payments}
}

// SweepOverdue handles POST /v1/admin/payments/sweep-overdue.
//
// @Summary      Run the overdue sweep across every account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sweepResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/payments/sweep-overdue [post]
func (h *AdminHandler) SweepOverdue(c echo.Context) error {
	n, err := h.payments.SweepOverdue(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sweepResponse{Marked: n})
}
