package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

// PaymentHandler handles HTTP requests for payment milestones and their
// invoices.
type PaymentHandler struct {
	payments ports.PaymentService
	invoices ports.InvoiceService
}

func NewPaymentHandler(payments ports.PaymentService, invoices ports.InvoiceService) *PaymentHandler {
	return &PaymentHandler{payments: payments, invoices: invoices}
}

// Create handles POST /v1/payments.
//
// @Summary      Create a payment milestone
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Replays return the original payment"
// @Param        body             body      createPaymentRequest  true   "Payment"
// @Success      201              {object}  paymentResponse
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Router       /v1/payments [post]
func (h *PaymentHandler) Create(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req createPaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.payments.Create(c.Request().Context(), ports.CreatePaymentInput{
		OwnerID:        owner,
		ProjectID:      req.ProjectID,
		MilestoneName:  req.MilestoneName,
		Amount:         req.Amount,
		Currency:       req.Currency,
		DueDate:        req.DueDate,
		IdempotencyKey: strings.TrimSpace(c.Request().Header.Get("Idempotency-Key")),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPaymentResponse(p))
}

// List handles GET /v1/payments.
//
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  query     string  false  "Project ID"
// @Param        client_id   query     string  false  "Client ID"
// @Param        status      query     string  false  "Comma-separated statuses"
// @Success      200         {object}  listResponse[paymentResponse]
// @Failure      422         {object}  errorResponse
// @Router       /v1/payments [get]
func (h *PaymentHandler) List(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	filter := ports.PaymentFilter{
		OwnerID:   owner,
		ProjectID: c.QueryParam("project_id"),
		ClientID:  c.QueryParam("client_id"),
	}
	if raw := c.QueryParam("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			status := domain.PaymentStatus(strings.TrimSpace(s))
			if !status.IsValid() {
				return domain.Invalidf("unknown payment status %q", s)
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	payments, err := h.payments.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(toPaymentResponses(payments)))
}

// Get handles GET /v1/payments/:id.
//
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  paymentResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/payments/{id} [get]
func (h *PaymentHandler) Get(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	p, err := h.payments.Get(c.Request().Context(), owner, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPaymentResponse(p))
}

// Update handles PATCH /v1/payments/:id.
//
// @Summary      Update a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Payment ID"
// @Param        body  body      updatePaymentRequest  true  "Fields to change"
// @Success      200   {object}  paymentResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/payments/{id} [patch]
func (h *PaymentHandler) Update(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req updatePaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.payments.Update(c.Request().Context(), ports.UpdatePaymentInput{
		OwnerID:       owner,
		ID:            c.Param("id"),
		MilestoneName: req.MilestoneName,
		Amount:        req.Amount,
		Currency:      req.Currency,
		DueDate:       req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPaymentResponse(p))
}

// UpdateStatus handles PATCH /v1/payments/:id/status.
//
// @Summary      Change a payment's status
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                      true  "Payment ID"
// @Param        body  body      updatePaymentStatusRequest  true  "New status"
// @Success      200   {object}  paymentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/payments/{id}/status [patch]
func (h *PaymentHandler) UpdateStatus(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req updatePaymentStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.payments.UpdateStatus(c.Request().Context(), ports.UpdatePaymentStatusInput{
		OwnerID:       owner,
		ID:            c.Param("id"),
		Status:        domain.PaymentStatus(req.Status),
		AmountPaid:    req.AmountPaid,
		PaidDate:      req.PaidDate,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPaymentResponse(p))
}

// Delete handles DELETE /v1/payments/:id.
//
// @Summary      Delete a payment
// @Tags         payments
// @Security     BearerAuth
// @Param        id   path  string  true  "Payment ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/payments/{id} [delete]
func (h *PaymentHandler) Delete(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.payments.Delete(c.Request().Context(), owner, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GenerateInvoice handles POST /v1/payments/:id/invoice.
//
// @Summary      Generate or regenerate the invoice of a payment
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Payment ID"
// @Param        body  body      generateInvoiceRequest  true  "Invoice details"
// @Success      200   {object}  paymentResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/payments/{id}/invoice [post]
func (h *PaymentHandler) GenerateInvoice(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req generateInvoiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.payments.GenerateInvoice(c.Request().Context(), ports.GenerateInvoiceInput{
		OwnerID:       owner,
		PaymentID:     c.Param("id"),
		InvoiceNumber: strings.TrimSpace(req.InvoiceNumber),
		LineItems:     toLineItems(req.LineItems),
		DueDate:       req.DueDate,
		Notes:         req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPaymentResponse(p))
}

// InvoicePDF handles GET /v1/payments/:id/invoice.pdf.
//
// @Summary      Download the invoice PDF
// @Tags         invoices
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "Payment ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  errorResponse
// @Router       /v1/payments/{id}/invoice.pdf [get]
func (h *PaymentHandler) InvoicePDF(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	file, err := h.invoices.RenderPDF(c.Request().Context(), owner, c.Param("id"))
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+file.Filename+`"`)
	return c.Blob(http.StatusOK, "application/pdf", file.Content)
}

// SendInvoice handles POST /v1/payments/:id/invoice/send.
//
// @Summary      Email the invoice to the client
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true   "Payment ID"
// @Param        body  body      sendEmailRequest  false  "Ad-hoc recipient and message"
// @Success      202   {object}  paymentResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/payments/{id}/invoice/send [post]
func (h *PaymentHandler) SendInvoice(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req sendEmailRequest
	if c.Request().ContentLength > 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
	}

	p, err := h.invoices.Send(c.Request().Context(), ports.SendInvoiceInput{
		OwnerID:   owner,
		PaymentID: c.Param("id"),
		Email:     strings.TrimSpace(req.Email),
		SaveEmail: req.SaveEmail,
		Message:   req.Message,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, toPaymentResponse(p))
}
