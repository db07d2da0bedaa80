package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

const defaultUpcomingDays = 7

type ReminderHandler struct {
	service ports.ReminderService
}

func NewReminderHandler(service ports.ReminderService) *ReminderHandler {
	return &ReminderHandler{service: service}
}

// Create handles POST /v1/reminders.
//
// @Summary      Create a reminder
// @Tags         reminders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReminderRequest  true  "Reminder"
// @Success      201   {object}  reminderResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/reminders [post]
func (h *ReminderHandler) Create(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req createReminderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	r, err := h.service.Create(c.Request().Context(), ports.CreateReminderInput{
		OwnerID:      owner,
		ProjectID:    req.ProjectID,
		ClientID:     req.ClientID,
		PaymentID:    req.PaymentID,
		Title:        req.Title,
		Message:      req.Message,
		ReminderDate: req.ReminderDate,
		ReminderType: domain.ReminderType(req.ReminderType),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toReminderResponse(r))
}

// List handles GET /v1/reminders.
//
// @Summary      List reminders
// @Tags         reminders
// @Produce      json
// @Security     BearerAuth
// @Param        project_id    query     string  false  "Project ID"
// @Param        client_id     query     string  false  "Client ID"
// @Param        include_sent  query     bool    false  "Include completed reminders"
// @Success      200           {object}  listResponse[reminderResponse]
// @Router       /v1/reminders [get]
func (h *ReminderHandler) List(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	includeSent, _ := strconv.ParseBool(c.QueryParam("include_sent"))

	reminders, err := h.service.List(c.Request().Context(), ports.ReminderFilter{
		OwnerID:     owner,
		ProjectID:   c.QueryParam("project_id"),
		ClientID:    c.QueryParam("client_id"),
		PaymentID:   c.QueryParam("payment_id"),
		IncludeSent: includeSent,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(toReminderResponses(reminders)))
}

// Due handles GET /v1/reminders/due.
//
// @Summary      Reminders whose date has been reached
// @Tags         reminders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[reminderResponse]
// @Router       /v1/reminders/due [get]
func (h *ReminderHandler) Due(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	reminders, err := h.service.Due(c.Request().Context(), owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(toReminderResponses(reminders)))
}

// Upcoming handles GET /v1/reminders/upcoming.
//
// @Summary      Reminders falling within the next days
// @Tags         reminders
// @Produce      json
// @Security     BearerAuth
// @Param        days  query     int  false  "Window in days (default 7)"
// @Success      200   {object}  listResponse[reminderResponse]
// @Failure      400   {object}  errorResponse
// @Router       /v1/reminders/upcoming [get]
func (h *ReminderHandler) Upcoming(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	days := defaultUpcomingDays
	if raw := c.QueryParam("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days <= 0 || days > 365 {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be between 1 and 365")
		}
	}

	reminders, err := h.service.Upcoming(c.Request().Context(), owner, days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(toReminderResponses(reminders)))
}

// Get handles GET /v1/reminders/:id.
//
// @Summary      Get a reminder
// @Tags         reminders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reminder ID"
// @Success      200  {object}  reminderResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/reminders/{id} [get]
func (h *ReminderHandler) Get(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	r, err := h.service.Get(c.Request().Context(), owner, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReminderResponse(r))
}

// Update handles PATCH /v1/reminders/:id.
//
// @Summary      Update a reminder
// @Tags         reminders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Reminder ID"
// @Param        body  body      updateReminderRequest  true  "Fields to change"
// @Success      200   {object}  reminderResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/reminders/{id} [patch]
func (h *ReminderHandler) Update(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req updateReminderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	r, err := h.service.Update(c.Request().Context(), ports.UpdateReminderInput{
		OwnerID:      owner,
		ID:           c.Param("id"),
		Title:        req.Title,
		Message:      req.Message,
		ReminderDate: req.ReminderDate,
		ReminderType: reminderTypePtr(req.ReminderType),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReminderResponse(r))
}

// Delete handles DELETE /v1/reminders/:id.
//
// @Summary      Delete a reminder
// @Tags         reminders
// @Security     BearerAuth
// @Param        id   path  string  true  "Reminder ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/reminders/{id} [delete]
func (h *ReminderHandler) Delete(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), owner, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkDone handles POST /v1/reminders/:id/done.
//
// @Summary      Mark a reminder as done
// @Tags         reminders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reminder ID"
// @Success      200  {object}  reminderResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/reminders/{id}/done [post]
func (h *ReminderHandler) MarkDone(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	r, err := h.service.MarkDone(c.Request().Context(), owner, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReminderResponse(r))
}

// Snooze handles POST /v1/reminders/:id/snooze.
//
// @Summary      Snooze a reminder
// @Tags         reminders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Reminder ID"
// @Param        body  body      snoozeRequest  true  "Days to push the reminder"
// @Success      200   {object}  reminderResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/reminders/{id}/snooze [post]
func (h *ReminderHandler) Snooze(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req snoozeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	r, err := h.service.Snooze(c.Request().Context(), owner, c.Param("id"), req.Days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReminderResponse(r))
}

// FollowUp handles POST /v1/reminders/:id/follow-up.
//
// @Summary      Email the linked client and complete the reminder
// @Tags         reminders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true   "Reminder ID"
// @Param        body  body      sendEmailRequest  false  "Ad-hoc recipient, subject and message"
// @Success      202   {object}  reminderResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/reminders/{id}/follow-up [post]
func (h *ReminderHandler) FollowUp(c echo.Context) error {
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

	r, err := h.service.SendFollowUp(c.Request().Context(), ports.SendFollowUpInput{
		OwnerID:    owner,
		ReminderID: c.Param("id"),
		Email:      strings.TrimSpace(req.Email),
		SaveEmail:  req.SaveEmail,
		Subject:    req.Subject,
		Message:    req.Message,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, toReminderResponse(r))
}
