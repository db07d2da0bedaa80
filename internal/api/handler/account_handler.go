package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freelanceos/backend/internal/core/ports"
)

// AccountHandler serves the caller's settings and MFA enrollment.
type AccountHandler struct {
	settings ports.SettingsService
	mfa      ports.MFAService
}

func NewAccountHandler(settings ports.SettingsService, mfa ports.MFAService) *AccountHandler {
	return &AccountHandler{settings: settings, mfa: mfa}
}

// GetSettings handles GET /v1/account/settings.
//
// @Summary      Branding and invoice defaults
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  settingsResponse
// @Router       /v1/account/settings [get]
func (h *AccountHandler) GetSettings(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	s, err := h.settings.Get(c.Request().Context(), owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSettingsResponse(s))
}

// UpdateSettings handles PUT /v1/account/settings. Omitted fields keep their
// current value.
//
// @Summary      Update branding and invoice defaults
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      settingsRequest  true  "Settings"
// @Success      200   {object}  settingsResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/account/settings [put]
func (h *AccountHandler) UpdateSettings(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req settingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	s, err := h.settings.Update(c.Request().Context(), ports.UpdateSettingsInput{
		UserID:          owner,
		BusinessName:    req.BusinessName,
		BusinessAddress: req.BusinessAddress,
		BusinessEmail:   req.BusinessEmail,
		LogoURL:         req.LogoURL,
		AccentColor:     req.AccentColor,
		DefaultCurrency: req.DefaultCurrency,
		InvoicePrefix:   req.InvoicePrefix,
		InvoiceFooter:   req.InvoiceFooter,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSettingsResponse(s))
}

// EnrollMFA handles POST /v1/account/mfa/enroll.
//
// @Summary      Start TOTP enrollment
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  mfaEnrollResponse
// @Router       /v1/account/mfa/enroll [post]
func (h *AccountHandler) EnrollMFA(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	enrollment, err := h.mfa.Enroll(c.Request().Context(), owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEnrollResponse(enrollment))
}

// VerifyMFA handles POST /v1/account/mfa/verify.
//
// @Summary      Activate TOTP with a first code
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      mfaCodeRequest  true  "TOTP code"
// @Success      200   {object}  mfaStatusResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/account/mfa/verify [post]
func (h *AccountHandler) VerifyMFA(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req mfaCodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.mfa.Activate(c.Request().Context(), owner, req.Code); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mfaStatusResponse{Enabled: true})
}

// DisableMFA handles POST /v1/account/mfa/disable.
//
// @Summary      Turn TOTP off
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      mfaCodeRequest  true  "Current TOTP code"
// @Success      200   {object}  mfaStatusResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/account/mfa/disable [post]
func (h *AccountHandler) DisableMFA(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req mfaCodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.mfa.Disable(c.Request().Context(), owner, req.Code); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mfaStatusResponse{Enabled: false})
}
