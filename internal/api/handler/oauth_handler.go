package handler

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"

	"github.com/freelanceos/backend/internal/core/ports"
)

// GoogleOAuthConfig holds the credentials of the Google OAuth app.
type GoogleOAuthConfig struct {
	ClientID      string
	ClientSecret  string
	CallbackURL   string
	SessionSecret string
	SecureCookie  bool
}

// ConfigureGoogleOAuth registers the Google provider with goth and backs
// gothic's state with a cookie session store. It reports whether OAuth is
// enabled.
func ConfigureGoogleOAuth(cfg GoogleOAuthConfig) bool {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return false
	}

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.MaxAge(600)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = cfg.SecureCookie
	store.Options.SameSite = http.SameSiteLaxMode
	gothic.Store = store

	goth.UseProviders(google.New(cfg.ClientID, cfg.ClientSecret, cfg.CallbackURL, "email", "profile"))
	return true
}

// OAuthHandler drives the provider redirect dance and turns the provider
// identity into a session token.
type OAuthHandler struct {
	authService ports.AuthService
	begin       func(w http.ResponseWriter, r *http.Request)
	complete    func(w http.ResponseWriter, r *http.Request) (goth.User, error)
}

func NewOAuthHandler(authService ports.AuthService) *OAuthHandler {
	return &OAuthHandler{
		authService: authService,
		begin:       gothic.BeginAuthHandler,
		complete:    gothic.CompleteUserAuth,
	}
}

// Begin redirects the browser to the provider's consent screen.
//
// @Summary      Start Google sign-in
// @Tags         auth
// @Success      307
// @Router       /auth/google [get]
func (h *OAuthHandler) Begin(c echo.Context) error {
	h.begin(c.Response(), withProvider(c.Request(), "google"))
	return nil
}

// Callback completes the provider flow and signs the user in.
//
// @Summary      Google sign-in callback
// @Tags         auth
// @Produce      json
// @Success      200  {object}  authResponse
// @Failure      400  {object}  errorResponse
// @Router       /auth/google/callback [get]
func (h *OAuthHandler) Callback(c echo.Context) error {
	gu, err := h.complete(c.Response(), withProvider(c.Request(), "google"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "oauth sign-in failed")
	}
	if gu.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "provider did not return an email address")
	}

	res, err := h.authService.LoginWithProvider(c.Request().Context(), ports.ProviderIdentity{
		Provider:   gu.Provider,
		ProviderID: gu.UserID,
		Email:      gu.Email,
		Name:       gu.Name,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toAuthResponse(res))
}

// withProvider adds the provider query parameter gothic reads the provider
// name from.
func withProvider(r *http.Request, provider string) *http.Request {
	req := r.Clone(r.Context())
	q := req.URL.Query()
	q.Set("provider", provider)
	req.URL.RawQuery = q.Encode()
	return req
}
