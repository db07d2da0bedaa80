package api

import (
	"context"
	"sync"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/freelanceos/backend/docs"
	"github.com/freelanceos/backend/internal/api/handler"
	"github.com/freelanceos/backend/internal/api/middleware"
	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

// Dependencies are the services and probes the HTTP layer needs.
type Dependencies struct {
	Auth      ports.AuthService
	MFA       ports.MFAService
	Settings  ports.SettingsService
	Clients   ports.ClientService
	Projects  ports.ProjectService
	Payments  ports.PaymentService
	Invoices  ports.InvoiceService
	Reminders ports.ReminderService
	Scopes    ports.ScopeService
	Dashboard ports.DashboardService
	Timeline  ports.TimelineService

	JWTSecret   string
	GoogleOAuth handler.GoogleOAuthConfig
	Probes      map[string]func(ctx context.Context) error
	Logger      zerolog.Logger
}

var (
	httpMetricsOnce sync.Once
	httpMetricsMW   echo.MiddlewareFunc
)

// httpMetrics registers the request collectors once per process.
func httpMetrics() echo.MiddlewareFunc {
	httpMetricsOnce.Do(func() {
		httpMetricsMW = echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace: "freelanceos",
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics"
			},
		})
	})
	return httpMetricsMW
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(httpMetrics())

	// --- Ops ---
	pingers := make(map[string]handler.Pinger, len(d.Probes))
	for name, fn := range d.Probes {
		pingers[name] = handler.PingFunc(fn)
	}
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(pingers).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/mfa/verify", authHandler.VerifyMFA)

	if handler.ConfigureGoogleOAuth(d.GoogleOAuth) {
		oauthHandler := handler.NewOAuthHandler(d.Auth)
		e.GET("/auth/google", oauthHandler.Begin)
		e.GET("/auth/google/callback", oauthHandler.Callback)
	}

	scopeHandler := handler.NewScopeHandler(d.Scopes)
	e.GET("/scope/share/:token", scopeHandler.Shared)

	// --- Authenticated API ---
	v1 := e.Group("/v1", middleware.Auth(d.JWTSecret))

	clientHandler := handler.NewClientHandler(d.Clients)
	clients := v1.Group("/clients")
	clients.POST("", clientHandler.Create)
	clients.GET("", clientHandler.List)
	clients.POST("/import", clientHandler.Import)
	clients.GET("/:id", clientHandler.Get)
	clients.PATCH("/:id", clientHandler.Update)
	clients.DELETE("/:id", clientHandler.Delete)
	clients.POST("/:id/contact", clientHandler.LogContact)

	projectHandler := handler.NewProjectHandler(d.Projects, d.Payments, d.Timeline)
	projects := v1.Group("/projects")
	projects.POST("", projectHandler.Create)
	projects.GET("", projectHandler.List)
	projects.GET("/:id", projectHandler.Get)
	projects.PATCH("/:id", projectHandler.Update)
	projects.DELETE("/:id", projectHandler.Delete)
	projects.GET("/:id/timeline", projectHandler.Timeline)
	projects.POST("/:id/payments/check-overdue", projectHandler.CheckOverdue)
	projects.POST("/:id/scopes", scopeHandler.Create)
	projects.GET("/:id/scopes", scopeHandler.List)
	projects.GET("/:id/scopes/latest", scopeHandler.Latest)
	projects.GET("/:id/scopes/:version", scopeHandler.Get)

	paymentHandler := handler.NewPaymentHandler(d.Payments, d.Invoices)
	payments := v1.Group("/payments")
	payments.POST("", paymentHandler.Create)
	payments.GET("", paymentHandler.List)
	payments.GET("/:id", paymentHandler.Get)
	payments.PATCH("/:id", paymentHandler.Update)
	payments.PATCH("/:id/status", paymentHandler.UpdateStatus)
	payments.DELETE("/:id", paymentHandler.Delete)
	payments.POST("/:id/invoice", paymentHandler.GenerateInvoice)
	payments.GET("/:id/invoice.pdf", paymentHandler.InvoicePDF)
	payments.POST("/:id/invoice/send", paymentHandler.SendInvoice)

	reminderHandler := handler.NewReminderHandler(d.Reminders)
	reminders := v1.Group("/reminders")
	reminders.POST("", reminderHandler.Create)
	reminders.GET("", reminderHandler.List)
	reminders.GET("/due", reminderHandler.Due)
	reminders.GET("/upcoming", reminderHandler.Upcoming)
	reminders.GET("/:id", reminderHandler.Get)
	reminders.PATCH("/:id", reminderHandler.Update)
	reminders.DELETE("/:id", reminderHandler.Delete)
	reminders.POST("/:id/done", reminderHandler.MarkDone)
	reminders.POST("/:id/snooze", reminderHandler.Snooze)
	reminders.POST("/:id/follow-up", reminderHandler.FollowUp)

	dashboardHandler := handler.NewDashboardHandler(d.Dashboard, d.Timeline)
	v1.GET("/dashboard", dashboardHandler.Summary)
	v1.GET("/dashboard/revenue", dashboardHandler.Revenue)
	v1.GET("/dashboard/at-risk", dashboardHandler.AtRisk)
	v1.GET("/timeline", dashboardHandler.Timeline)

	accountHandler := handler.NewAccountHandler(d.Settings, d.MFA)
	account := v1.Group("/account")
	account.GET("/settings", accountHandler.GetSettings)
	account.PUT("/settings", accountHandler.UpdateSettings)
	account.POST("/mfa/enroll", accountHandler.EnrollMFA)
	account.POST("/mfa/verify", accountHandler.VerifyMFA)
	account.POST("/mfa/disable", accountHandler.DisableMFA)

	adminHandler := handler.NewAdminHandler(d.Payments)
	admin := v1.Group("/admin", middleware.RBAC(domain.RoleAdmin))
	admin.POST("/payments/sweep-overdue", adminHandler.SweepOverdue)

	return e
}
