package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/freelanceos/backend/internal/api"
	"github.com/freelanceos/backend/internal/api/handler"
	"github.com/freelanceos/backend/internal/app"
	mongodb "github.com/freelanceos/backend/internal/infrastructure/db/mongo"
	"github.com/freelanceos/backend/internal/infrastructure/db/mongo/migrations"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, email workers and overdue sweep schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := setup()
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.Close(context.Background())

		if autoMigrate, _ := cmd.Flags().GetBool("migrate"); autoMigrate {
			if err := migrations.Up(a.Mongo, cfg.Mongo.Database); err != nil {
				return err
			}
			log.Info().Msg("migrations applied")
		}

		a.Start(ctx)

		s := a.Services
		e := api.NewRouter(api.Dependencies{
			Auth:      s.Auth,
			MFA:       s.MFA,
			Settings:  s.Settings,
			Clients:   s.Clients,
			Projects:  s.Projects,
			Payments:  s.Payments,
			Invoices:  s.Invoices,
			Reminders: s.Reminders,
			Scopes:    s.Scopes,
			Dashboard: s.Dashboard,
			Timeline:  s.Timeline,
			JWTSecret: cfg.JWTSecret,
			GoogleOAuth: handler.GoogleOAuthConfig{
				ClientID:      cfg.OAuth.GoogleClientID,
				ClientSecret:  cfg.OAuth.GoogleClientSecret,
				CallbackURL:   cfg.OAuth.GoogleCallbackURL,
				SessionSecret: cfg.SessionSecret,
				SecureCookie:  cfg.IsProduction(),
			},
			Probes: map[string]func(context.Context) error{
				"mongodb": func(ctx context.Context) error { return mongodb.Ping(ctx, a.DB) },
				"redis":   func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() },
			},
			Logger: log,
		})

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
			if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = e.Shutdown(shutdownCtx)
		if derr := a.Drain(shutdownCtx); derr != nil {
			log.Warn().Err(derr).Msg("email queue not fully drained")
		} else {
			log.Info().Msg("email queue drained")
		}
		return err
	},
}

func init() {
	serveCmd.Flags().Bool("migrate", false, "apply pending migrations before serving")
}
