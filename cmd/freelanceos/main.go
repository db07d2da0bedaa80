// Command freelanceos runs the FreelanceOS API and its maintenance tasks.
//
// @title                       FreelanceOS API
// @version                     1.0
// @description                 Clients, projects, payments, invoices, reminders and scope versions for freelancers and small agencies.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/freelanceos/backend/internal/app"
	"github.com/freelanceos/backend/internal/pkg/config"
	"github.com/freelanceos/backend/pkg/logger"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "freelanceos",
	Short:         "FreelanceOS backend",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, sweepCmd, importClientsCmd, userCmd, keygenCmd)
}

// setup loads configuration and initialises the process logger.
func setup() (*config.Config, zerolog.Logger) {
	cfg := config.Load()
	log := logger.Init(logger.OptionsFor(cfg.Env, cfg.LogLevel))
	return cfg, log
}

// newApp connects to the backing stores and builds every service. The caller
// must defer Close.
func newApp(ctx context.Context) (*app.App, error) {
	cfg, log := setup()
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}
