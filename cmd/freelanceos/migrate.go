package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	mongodb "github.com/freelanceos/backend/internal/infrastructure/db/mongo"
	"github.com/freelanceos/backend/internal/infrastructure/db/mongo/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage MongoDB indexes and schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMongo(cmd.Context(), func(run migrationRunner) error {
			if err := migrations.Up(run.client, run.database); err != nil {
				return err
			}
			fmt.Println("Migrations applied.")
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMongo(cmd.Context(), func(run migrationRunner) error {
			if err := migrations.Down(run.client, run.database); err != nil {
				return err
			}
			fmt.Println("Rolled back one migration.")
			return nil
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMongo(cmd.Context(), func(run migrationRunner) error {
			v, dirty, err := migrations.Version(run.client, run.database)
			if err != nil {
				return err
			}
			fmt.Printf("Version: %d", v)
			if dirty {
				fmt.Print(" (dirty)")
			}
			fmt.Println()
			return nil
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
}

type migrationRunner struct {
	client   *mongo.Client
	database string
}

// withMongo opens a MongoDB connection for the duration of fn. Migrations do
// not need Redis or the service graph.
func withMongo(ctx context.Context, fn func(migrationRunner) error) error {
	cfg, _ := setup()
	client, _, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return fmt.Errorf("connecting to mongo: %w", err)
	}
	defer client.Disconnect(context.Background())
	return fn(migrationRunner{client: client, database: cfg.Mongo.Database})
}
