package main

import (
	"context"
	"database/sql"
	root "driftblog"
	"driftblog/internal/config"
	"driftblog/pkg/logger"
	"driftblog/pkg/storage/postgres"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runMigrations applies the embedded goose migrations and brings the River
// queue schema up to the latest version. It is shared between the migrate
// subcommand and the serve startup sequence.
func runMigrations(ctx context.Context, strg *postgres.PgSQL) error {
	// goose migrations (application tables)
	goose.SetBaseFS(root.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("could not set goose dialect to postgres: %w", err)
	}
	if err := goose.Up(strg.DB.(*sql.DB), "migrations"); err != nil {
		return fmt.Errorf("could not migrate pgsql: %w", err)
	}

	// migrate riverqueue
	migrator, err := rivermigrate.New(riverdatabasesql.New(strg.DB.(*sql.DB)), nil)
	if err != nil {
		return fmt.Errorf("could not create river queue migrator: %w", err)
	}
	migrations := migrator.AllVersions()
	latestVersion := migrations[len(migrations)-1].Version
	currentVersion := 0
	currentMigrations, err := migrator.ExistingVersions(ctx)
	if err != nil {
		return fmt.Errorf("could not get existing river queue migrations: %w", err)
	}
	if len(currentMigrations) > 0 {
		currentVersion = currentMigrations[len(currentMigrations)-1].Version
	}
	if latestVersion > currentVersion {
		_, err = migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{
			TargetVersion: latestVersion,
		})
		if err != nil {
			return fmt.Errorf("could not migrate river queue database: %w", err)
		}
	}

	return nil
}

// migrateCommand constructs the 'migrate' subcommand that applies database
// migrations to the latest version using goose.
func migrateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrates database to the latest version",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			if err := runMigrations(ctx, strg); err != nil {
				logger.Fatal(ctx, "could not migrate database", zap.Error(err))
			}
		},
	}

	return cmd
}
