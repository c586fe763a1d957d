// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"database/sql"
	"fmt"

	"codeberg.org/oliverandrich/tokenapi/internal/config"
	"codeberg.org/oliverandrich/tokenapi/internal/database"
	"github.com/urfave/cli/v3"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "Apply all pending migrations",
				Action: withSchema(database.RunMigrations),
			},
			{
				Name:   "down",
				Usage:  "Roll back the last migration",
				Action: withSchema(database.MigrateDown),
			},
			{
				Name:   "reset",
				Usage:  "Roll back all migrations",
				Action: withSchema(database.MigrateReset),
			},
			{
				Name:   "status",
				Usage:  "Print the current schema version",
				Action: withSchema(nil),
			},
		},
	}
}

// withSchema runs fn against a connection without automatic migrations and
// prints the resulting schema version.
func withSchema(fn func(ctx context.Context, db *sql.DB) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg := config.NewFromCLI(cmd)

		db, err := database.Connect(ctx, cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() {
			_ = db.Close()
		}()

		if fn != nil {
			if err := fn(ctx, db.DB); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
		}

		version, err := database.Version(ctx, db.DB)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		_, err = fmt.Fprintf(cmd.Root().Writer, "schema version: %d\n", version)
		return err
	}
}
