package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/osse101/CozyCasino_Go/internal/config"
	"github.com/osse101/CozyCasino_Go/internal/identity"
)

const migrateUsage = "migrate <status|up|down>"

type MigrateCommand struct {
	cfg *config.Config
}

func (c *MigrateCommand) Name() string {
	return "migrate"
}

func (c *MigrateCommand) Description() string {
	return "Manage identity database migrations (status, up, down)"
}

func (c *MigrateCommand) Run(ctx context.Context, args []string) error {
	subcmd := "status"
	if len(args) > 0 {
		subcmd = args[0]
	}

	sqlDB, err := identity.OpenSQL(ctx, c.cfg.IdentityDBPath)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	provider, err := identity.NewMigrationProvider(sqlDB)
	if err != nil {
		return err
	}

	switch subcmd {
	case "status":
		return migrationStatus(ctx, provider)
	case "up":
		return migrateUp(ctx, provider)
	case "down":
		return migrateDown(ctx, provider)
	default:
		return usageError(migrateUsage)
	}
}

func migrationStatus(ctx context.Context, provider *goose.Provider) error {
	PrintHeader("Migration status")
	statuses, err := provider.Status(ctx)
	if err != nil {
		return fmt.Errorf("read migration status: %w", err)
	}
	for _, s := range statuses {
		if s.State == goose.StateApplied {
			PrintSuccess("%05d %s (applied %s)", s.Source.Version, s.Source.Path, s.AppliedAt.Format("2006-01-02 15:04"))
			continue
		}
		PrintWarning("%05d %s (pending)", s.Source.Version, s.Source.Path)
	}
	return nil
}

func migrateUp(ctx context.Context, provider *goose.Provider) error {
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if len(results) == 0 {
		PrintInfo("No pending migrations")
		return nil
	}
	for _, r := range results {
		PrintSuccess("Applied %s in %s", r.Source.Path, r.Duration)
	}
	return nil
}

func migrateDown(ctx context.Context, provider *goose.Provider) error {
	r, err := provider.Down(ctx)
	if err != nil {
		return fmt.Errorf("roll back migration: %w", err)
	}
	PrintSuccess("Rolled back %s", r.Source.Path)
	return nil
}

// pendingMigrations reports whether sqlDB is behind the embedded migrations
func pendingMigrations(ctx context.Context, sqlDB *sql.DB) (bool, error) {
	provider, err := identity.NewMigrationProvider(sqlDB)
	if err != nil {
		return false, err
	}
	return provider.HasPending(ctx)
}
