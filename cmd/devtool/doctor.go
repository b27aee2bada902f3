package main

import (
	"context"
	"errors"

	"github.com/osse101/CozyCasino_Go/internal/config"
	"github.com/osse101/CozyCasino_Go/internal/identity"
)

type DoctorCommand struct {
	cfg *config.Config
}

func (c *DoctorCommand) Name() string {
	return "doctor"
}

func (c *DoctorCommand) Description() string {
	return "Diagnose configuration, database and backend"
}

func (c *DoctorCommand) Run(ctx context.Context, args []string) error {
	PrintHeader("Running Doctor...")

	hasError := false

	for _, w := range c.cfg.Warnings() {
		PrintWarning("%s", w)
	}
	if err := c.cfg.ValidateDiscord(); err != nil {
		PrintInfo("Discord front-end not configured: %v", err)
	} else {
		PrintSuccess("Discord configuration OK")
	}

	if err := c.checkDatabase(ctx); err != nil {
		PrintError("Database check failed: %v", err)
		hasError = true
	} else {
		PrintSuccess("Database OK")
	}

	backend := &CheckBackendCommand{cfg: c.cfg}
	if err := backend.Run(ctx, nil); err != nil {
		PrintError("Backend check failed: %v", err)
		hasError = true
	}

	if hasError {
		return errors.New("doctor found issues")
	}

	PrintSuccess("All systems operational!")
	return nil
}

func (c *DoctorCommand) checkDatabase(ctx context.Context) error {
	sqlDB, err := identity.OpenSQL(ctx, c.cfg.IdentityDBPath)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	pending, err := pendingMigrations(ctx, sqlDB)
	if err != nil {
		return err
	}
	if pending {
		PrintWarning("Identity database has pending migrations, run: devtool migrate up")
	}
	return nil
}
