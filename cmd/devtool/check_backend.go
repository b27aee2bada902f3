package main

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/CozyCasino_Go/internal/client"
	"github.com/osse101/CozyCasino_Go/internal/config"
)

const backendCheckTimeout = 10 * time.Second

type CheckBackendCommand struct {
	cfg *config.Config
}

func (c *CheckBackendCommand) Name() string {
	return "check-backend"
}

func (c *CheckBackendCommand) Description() string {
	return "Check that the casino backend answers its warm-up route"
}

func (c *CheckBackendCommand) Run(ctx context.Context, args []string) error {
	PrintHeader("Checking backend at " + c.cfg.BackendURL)

	ctx, cancel := context.WithTimeout(ctx, backendCheckTimeout)
	defer cancel()

	start := time.Now()
	if err := client.NewAPIClient(c.cfg.BackendURL).WarmUp(ctx); err != nil {
		if code := client.StatusCode(err); code != 0 {
			return fmt.Errorf("backend answered with status %d", code)
		}
		return fmt.Errorf("backend unreachable: %w", err)
	}
	PrintSuccess("Backend ready (%s)", time.Since(start).Round(time.Millisecond))
	return nil
}
