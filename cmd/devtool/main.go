package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/CozyCasino_Go/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		PrintError("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	registry := newRegistry(cfg)
	if len(os.Args) < 2 {
		registry.PrintHelp()
		os.Exit(1)
	}

	cmd, ok := registry.Get(os.Args[1])
	if !ok {
		PrintError("Unknown command: %s", os.Args[1])
		registry.PrintHelp()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = cmd.Run(ctx, os.Args[2:])
	stop()
	if err != nil {
		PrintError("%s: %v", cmd.Name(), err)
		os.Exit(1)
	}
}

func newRegistry(cfg *config.Config) *Registry {
	r := NewRegistry()
	r.Register(&MigrateCommand{cfg: cfg})
	r.Register(&IdentityCommand{cfg: cfg})
	r.Register(&JournalCommand{cfg: cfg})
	r.Register(&CheckBackendCommand{cfg: cfg})
	r.Register(&DoctorCommand{cfg: cfg})
	return r
}

func usageError(usage string) error {
	return fmt.Errorf("usage: devtool %s", usage)
}
