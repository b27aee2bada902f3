package main

import (
	"context"

	"github.com/osse101/CozyCasino_Go/internal/config"
	"github.com/osse101/CozyCasino_Go/internal/identity"
)

const identityUsage = "identity <list|show <namespace>|clear <namespace>>"

type IdentityCommand struct {
	cfg *config.Config
}

func (c *IdentityCommand) Name() string {
	return "identity"
}

func (c *IdentityCommand) Description() string {
	return "Inspect or clear saved identities (list, show, clear)"
}

func (c *IdentityCommand) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError(identityUsage)
	}

	db, err := identity.Open(ctx, c.cfg.IdentityDBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	switch {
	case args[0] == "list":
		return listIdentities(ctx, db)
	case args[0] == "show" && len(args) == 2:
		return showIdentity(ctx, db, args[1])
	case args[0] == "clear" && len(args) == 2:
		return clearIdentity(ctx, db, args[1])
	default:
		return usageError(identityUsage)
	}
}

func listIdentities(ctx context.Context, db *identity.SQLiteDB) error {
	namespaces, err := db.Namespaces(ctx)
	if err != nil {
		return err
	}
	if len(namespaces) == 0 {
		PrintInfo("No saved identities")
		return nil
	}
	PrintHeader("Saved identities")
	for _, ns := range namespaces {
		if err := showIdentity(ctx, db, ns); err != nil {
			return err
		}
	}
	return nil
}

func showIdentity(ctx context.Context, db *identity.SQLiteDB, namespace string) error {
	store, err := db.Store(namespace)
	if err != nil {
		return err
	}
	id, ok, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if !ok {
		PrintWarning("%s: no identity", namespace)
		return nil
	}
	PrintInfo("%s: %s (%s)", namespace, id.DisplayName, id.UserID)
	return nil
}

func clearIdentity(ctx context.Context, db *identity.SQLiteDB, namespace string) error {
	store, err := db.Store(namespace)
	if err != nil {
		return err
	}
	if err := store.Clear(ctx); err != nil {
		return err
	}
	PrintSuccess("Cleared identity of %s", namespace)
	return nil
}
