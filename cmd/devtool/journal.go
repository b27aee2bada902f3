package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/osse101/CozyCasino_Go/internal/config"
	"github.com/osse101/CozyCasino_Go/internal/eventlog"
	"github.com/osse101/CozyCasino_Go/internal/identity"
)

const journalUsage = "journal <tail <user_id> [n]|prune [retention]>"

type JournalCommand struct {
	cfg *config.Config
}

func (c *JournalCommand) Name() string {
	return "journal"
}

func (c *JournalCommand) Description() string {
	return "Read or prune the play journal (tail, prune)"
}

func (c *JournalCommand) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError(journalUsage)
	}

	db, err := identity.Open(ctx, c.cfg.IdentityDBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	svc := eventlog.NewService(eventlog.NewSQLiteRepository(db.DB()))

	switch args[0] {
	case "tail":
		if len(args) < 2 || len(args) > 3 {
			return usageError(journalUsage)
		}
		limit := eventlog.DefaultHistoryLimit
		if len(args) == 3 {
			if limit, err = strconv.Atoi(args[2]); err != nil || limit < 1 {
				return usageError(journalUsage)
			}
		}
		return tailJournal(ctx, svc, args[1], limit)
	case "prune":
		retention := c.cfg.EventLogRetention
		if len(args) == 2 {
			if retention, err = time.ParseDuration(args[1]); err != nil {
				return fmt.Errorf("parse retention: %w", err)
			}
		}
		return pruneJournal(ctx, svc, retention)
	default:
		return usageError(journalUsage)
	}
}

func tailJournal(ctx context.Context, svc eventlog.Service, userID string, limit int) error {
	entries, err := svc.Recent(ctx, userID, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		PrintInfo("No journal entries for %s", userID)
		return nil
	}
	PrintHeader("Journal of " + userID)
	for _, e := range entries {
		PrintInfo("%s  %-24s %s", e.CreatedAt.Format(time.DateTime), e.EventType, e.Payload)
	}
	return nil
}

func pruneJournal(ctx context.Context, svc eventlog.Service, retention time.Duration) error {
	if retention <= 0 {
		PrintWarning("Retention is disabled, nothing pruned")
		return nil
	}
	deleted, err := svc.CleanupOldEvents(ctx, retention)
	if err != nil {
		return err
	}
	PrintSuccess("Pruned %d journal entries older than %s", deleted, retention)
	return nil
}
