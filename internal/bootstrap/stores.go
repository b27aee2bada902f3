package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/CozyCasino_Go/internal/config"
	"github.com/osse101/CozyCasino_Go/internal/eventlog"
	"github.com/osse101/CozyCasino_Go/internal/identity"
)

// Stores holds the durable storage of a front-end. Identity and journal share one SQLite file.
type Stores struct {
	DB       *identity.SQLiteDB
	EventLog eventlog.Repository
}

// OpenStores opens the identity database and applies its migrations
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	db, err := identity.Open(ctx, cfg.IdentityDBPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenIdentity, err)
	}
	slog.Info(LogMsgStoresOpened, "path", cfg.IdentityDBPath)

	return &Stores{
		DB:       db,
		EventLog: eventlog.NewSQLiteRepository(db.DB()),
	}, nil
}
