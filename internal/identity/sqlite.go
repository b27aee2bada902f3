package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/osse101/CozyCasino_Go/internal/domain"
	"github.com/osse101/CozyCasino_Go/internal/identity/migrations"
	"github.com/osse101/CozyCasino_Go/internal/logger"
)

// SQLiteDB is the identity database shared by every namespace
type SQLiteDB struct {
	sqlDB *sql.DB
}

// Open opens the SQLite identity database at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*SQLiteDB, error) {
	sqlDB, err := OpenSQL(ctx, path)
	if err != nil {
		return nil, err
	}

	provider, err := NewMigrationProvider(sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	for _, r := range results {
		logger.FromContext(ctx).Debug("Applied identity migration", "source", r.Source.Path, "duration", r.Duration)
	}

	return &SQLiteDB{sqlDB: sqlDB}, nil
}

// OpenSQL opens and pings the database file without touching its schema
func OpenSQL(ctx context.Context, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New(ErrMsgPathRequired)
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection serializes writers and avoids SQLITE_BUSY between them
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return sqlDB, nil
}

// NewMigrationProvider returns a goose provider over the embedded migrations
func NewMigrationProvider(sqlDB *sql.DB) (*goose.Provider, error) {
	provider, err := goose.NewProvider(goose.DialectSQLite3, sqlDB, migrations.FS)
	if err != nil {
		return nil, fmt.Errorf("create migration provider: %w", err)
	}
	return provider, nil
}

// Close closes the SQLite handle.
func (db *SQLiteDB) Close() error {
	if db == nil || db.sqlDB == nil {
		return nil
	}
	return db.sqlDB.Close()
}

// DB returns the underlying handle for stores sharing the file
func (db *SQLiteDB) DB() *sql.DB {
	return db.sqlDB
}

// Namespaces lists every namespace holding identity values
func (db *SQLiteDB) Namespaces(ctx context.Context) ([]string, error) {
	rows, err := db.sqlDB.QueryContext(ctx, `SELECT DISTINCT namespace FROM identity_kv ORDER BY namespace`)
	if err != nil {
		return nil, fmt.Errorf("list namespaces: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var ns string
		if err := rows.Scan(&ns); err != nil {
			return nil, fmt.Errorf("scan namespace: %w", err)
		}
		out = append(out, ns)
	}
	return out, rows.Err()
}

// Store returns the identity store of namespace
func (db *SQLiteDB) Store(namespace string) (*SQLiteStore, error) {
	if strings.TrimSpace(namespace) == "" {
		return nil, errors.New(ErrMsgNamespaceRequired)
	}
	return &SQLiteStore{db: db.sqlDB, namespace: namespace}, nil
}

// SQLiteStore is a Store backed by one namespace of the identity database
type SQLiteStore struct {
	db        *sql.DB
	namespace string
}

// Namespace returns the namespace this store reads and writes
func (s *SQLiteStore) Namespace() string {
	return s.namespace
}

// Load returns the saved identity. A namespace missing either value has no identity.
func (s *SQLiteStore) Load(ctx context.Context) (domain.Identity, bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM identity_kv WHERE namespace = ? AND key IN (?, ?)`,
		s.namespace, KeyUserID, KeyDisplayName)
	if err != nil {
		return domain.Identity{}, false, fmt.Errorf("load identity: %w", err)
	}
	defer rows.Close()

	var id domain.Identity
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return domain.Identity{}, false, fmt.Errorf("scan identity: %w", err)
		}
		switch key {
		case KeyUserID:
			id.UserID = value
		case KeyDisplayName:
			id.DisplayName = value
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Identity{}, false, fmt.Errorf("load identity: %w", err)
	}

	if id.UserID == "" || id.DisplayName == "" {
		return domain.Identity{}, false, nil
	}
	return id, true, nil
}

// Save writes both values in one transaction
func (s *SQLiteStore) Save(ctx context.Context, userID, displayName string) error {
	if err := validate(userID, displayName); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin identity tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().UnixMilli()
	for _, kv := range [][2]string{{KeyUserID, userID}, {KeyDisplayName, displayName}} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO identity_kv (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			s.namespace, kv[0], kv[1], now); err != nil {
			return fmt.Errorf("save identity %s: %w", kv[0], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit identity: %w", err)
	}
	return nil
}

// Clear removes the identity of this namespace
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM identity_kv WHERE namespace = ?`, s.namespace); err != nil {
		return fmt.Errorf("clear identity: %w", err)
	}
	return nil
}
