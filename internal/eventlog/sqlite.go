package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SQLiteRepository stores the journal in the event_log table of the identity database
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteRepository creates a repository on db. The schema comes from the identity migrations.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) LogEvent(ctx context.Context, eventType, userID string, payload json.RawMessage) error {
	var uid sql.NullString
	if userID != "" {
		uid = sql.NullString{String: userID, Valid: true}
	}
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (event_type, user_id, payload, created_at) VALUES (?, ?, ?, ?)`,
		eventType, uid, string(payload), r.now().UTC().UnixMilli()); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetEventsByUser(ctx context.Context, userID string, limit int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event_type, user_id, payload, created_at FROM event_log
		 WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			uid     sql.NullString
			payload string
			created int64
		)
		if err := rows.Scan(&e.ID, &e.EventType, &uid, &payload, &created); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.UserID = uid.String
		e.Payload = json.RawMessage(payload)
		e.CreatedAt = time.UnixMilli(created).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	return entries, nil
}

func (r *SQLiteRepository) CleanupOldEvents(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM event_log WHERE created_at < ?`, cutoff.UTC().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("delete events: %w", err)
	}
	return res.RowsAffected()
}
