package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Entry is one row of the audit log: a record-mutation event as observed on
// the queue.
type Entry struct {
	ID         int64           `db:"id"`
	EventType  string          `db:"event_type"`
	Entity     string          `db:"entity"`
	EntityID   int64           `db:"entity_id"`
	Payload    json.RawMessage `db:"payload"`
	OccurredAt time.Time       `db:"occurred_at"`
	RecordedAt time.Time       `db:"recorded_at"`
}

// Storage handles all database operations for the audit service
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the audit_log table if it does not exist.
func (s *Storage) EnsureSchema(ctx context.Context) error {
	stmt := `
		CREATE TABLE IF NOT EXISTS audit_log (
			id          BIGSERIAL PRIMARY KEY,
			event_type  VARCHAR(50) NOT NULL,
			entity      VARCHAR(20) NOT NULL,
			entity_id   BIGINT NOT NULL,
			payload     JSONB,
			occurred_at TIMESTAMPTZ NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`

	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to ensure audit schema: %w", err)
	}

	return nil
}

// InsertEntry records one audit entry.
func (s *Storage) InsertEntry(ctx context.Context, entry *Entry) error {
	query := `
		INSERT INTO audit_log (event_type, entity, entity_id, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, recorded_at
	`

	var payload interface{}
	if len(entry.Payload) > 0 {
		payload = []byte(entry.Payload)
	}

	err := s.db.QueryRowxContext(
		ctx,
		query,
		entry.EventType,
		entry.Entity,
		entry.EntityID,
		payload,
		entry.OccurredAt,
	).Scan(&entry.ID, &entry.RecordedAt)

	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}

	s.logger.Debug("Audit entry recorded",
		slog.Int64("entry_id", entry.ID),
		slog.String("event_type", entry.EventType),
	)

	return nil
}
