package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS guestlist_drafts (
		event_id   TEXT        NOT NULL,
		owner_id   TEXT        NOT NULL,
		delta      JSONB       NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (event_id, owner_id)
	)`,
	`CREATE INDEX IF NOT EXISTS guestlist_drafts_updated_at_idx ON guestlist_drafts (updated_at)`,
}

// EnsureSchema creates the tables used by this package when they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
