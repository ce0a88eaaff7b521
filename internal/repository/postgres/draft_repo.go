package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"guestlisteditor/internal/domain"
)

const undefinedTable = "42P01"

type draftRepository struct {
	DB *sql.DB
}

// NewDraftRepository returns a domain.DraftRepository implemented with Postgres.
func NewDraftRepository(db *sql.DB) domain.DraftRepository {
	return &draftRepository{DB: db}
}

func (r *draftRepository) Save(ctx context.Context, draft *domain.Draft) error {
	delta, err := json.Marshal(draft.Delta)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO guestlist_drafts (event_id, owner_id, delta, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (event_id, owner_id) DO UPDATE SET delta = EXCLUDED.delta, updated_at = EXCLUDED.updated_at`,
		draft.EventID, draft.OwnerID, delta, draft.UpdatedAt)
	if err != nil {
		return wrapSchemaErr("save draft", err)
	}
	return nil
}

func (r *draftRepository) Get(ctx context.Context, eventID, ownerID string) (*domain.Draft, error) {
	draft := &domain.Draft{EventID: eventID, OwnerID: ownerID}
	var delta []byte
	err := r.DB.QueryRowContext(ctx,
		`SELECT delta, updated_at FROM guestlist_drafts WHERE event_id = $1 AND owner_id = $2`,
		eventID, ownerID).Scan(&delta, &draft.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, wrapSchemaErr("get draft", err)
	}
	if err := json.Unmarshal(delta, &draft.Delta); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return draft, nil
}

func (r *draftRepository) Delete(ctx context.Context, eventID, ownerID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM guestlist_drafts WHERE event_id = $1 AND owner_id = $2`, eventID, ownerID)
	if err != nil {
		return wrapSchemaErr("delete draft", err)
	}
	return nil
}

func wrapSchemaErr(op string, err error) error {
	var perr *pq.Error
	if errors.As(err, &perr) && perr.Code == undefinedTable {
		return fmt.Errorf("%s: drafts table missing, run the migrate command: %w", op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
