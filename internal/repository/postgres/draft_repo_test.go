package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guestlisteditor/internal/domain"
)

func sampleDelta() domain.StagingDelta {
	group := domain.ID(-1)
	return domain.StagingDelta{
		UpdatedGuests: []domain.Guest{{ID: -2, Name: "Dee", GroupID: &group, Invitations: domain.Invitations{}}},
		UpdatedGroups: []domain.Group{{ID: -1, Title: "Neighbours", SizeLimit: -1, StatusID: 2}},
		RSVPsToDelete: []domain.RSVPDeletion{{GuestID: 1, SubeventID: 1}},
	}
}

func TestDraftRepository_Save(t *testing.T) {
	ctx := context.Background()
	updatedAt := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	delta, err := json.Marshal(sampleDelta())
	require.NoError(t, err)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr string
	}{
		{
			name: "upserts draft",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO guestlist_drafts .* ON CONFLICT \(event_id, owner_id\) DO UPDATE`).
					WithArgs("evt-1", "user-1", delta, updatedAt).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "missing table hints at migrate",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO guestlist_drafts`).
					WillReturnError(&pq.Error{Code: "42P01"})
			},
			wantErr: "run the migrate command",
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO guestlist_drafts`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: "save draft",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)

			repo := NewDraftRepository(db)
			err = repo.Save(ctx, &domain.Draft{EventID: "evt-1", OwnerID: "user-1", Delta: sampleDelta(), UpdatedAt: updatedAt})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDraftRepository_Get(t *testing.T) {
	ctx := context.Background()
	updatedAt := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	delta, err := json.Marshal(sampleDelta())
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery(`SELECT delta, updated_at FROM guestlist_drafts WHERE event_id = \$1 AND owner_id = \$2`).
			WithArgs("evt-1", "user-1").
			WillReturnRows(sqlmock.NewRows([]string{"delta", "updated_at"}).AddRow(delta, updatedAt))

		draft, err := NewDraftRepository(db).Get(ctx, "evt-1", "user-1")
		require.NoError(t, err)
		assert.Equal(t, "evt-1", draft.EventID)
		assert.Equal(t, updatedAt, draft.UpdatedAt)
		assert.Equal(t, sampleDelta(), draft.Delta)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery(`SELECT delta, updated_at FROM guestlist_drafts`).
			WithArgs("evt-1", "user-1").
			WillReturnError(sql.ErrNoRows)

		_, err = NewDraftRepository(db).Get(ctx, "evt-1", "user-1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupt payload", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery(`SELECT delta, updated_at FROM guestlist_drafts`).
			WithArgs("evt-1", "user-1").
			WillReturnRows(sqlmock.NewRows([]string{"delta", "updated_at"}).AddRow([]byte(`{`), updatedAt))

		_, err = NewDraftRepository(db).Get(ctx, "evt-1", "user-1")
		assert.ErrorContains(t, err, "decode draft")
	})
}

func TestDraftRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectExec(`DELETE FROM guestlist_drafts WHERE event_id = \$1 AND owner_id = \$2`).
		WithArgs("evt-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewDraftRepository(db).Delete(context.Background(), "evt-1", "user-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS guestlist_drafts`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE INDEX IF NOT EXISTS guestlist_drafts_updated_at_idx`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, EnsureSchema(context.Background(), db))
	require.NoError(t, mock.ExpectationsWereMet())
}
