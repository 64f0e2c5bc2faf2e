package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brgydocs/internal/model"
)

func TestAuditPostgres_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAuditPostgres(db)
	now := time.Now().UTC()
	actor := int64(7)

	t.Run("with actor", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO document_request_audit").
			WithArgs(int64(3), int64(7), model.ActionAccepted, "pending", "on process", "", "rid-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), now))

		e := &model.AuditEntry{
			DocumentRequestID: 3,
			ActorID:           &actor,
			Action:            model.ActionAccepted,
			OldStatus:         model.StatusPending,
			NewStatus:         model.StatusOnProcess,
			CorrelationID:     "rid-1",
		}
		require.NoError(t, repo.Append(context.Background(), e))
		assert.Equal(t, int64(11), e.ID)
		assert.Equal(t, now, e.CreatedAt)
	})

	t.Run("anonymous release", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO document_request_audit").
			WithArgs(int64(3), nil, model.ActionReleased, "ready for pick-up", "released", "claimed by Maria", "").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(12), now))

		e := &model.AuditEntry{
			DocumentRequestID: 3,
			Action:            model.ActionReleased,
			OldStatus:         model.StatusReady,
			NewStatus:         model.StatusReleased,
			Reason:            "claimed by Maria",
		}
		require.NoError(t, repo.Append(context.Background(), e))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditPostgres_ListByRequest(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAuditPostgres(db)
	now := time.Now().UTC()
	cols := []string{"id", "document_request_id", "actor_id", "action", "old_status", "new_status", "reason", "correlation_id", "created_at"}

	t.Run("oldest first", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM document_request_audit").
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow(int64(1), int64(3), int64(7), "created", "", "pending", "", "rid-1", now).
				AddRow(int64(2), int64(3), nil, "released", "ready for pick-up", "released", "", "", now))

		items, err := repo.ListByRequest(context.Background(), 3)

		require.NoError(t, err)
		require.Len(t, items, 2)
		require.NotNil(t, items[0].ActorID)
		assert.Equal(t, int64(7), *items[0].ActorID)
		assert.Equal(t, model.StatusPending, items[0].NewStatus)
		assert.Nil(t, items[1].ActorID)
		assert.Equal(t, model.StatusReady, items[1].OldStatus)
	})

	t.Run("empty is not nil", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM document_request_audit").
			WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows(cols))

		items, err := repo.ListByRequest(context.Background(), 4)

		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM document_request_audit").WillReturnError(errors.New("boom"))

		_, err := repo.ListByRequest(context.Background(), 5)

		assert.Error(t, err)
	})
}
