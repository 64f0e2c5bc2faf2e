package migration

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEnsureMigrated(t *testing.T) {
	ctx := context.Background()

	t.Run("skips when schema exists", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		core, logs := observer.New(zap.InfoLevel)

		mock.ExpectQuery("SELECT to_regclass").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		require.NoError(t, EnsureMigrated(ctx, db, zap.New(core), "db"))
		assert.Equal(t, 1, logs.FilterMessage("db_migration_skip").Len())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("runs every step", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		core, logs := observer.New(zap.InfoLevel)

		mock.ExpectQuery("SELECT to_regclass").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		for range steps {
			mock.ExpectExec(".+").WillReturnResult(sqlmock.NewResult(0, 0))
		}

		require.NoError(t, EnsureMigrated(ctx, db, zap.New(core), "db"))
		assert.Equal(t, len(steps), logs.FilterMessage("db_migration_step").Len())
		assert.Equal(t, 1, logs.FilterMessage("db_migration_success").Len())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stops at failing step", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		core, logs := observer.New(zap.InfoLevel)

		mock.ExpectQuery("SELECT to_regclass").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS residents").WillReturnError(errors.New("permission denied"))

		err = EnsureMigrated(ctx, db, zap.New(core), "db")

		assert.ErrorContains(t, err, "migration step create_table_residents failed")
		assert.Equal(t, 1, logs.FilterMessage("db_migration_failed").Len())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sentinel check error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass").WillReturnError(errors.New("conn reset"))

		err = EnsureMigrated(ctx, db, zap.NewNop(), "db")

		assert.ErrorContains(t, err, "failed to check sentinel table")
	})
}

func TestSteps_DeclareConstraintsUsedByRepositories(t *testing.T) {
	var all string
	for _, s := range steps {
		all += s.SQL
	}
	for _, name := range []string{
		"document_payments_or_number_key",
		"document_requests_release_token_key",
		"document_types_name_key",
		"document_requests_document_type_id_fkey",
	} {
		assert.Contains(t, all, name)
	}
}
