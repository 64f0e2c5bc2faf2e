package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

// steps are idempotent so a partially applied schema can be re-run.
var steps = []migrationStep{
	{
		Name: "create_table_residents",
		SQL: `CREATE TABLE IF NOT EXISTS residents (
  id         BIGSERIAL   PRIMARY KEY,
  user_id    BIGINT,
  full_name  TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  deleted_at TIMESTAMPTZ
);`,
	},
	{
		Name: "create_table_document_types",
		SQL: `CREATE TABLE IF NOT EXISTS document_types (
  id         BIGSERIAL     PRIMARY KEY,
  name       TEXT          NOT NULL,
  fee        NUMERIC(10,2) NOT NULL DEFAULT 0 CHECK (fee >= 0),
  created_at TIMESTAMPTZ   NOT NULL DEFAULT now(),
  CONSTRAINT document_types_name_key UNIQUE (name)
);`,
	},
	{
		Name: "create_table_document_requests",
		SQL: `CREATE TABLE IF NOT EXISTS document_requests (
  id               BIGSERIAL   PRIMARY KEY,
  user_id          BIGINT      NOT NULL,
  resident_id      BIGINT      NOT NULL REFERENCES residents (id) ON DELETE RESTRICT,
  document_type_id BIGINT      NOT NULL,
  purpose          TEXT        NOT NULL CHECK (purpose <> ''),
  status           TEXT        NOT NULL DEFAULT 'pending'
                   CHECK (status IN ('pending', 'on process', 'ready for pick-up', 'released', 'declined')),
  requested_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  release_token    TEXT,
  release_name     TEXT,
  released_at      TIMESTAMPTZ,
  CONSTRAINT document_requests_release_token_key UNIQUE (release_token),
  CONSTRAINT document_requests_document_type_id_fkey
    FOREIGN KEY (document_type_id) REFERENCES document_types (id) ON DELETE RESTRICT
);`,
	},
	{
		Name: "create_index_document_requests_type_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_document_requests_type_status ON document_requests (document_type_id, status);`,
	},
	{
		Name: "create_index_document_requests_requested_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_document_requests_requested_at ON document_requests (requested_at);`,
	},
	{
		Name: "create_table_document_payments",
		SQL: `CREATE TABLE IF NOT EXISTS document_payments (
  id                  BIGSERIAL     PRIMARY KEY,
  document_request_id BIGINT        NOT NULL REFERENCES document_requests (id) ON DELETE CASCADE,
  method              TEXT          NOT NULL CHECK (method IN ('cash', 'gcash')),
  amount              NUMERIC(10,2) NOT NULL CHECK (amount >= 0),
  or_number           TEXT          NOT NULL,
  reference_number    TEXT,
  paid_at             TIMESTAMPTZ   NOT NULL DEFAULT now(),
  CONSTRAINT document_payments_or_number_key UNIQUE (or_number)
);`,
	},
	{
		Name: "create_index_document_payments_request",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_document_payments_request ON document_payments (document_request_id);`,
	},
	{
		Name: "create_table_or_number_counter",
		SQL: `CREATE TABLE IF NOT EXISTS or_number_counter (
  id         SMALLINT PRIMARY KEY CHECK (id = 1),
  last_value BIGINT   NOT NULL CHECK (last_value >= 0)
);`,
	},
	{
		// Seeds the counter above any receipt issued before the counter existed.
		Name: "seed_or_number_counter",
		SQL: `INSERT INTO or_number_counter (id, last_value)
SELECT 1, COALESCE(MAX(substring(or_number FROM 4)::BIGINT), 0)
FROM document_payments
WHERE or_number ~ '^OR-[0-9]+$'
ON CONFLICT (id) DO NOTHING;`,
	},
	{
		Name: "create_table_document_request_audit",
		SQL: `CREATE TABLE IF NOT EXISTS document_request_audit (
  id                  BIGSERIAL   PRIMARY KEY,
  document_request_id BIGINT      NOT NULL REFERENCES document_requests (id) ON DELETE CASCADE,
  actor_id            BIGINT,
  action              TEXT        NOT NULL,
  old_status          TEXT        NOT NULL DEFAULT '',
  new_status          TEXT        NOT NULL,
  reason              TEXT        NOT NULL DEFAULT '',
  correlation_id      TEXT        NOT NULL DEFAULT '',
  created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_document_request_audit_request",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_document_request_audit_request ON document_request_audit (document_request_id);`,
	},
}

// EnsureMigrated checks whether the sentinel table exists and runs every step if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	query := "SELECT to_regclass('public.document_request_audit') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("reason", "schema already exists"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
