package postgres

import (
	"context"
	"database/sql"

	"brgydocs/internal/ornumber"
)

// ORCounterPostgres backs ornumber.Counter with the single-row or_number_counter table.
// The UPDATE takes a row lock, so concurrent callers each observe a distinct value.
// Advance joins the caller's transaction and is undone with it, which keeps receipts
// gap-free; Resync is what moves a lagging counter forward.
type ORCounterPostgres struct {
	db *sql.DB
}

func NewORCounterPostgres(db *sql.DB) *ORCounterPostgres {
	return &ORCounterPostgres{db: db}
}

var _ ornumber.Counter = (*ORCounterPostgres)(nil)

func (r *ORCounterPostgres) Advance(ctx context.Context) (int64, error) {
	const q = `
		INSERT INTO or_number_counter (id, last_value)
		VALUES (1, 1)
		ON CONFLICT (id) DO UPDATE SET last_value = or_number_counter.last_value + 1
		RETURNING last_value
	`
	var n int64
	if err := conn(ctx, r.db).QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

// Resync lifts last_value to the highest OR-n in document_payments. It runs on the
// pool rather than the caller's transaction so a later rollback cannot undo it.
func (r *ORCounterPostgres) Resync(ctx context.Context) (int64, error) {
	const q = `
		INSERT INTO or_number_counter (id, last_value)
		SELECT 1, COALESCE(MAX(substring(or_number FROM 4)::BIGINT), 0)
		FROM document_payments
		WHERE or_number ~ '^OR-[0-9]+$'
		ON CONFLICT (id) DO UPDATE SET last_value = GREATEST(or_number_counter.last_value, EXCLUDED.last_value)
		RETURNING last_value
	`
	var n int64
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}
