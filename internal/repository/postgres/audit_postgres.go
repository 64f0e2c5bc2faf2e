package postgres

import (
	"context"
	"database/sql"

	"brgydocs/internal/model"
	"brgydocs/internal/repository"
)

// AuditPostgres stores request audit entries in document_request_audit.
type AuditPostgres struct {
	db *sql.DB
}

func NewAuditPostgres(db *sql.DB) *AuditPostgres {
	return &AuditPostgres{db: db}
}

var _ repository.AuditRepository = (*AuditPostgres)(nil)

func (r *AuditPostgres) Append(ctx context.Context, e *model.AuditEntry) error {
	const q = `
		INSERT INTO document_request_audit (document_request_id, actor_id, action, old_status, new_status, reason, correlation_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	return mapError(conn(ctx, r.db).QueryRowContext(ctx, q,
		e.DocumentRequestID,
		nullInt64(e.ActorID),
		e.Action,
		string(e.OldStatus),
		string(e.NewStatus),
		e.Reason,
		e.CorrelationID,
	).Scan(&e.ID, &e.CreatedAt))
}

func (r *AuditPostgres) ListByRequest(ctx context.Context, requestID int64) ([]model.AuditEntry, error) {
	const q = `
		SELECT id, document_request_id, actor_id, action, old_status, new_status, reason, correlation_id, created_at
		FROM document_request_audit
		WHERE document_request_id = $1
		ORDER BY id
	`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AuditEntry, 0)
	for rows.Next() {
		var (
			e            model.AuditEntry
			actor        sql.NullInt64
			oldSt, newSt string
		)
		if err := rows.Scan(&e.ID, &e.DocumentRequestID, &actor, &e.Action, &oldSt, &newSt, &e.Reason, &e.CorrelationID, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ActorID = int64Ptr(actor)
		e.OldStatus = model.Status(oldSt)
		e.NewStatus = model.Status(newSt)
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
