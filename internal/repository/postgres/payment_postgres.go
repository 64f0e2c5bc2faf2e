package postgres

import (
	"context"
	"database/sql"

	"brgydocs/internal/model"
	"brgydocs/internal/repository"
)

// PaymentPostgres is the append-only payment ledger. Rows are never updated or deleted here;
// they go away only through the cascade from document_requests.
type PaymentPostgres struct {
	db *sql.DB
}

func NewPaymentPostgres(db *sql.DB) *PaymentPostgres {
	return &PaymentPostgres{db: db}
}

var _ repository.PaymentRepository = (*PaymentPostgres)(nil)

func scanPayment(s rowScanner) (*model.Payment, error) {
	var (
		p      model.Payment
		method string
		ref    sql.NullString
	)
	if err := s.Scan(&p.ID, &p.DocumentRequestID, &method, &p.Amount, &p.ORNumber, &ref, &p.PaidAt); err != nil {
		return nil, err
	}
	p.Method = model.PaymentMethod(method)
	p.ReferenceNumber = stringPtr(ref)
	return &p, nil
}

func (r *PaymentPostgres) Create(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	const q = `
		INSERT INTO document_payments (document_request_id, method, amount, or_number, reference_number, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, document_request_id, method, amount, or_number, reference_number, paid_at
	`
	row := conn(ctx, r.db).QueryRowContext(ctx, q,
		p.DocumentRequestID,
		string(p.Method),
		p.Amount,
		p.ORNumber,
		nullString(p.ReferenceNumber),
		p.PaidAt,
	)
	out, err := scanPayment(row)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *PaymentPostgres) ListByRequest(ctx context.Context, requestID int64) ([]model.Payment, error) {
	const q = `
		SELECT id, document_request_id, method, amount, or_number, reference_number, paid_at
		FROM document_payments
		WHERE document_request_id = $1
		ORDER BY id
	`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
