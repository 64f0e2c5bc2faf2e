package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"brgydocs/internal/model"
	"brgydocs/internal/repository"
)

// DocumentRequestPostgres is a PostgreSQL implementation of repository.DocumentRequestRepository.
type DocumentRequestPostgres struct {
	db *sql.DB
}

func NewDocumentRequestPostgres(db *sql.DB) *DocumentRequestPostgres {
	return &DocumentRequestPostgres{db: db}
}

var _ repository.DocumentRequestRepository = (*DocumentRequestPostgres)(nil)

const requestColumns = `r.id, r.user_id, r.resident_id, r.document_type_id, r.purpose, r.status,
		r.requested_at, r.release_token, r.release_name, r.released_at`

// viewSelect joins the display names and aggregates payments into a JSON array.
const viewSelect = `
		SELECT ` + requestColumns + `,
			res.full_name, dt.name,
			COALESCE((
				SELECT json_agg(json_build_object(
					'id', p.id,
					'document_request_id', p.document_request_id,
					'payment_method', p.method,
					'amount', p.amount,
					'or_number', p.or_number,
					'reference_number', p.reference_number,
					'paid_at', p.paid_at
				) ORDER BY p.id)
				FROM document_payments p
				WHERE p.document_request_id = r.id
			), '[]')
		FROM document_requests r
		JOIN residents res ON res.id = r.resident_id
		JOIN document_types dt ON dt.id = r.document_type_id
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(s rowScanner, extra ...any) (*model.DocumentRequest, error) {
	var (
		req         model.DocumentRequest
		status      string
		token, name sql.NullString
		releasedAt  sql.NullTime
	)
	dest := []any{
		&req.ID, &req.UserID, &req.ResidentID, &req.DocumentTypeID, &req.Purpose, &status,
		&req.RequestedAt, &token, &name, &releasedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	req.Status = model.Status(status)
	req.ReleaseToken = stringPtr(token)
	req.ReleaseName = stringPtr(name)
	req.ReleasedAt = timePtr(releasedAt)
	req.Payments = []model.Payment{}
	return &req, nil
}

func scanView(s rowScanner) (*model.RequestView, error) {
	var (
		view     model.RequestView
		payments []byte
	)
	req, err := scanRequest(s, &view.ResidentName, &view.DocumentTypeName, &payments)
	if err != nil {
		return nil, err
	}
	view.DocumentRequest = *req
	if len(payments) > 0 {
		if err := json.Unmarshal(payments, &view.Payments); err != nil {
			return nil, fmt.Errorf("decode payments: %w", err)
		}
	}
	return &view, nil
}

// Create inserts a new request row and returns the stored record.
func (r *DocumentRequestPostgres) Create(ctx context.Context, req *model.DocumentRequest) (*model.DocumentRequest, error) {
	const q = `
		INSERT INTO document_requests AS r (user_id, resident_id, document_type_id, purpose, status, requested_at, release_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + requestColumns
	row := conn(ctx, r.db).QueryRowContext(ctx, q,
		req.UserID,
		req.ResidentID,
		req.DocumentTypeID,
		req.Purpose,
		string(req.Status),
		req.RequestedAt,
		nullString(req.ReleaseToken),
	)
	out, err := scanRequest(row)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *DocumentRequestPostgres) FindByID(ctx context.Context, id int64) (*model.DocumentRequest, error) {
	const q = `SELECT ` + requestColumns + ` FROM document_requests r WHERE r.id = $1`
	out, err := scanRequest(conn(ctx, r.db).QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *DocumentRequestPostgres) FindViewByID(ctx context.Context, id int64) (*model.RequestView, error) {
	out, err := scanView(conn(ctx, r.db).QueryRowContext(ctx, viewSelect+` WHERE r.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *DocumentRequestPostgres) FindViewByToken(ctx context.Context, token string) (*model.RequestView, error) {
	out, err := scanView(conn(ctx, r.db).QueryRowContext(ctx, viewSelect+` WHERE r.release_token = $1`, token))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func filterClause(f repository.RequestFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.DocumentTypeID > 0 {
		args = append(args, f.DocumentTypeID)
		conds = append(conds, fmt.Sprintf("r.document_type_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("r.status = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns request views using LIMIT/OFFSET pagination and a total count.
func (r *DocumentRequestPostgres) List(ctx context.Context, f repository.RequestFilter) (*repository.PageResult[model.RequestView], error) {
	where, args := filterClause(f)
	db := conn(ctx, r.db)

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM document_requests r`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	q := viewSelect + where + fmt.Sprintf(` ORDER BY r.requested_at DESC, r.id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := db.QueryContext(ctx, q, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.RequestView, 0)
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.RequestView]{Items: items, Total: total}, nil
}

func (r *DocumentRequestPostgres) exists(ctx context.Context, id int64) error {
	var one int
	err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT 1 FROM document_requests WHERE id = $1`, id).Scan(&one)
	return mapError(err)
}

// UpdateStatus is a compare-on-from update; the row is untouched unless it is currently in from.
func (r *DocumentRequestPostgres) UpdateStatus(ctx context.Context, id int64, from, to model.Status) (bool, error) {
	const q = `UPDATE document_requests SET status = $3 WHERE id = $1 AND status = $2`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, id, string(from), string(to))
	if err != nil {
		return false, mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 1 {
		return true, nil
	}
	if err := r.exists(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// ForceStatus locks the row, records its previous status and overwrites it.
func (r *DocumentRequestPostgres) ForceStatus(ctx context.Context, id int64, to model.Status) (model.Status, error) {
	const q = `
		WITH prev AS (
			SELECT id, status FROM document_requests WHERE id = $1 FOR UPDATE
		)
		UPDATE document_requests d
		SET status = $2,
			released_at = CASE WHEN $2 = 'released' THEN COALESCE(d.released_at, now()) ELSE d.released_at END
		FROM prev
		WHERE d.id = prev.id
		RETURNING prev.status
	`
	var prev string
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, id, string(to)).Scan(&prev); err != nil {
		return "", mapError(err)
	}
	return model.Status(prev), nil
}

func (r *DocumentRequestPostgres) SetReleaseToken(ctx context.Context, id int64, token string) (bool, error) {
	const q = `UPDATE document_requests SET release_token = $2 WHERE id = $1 AND release_token IS NULL`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, id, token)
	if err != nil {
		return false, mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// MarkReleased is safe under concurrent duplicate calls: the row lock in the CTE
// serializes them and only the first sees a status other than released.
func (r *DocumentRequestPostgres) MarkReleased(ctx context.Context, token string, releaseName *string) (bool, model.Status, error) {
	const q = `
		WITH prev AS (
			SELECT id, status FROM document_requests WHERE release_token = $1 FOR UPDATE
		)
		UPDATE document_requests d
		SET status = 'released',
			released_at = now(),
			release_name = COALESCE($2, d.release_name)
		FROM prev
		WHERE d.id = prev.id AND prev.status <> 'released'
		RETURNING prev.status
	`
	var prev string
	err := conn(ctx, r.db).QueryRowContext(ctx, q, token, nullString(releaseName)).Scan(&prev)
	if err == nil {
		return true, model.Status(prev), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, "", err
	}

	var current string
	err = conn(ctx, r.db).QueryRowContext(ctx, `SELECT status FROM document_requests WHERE release_token = $1`, token).Scan(&current)
	if err != nil {
		return false, "", mapError(err)
	}
	return false, model.Status(current), nil
}
