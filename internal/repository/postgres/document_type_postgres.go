package postgres

import (
	"context"
	"database/sql"

	"brgydocs/internal/model"
	"brgydocs/internal/repository"
)

// DocumentTypePostgres is a PostgreSQL implementation of repository.DocumentTypeRepository.
type DocumentTypePostgres struct {
	db *sql.DB
}

func NewDocumentTypePostgres(db *sql.DB) *DocumentTypePostgres {
	return &DocumentTypePostgres{db: db}
}

var _ repository.DocumentTypeRepository = (*DocumentTypePostgres)(nil)

func (r *DocumentTypePostgres) FindByID(ctx context.Context, id int64) (*model.DocumentType, error) {
	const q = `
		SELECT id, name, fee, created_at
		FROM document_types
		WHERE id = $1
	`
	var dt model.DocumentType
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, id).Scan(&dt.ID, &dt.Name, &dt.Fee, &dt.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &dt, nil
}

func (r *DocumentTypePostgres) List(ctx context.Context) ([]model.DocumentType, error) {
	const q = `
		SELECT id, name, fee, created_at
		FROM document_types
		ORDER BY name
	`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.DocumentType, 0)
	for rows.Next() {
		var dt model.DocumentType
		if err := rows.Scan(&dt.ID, &dt.Name, &dt.Fee, &dt.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, dt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *DocumentTypePostgres) Create(ctx context.Context, dt *model.DocumentType) (*model.DocumentType, error) {
	const q = `
		INSERT INTO document_types (name, fee)
		VALUES ($1, $2)
		RETURNING id, name, fee, created_at
	`
	var out model.DocumentType
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, dt.Name, dt.Fee).
		Scan(&out.ID, &out.Name, &out.Fee, &out.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &out, nil
}

func (r *DocumentTypePostgres) Update(ctx context.Context, dt *model.DocumentType) (*model.DocumentType, error) {
	const q = `
		UPDATE document_types
		SET name = $2, fee = $3
		WHERE id = $1
		RETURNING id, name, fee, created_at
	`
	var out model.DocumentType
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, dt.ID, dt.Name, dt.Fee).
		Scan(&out.ID, &out.Name, &out.Fee, &out.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &out, nil
}

// Delete relies on the ON DELETE RESTRICT foreign key from document_requests.
func (r *DocumentTypePostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM document_types WHERE id = $1`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, id)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
