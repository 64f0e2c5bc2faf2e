package postgres

import (
	"context"
	"database/sql"

	"brgydocs/internal/model"
	"brgydocs/internal/repository"
)

// ResidentPostgres reads the resident registry owned by the rest of the portal.
type ResidentPostgres struct {
	db *sql.DB
}

func NewResidentPostgres(db *sql.DB) *ResidentPostgres {
	return &ResidentPostgres{db: db}
}

var _ repository.ResidentRepository = (*ResidentPostgres)(nil)

func (r *ResidentPostgres) FindByID(ctx context.Context, id int64) (*model.Resident, error) {
	const q = `
		SELECT id, user_id, full_name
		FROM residents
		WHERE id = $1 AND deleted_at IS NULL
	`
	var (
		res    model.Resident
		userID sql.NullInt64
	)
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, id).Scan(&res.ID, &userID, &res.FullName); err != nil {
		return nil, mapError(err)
	}
	res.UserID = int64Ptr(userID)
	return &res, nil
}
