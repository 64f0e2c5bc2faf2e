package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"brgydocs/internal/repository"
)

// SQLSTATE codes mapped to repository errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Constraint names declared by the migration steps.
const (
	constraintORNumber     = "document_payments_or_number_key"
	constraintReleaseToken = "document_requests_release_token_key"
	constraintTypeName     = "document_types_name_key"
)

// mapError translates driver errors into repository sentinels, keeping the original in the chain.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		switch pgErr.ConstraintName {
		case constraintORNumber:
			return fmt.Errorf("%w: %s", repository.ErrDuplicateORNumber, pgErr.Detail)
		case constraintReleaseToken:
			return fmt.Errorf("%w: %s", repository.ErrDuplicateReleaseToken, pgErr.Detail)
		default:
			return fmt.Errorf("%w: %s", repository.ErrConflict, pgErr.ConstraintName)
		}
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s", repository.ErrReferenced, pgErr.ConstraintName)
	}
	return err
}
