package repository

import (
	"context"

	"brgydocs/internal/model"
)

// DocumentTypeRepository persists the document catalog.
type DocumentTypeRepository interface {
	FindByID(ctx context.Context, id int64) (*model.DocumentType, error)
	List(ctx context.Context) ([]model.DocumentType, error)
	// Create returns ErrConflict when the name is taken.
	Create(ctx context.Context, dt *model.DocumentType) (*model.DocumentType, error)
	// Update corrects name and fee. Returns ErrNotFound or ErrConflict.
	Update(ctx context.Context, dt *model.DocumentType) (*model.DocumentType, error)
	// Delete returns ErrReferenced when any document request points at the type.
	Delete(ctx context.Context, id int64) error
}

// ResidentRepository is a read-only lookup into the resident registry.
type ResidentRepository interface {
	// FindByID returns ErrNotFound for missing or soft-deleted residents.
	FindByID(ctx context.Context, id int64) (*model.Resident, error)
}
