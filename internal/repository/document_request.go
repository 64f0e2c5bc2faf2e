package repository

import (
	"context"

	"brgydocs/internal/model"
)

// RequestFilter narrows catalog listings. Zero values mean "any".
type RequestFilter struct {
	DocumentTypeID int64
	Status         model.Status
	PageQuery
}

// DocumentRequestRepository persists document requests. Status changes are
// single-statement updates so concurrent callers cannot interleave.
type DocumentRequestRepository interface {
	// Create inserts a request. Returns ErrDuplicateReleaseToken on token collision.
	Create(ctx context.Context, req *model.DocumentRequest) (*model.DocumentRequest, error)

	FindByID(ctx context.Context, id int64) (*model.DocumentRequest, error)

	FindViewByID(ctx context.Context, id int64) (*model.RequestView, error)

	FindViewByToken(ctx context.Context, token string) (*model.RequestView, error)

	List(ctx context.Context, f RequestFilter) (*PageResult[model.RequestView], error)

	// UpdateStatus moves the request from -> to only if it is currently in from.
	// It reports false, without error, when the request exists but is in another state.
	UpdateStatus(ctx context.Context, id int64, from, to model.Status) (bool, error)

	// ForceStatus sets the status unconditionally and returns the previous one.
	ForceStatus(ctx context.Context, id int64, to model.Status) (model.Status, error)

	// SetReleaseToken stores token only if none is set yet and reports whether it was stored.
	SetReleaseToken(ctx context.Context, id int64, token string) (bool, error)

	// MarkReleased sets status released for the request bound to token unless it is
	// already released. It reports whether this call changed the row and
	// the status observed before the change.
	MarkReleased(ctx context.Context, token string, releaseName *string) (changed bool, prev model.Status, err error)
}

// PaymentRepository is the append-only payment ledger.
type PaymentRepository interface {
	// Create returns ErrDuplicateORNumber when the OR number is taken.
	Create(ctx context.Context, p *model.Payment) (*model.Payment, error)
	ListByRequest(ctx context.Context, requestID int64) ([]model.Payment, error)
}

// AuditRepository is the append-only log of request changes.
type AuditRepository interface {
	Append(ctx context.Context, e *model.AuditEntry) error
	ListByRequest(ctx context.Context, requestID int64) ([]model.AuditEntry, error)
}
