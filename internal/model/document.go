package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType is a catalog entry for a requestable document and its standard fee.
type DocumentType struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Fee       decimal.Decimal `json:"fee"`
	CreatedAt time.Time       `json:"created_at"`
}

// Resident is the subject a document is issued for. Only the fields the
// request lifecycle needs are loaded.
type Resident struct {
	ID       int64  `json:"id"`
	UserID   *int64 `json:"user_id,omitempty"`
	FullName string `json:"full_name"`
}

// DocumentRequest is the aggregate root of the release lifecycle.
type DocumentRequest struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	ResidentID     int64     `json:"resident_id"`
	DocumentTypeID int64     `json:"document_type_id"`
	Purpose        string    `json:"purpose"`
	Status         Status    `json:"status"`
	RequestedAt    time.Time `json:"requested_at"`
	// ReleaseToken is the capability embedded in the printed QR code.
	ReleaseToken *string    `json:"release_token,omitempty"`
	ReleaseName  *string    `json:"release_name,omitempty"`
	ReleasedAt   *time.Time `json:"released_at,omitempty"`
	Payments     []Payment  `json:"payments"`
}

// HasToken reports whether a release token has been issued.
func (r *DocumentRequest) HasToken() bool {
	return r.ReleaseToken != nil && *r.ReleaseToken != ""
}

// RequestView is the read projection used by staff queues and the release landing page.
type RequestView struct {
	DocumentRequest
	ResidentName     string `json:"resident_name"`
	DocumentTypeName string `json:"document_type_name"`
}
