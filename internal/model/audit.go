package model

import "time"

// Audit actions recorded against a document request.
const (
	ActionCreated  = "created"
	ActionAccepted = "accepted"
	ActionReady    = "marked_ready"
	ActionPrinted  = "printed"
	ActionDeclined = "declined"
	ActionReleased = "released"
	ActionOverride = "status_override"
)

// AuditEntry is an append-only record of a change to a document request.
type AuditEntry struct {
	ID                int64     `json:"id"`
	DocumentRequestID int64     `json:"document_request_id"`
	ActorID           *int64    `json:"actor_id,omitempty"`
	Action            string    `json:"action"`
	OldStatus         Status    `json:"old_status,omitempty"`
	NewStatus         Status    `json:"new_status"`
	Reason            string    `json:"reason,omitempty"`
	CorrelationID     string    `json:"correlation_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
