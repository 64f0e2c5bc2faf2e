// Package events publishes document request status changes to subscribers
// outside the request cycle (notification senders, dashboards).
package events

import (
	"context"
	"time"

	"brgydocs/internal/model"
)

const TypeStatusChanged = "document_request.status_changed"

// Event describes one committed status change.
type Event struct {
	Type              string       `json:"type"`
	DocumentRequestID int64        `json:"document_request_id"`
	OldStatus         model.Status `json:"old_status,omitempty"`
	NewStatus         model.Status `json:"new_status"`
	ActorID           *int64       `json:"actor_id,omitempty"`
	CorrelationID     string       `json:"correlation_id,omitempty"`
	OccurredAt        time.Time    `json:"occurred_at"`
}

// StatusChanged builds the event for a committed transition.
func StatusChanged(requestID int64, from, to model.Status, actorID *int64, correlationID string, at time.Time) Event {
	return Event{
		Type:              TypeStatusChanged,
		DocumentRequestID: requestID,
		OldStatus:         from,
		NewStatus:         to,
		ActorID:           actorID,
		CorrelationID:     correlationID,
		OccurredAt:        at,
	}
}

// Publisher delivers events after the transaction that produced them commits.
// Delivery is best-effort; callers log failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Noop drops every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
