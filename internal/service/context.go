package service

import "context"

type correlationKey struct{}

// WithCorrelationID attaches the inbound request id so audit entries and events
// can be traced back to the HTTP call that caused them.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the id set by WithCorrelationID, or "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
