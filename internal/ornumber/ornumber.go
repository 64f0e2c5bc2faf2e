// Package ornumber issues official-receipt numbers of the form OR-00001.
//
// Numbers come from a dedicated counter in storage rather than from parsing the
// last issued receipt. The unique index on payments remains the source of truth:
// when an insert collides, callers Resync the counter past every issued number
// and retry with a fresh one.
package ornumber

import (
	"context"
	"fmt"
)

const (
	prefix = "OR-"
	width  = 5
)

// Counter hands out strictly increasing integers. Implementations must be safe
// under concurrent callers, each call returning a value no other call returns.
type Counter interface {
	Advance(ctx context.Context) (int64, error)
	// Resync raises the counter to at least the highest number already issued
	// and returns the resulting value. It never lowers the counter.
	Resync(ctx context.Context) (int64, error)
}

// Generator formats counter values as OR numbers.
type Generator struct {
	counter Counter
}

func NewGenerator(counter Counter) *Generator {
	return &Generator{counter: counter}
}

// Next returns the next OR number.
func (g *Generator) Next(ctx context.Context) (string, error) {
	n, err := g.counter.Advance(ctx)
	if err != nil {
		return "", fmt.Errorf("advance or counter: %w", err)
	}
	if n <= 0 {
		return "", fmt.Errorf("advance or counter: non-positive value %d", n)
	}
	return Format(n), nil
}

// Format renders n zero-padded to five digits. Values past 99999 keep growing in width.
func Format(n int64) string {
	return fmt.Sprintf("%s%0*d", prefix, width, n)
}

// Resync realigns the counter with the issued receipts after a collision, so the
// next call to Next returns a number above every OR number in storage.
func (g *Generator) Resync(ctx context.Context) error {
	if _, err := g.counter.Resync(ctx); err != nil {
		return fmt.Errorf("resync or counter: %w", err)
	}
	return nil
}
