package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a document fee was settled at the counter.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentGCash PaymentMethod = "gcash"
	// PaymentFree never produces a Payment row.
	PaymentFree PaymentMethod = "free"
)

// ParsePaymentMethod accepts the three known methods; an empty string means no payment was supplied.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(s); m {
	case PaymentCash, PaymentGCash, PaymentFree:
		return m, nil
	case "":
		return "", nil
	default:
		return "", fmt.Errorf("unknown payment method %q", s)
	}
}

// RecordsPayment reports whether a payment row must be created for m.
func (m PaymentMethod) RecordsPayment() bool {
	return m == PaymentCash || m == PaymentGCash
}

// Payment is a receipt attached to a document request.
type Payment struct {
	ID                int64           `json:"id"`
	DocumentRequestID int64           `json:"document_request_id"`
	Method            PaymentMethod   `json:"payment_method"`
	Amount            decimal.Decimal `json:"amount"`
	ORNumber          string          `json:"or_number"`
	ReferenceNumber   *string         `json:"reference_number,omitempty"`
	PaidAt            time.Time       `json:"paid_at"`
}
