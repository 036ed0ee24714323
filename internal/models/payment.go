package models

import (
	"time"
)

// Payment statuses across the escrow hold/release cycle.
const (
	PaymentStatusPending           = "pending"
	PaymentStatusCaptured          = "captured"
	PaymentStatusReleased          = "released"
	PaymentStatusRefunded          = "refunded"
	PaymentStatusPartiallyRefunded = "partially_refunded"
)

type Payment struct {
	ID             int        `json:"id"`
	JobID          int        `json:"job_id"`
	CustomerID     int        `json:"customer_id"`
	ProID          int        `json:"pro_id"`
	Amount         float64    `json:"amount"`
	RefundedAmount float64    `json:"refunded_amount"`
	Currency       string     `json:"currency"`
	Status         string     `json:"status"`
	ProviderRef    string     `json:"provider_ref"`
	CapturedAt     *time.Time `json:"captured_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// RefundEntry is one row of the refund ledger.
type RefundEntry struct {
	ID        int       `json:"id"`
	PaymentID int       `json:"payment_id"`
	DisputeID int       `json:"dispute_id"`
	Amount    float64   `json:"amount"`
	RefundRef string    `json:"refund_ref"`
	CreatedAt time.Time `json:"created_at"`
}
