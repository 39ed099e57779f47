package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment records a points purchase through the external payment provider.
// The row stays pending until the background poller sees the provider order
// complete, at which point the points are credited exactly once.
type Payment struct {
	ID              int64         `json:"id"`
	PartyID         int64         `json:"party_id"`
	ProviderOrderID string        `json:"provider_order_id"`
	Points          int           `json:"points"`
	AmountCents     int64         `json:"amount_cents"`
	Currency        string        `json:"currency"`
	Status          PaymentStatus `json:"status"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
