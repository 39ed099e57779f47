package model

import "time"

type LedgerEntryType string

const (
	LedgerEntryDebit  LedgerEntryType = "debit"
	LedgerEntryCredit LedgerEntryType = "credit"
)

// LedgerReason is the business reason behind a points movement.
type LedgerReason string

const (
	ReasonEscrowHold   LedgerReason = "escrow_hold"
	ReasonEscrowRefund LedgerReason = "escrow_refund"
	ReasonPurchase     LedgerReason = "purchase"
	ReasonSignupGrant  LedgerReason = "signup_grant"
)

// PointsTransaction is one row in the points audit trail. BalanceAfter is the
// party's balance immediately after the movement was applied.
type PointsTransaction struct {
	ID           int64           `json:"id"`
	PartyID      int64           `json:"party_id"`
	Entry        LedgerEntryType `json:"entry"`
	Reason       LedgerReason    `json:"reason"`
	Amount       int             `json:"amount"`
	BalanceAfter int             `json:"balance_after"`
	Reference    string          `json:"reference,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
