package ledger

import (
	"github.com/shopspring/decimal"

	domain "p2p-lending-backend/internal/domain/ledger"
)

var (
	MinDeposit = decimal.RequireFromString("0.001")
	MaxDeposit = decimal.NewFromInt(10)
)

// RecordInput describes a new ledger entry. UserID owns the entry and moves
// in the direction its type implies; CounterpartyID, when set, sees the mirror.
type RecordInput struct {
	UserID         string
	CounterpartyID string
	LoanID         string
	Type           domain.Type
	Amount         decimal.Decimal
	Description    string
}

// EntryView is a ledger entry from one user's point of view.
type EntryView struct {
	domain.Transaction
	SignedAmount decimal.Decimal `json:"signedAmount"`
}

type MonthSummary struct {
	Month  string                          `json:"month"` // YYYY-MM, UTC
	Totals map[domain.Type]decimal.Decimal `json:"totals"`
	Net    decimal.Decimal                 `json:"net"`
	Count  int                             `json:"count"`
}

type Balance struct {
	BTC  decimal.Decimal  `json:"btc"`
	USD  *decimal.Decimal `json:"usd,omitempty"`
	Rate *decimal.Decimal `json:"rate,omitempty"`
}
