package loan

import (
	"github.com/shopspring/decimal"

	domain "p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/pkg/finance"
)

type CreateInput struct {
	CreatorID      string
	Amount         decimal.Decimal
	Interest       decimal.Decimal
	DurationMonths int
	HasCollateral  bool
}

// View is a loan with its schedule, repayment progress and USD valuation.
type View struct {
	Loan         *domain.Loan     `json:"loan"`
	Terms        finance.Terms    `json:"terms"`
	Progress     finance.Progress `json:"progress"`
	PrincipalUSD *decimal.Decimal `json:"principalUsd,omitempty"`
	USDRate      *decimal.Decimal `json:"usdRate,omitempty"`
}
