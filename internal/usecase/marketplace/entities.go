package marketplace

import (
	"p2p-lending-backend/internal/domain/ledger"
	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/pkg/finance"
)

type AcceptResult struct {
	Loan         *loan.Loan          `json:"loan"`
	Disbursement *ledger.Transaction `json:"transaction"`
}

type RepayResult struct {
	Loan        *loan.Loan          `json:"loan"`
	Transaction *ledger.Transaction `json:"transaction"`
	Progress    finance.Progress    `json:"progress"`
}
