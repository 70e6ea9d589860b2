package uow

import (
	"context"

	"p2p-lending-backend/internal/domain/ledger"
	"p2p-lending-backend/internal/domain/loan"
)

// Repos are bound to the surrounding transaction.
type Repos struct {
	Loans        loan.Repository
	Transactions ledger.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
