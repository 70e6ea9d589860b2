package ledgermock

import (
	"context"

	domain "p2p-lending-backend/internal/domain/ledger"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies ledger.Repository.
type Repo struct {
	CreateFn     func(ctx context.Context, t *domain.Transaction) error
	GetByTxIDFn  func(ctx context.Context, txID string) (*domain.Transaction, error)
	ListByUserFn func(ctx context.Context, userID string) ([]domain.Transaction, error)
	ListByLoanFn func(ctx context.Context, loanID string, types ...domain.Type) ([]domain.Transaction, error)
}

func (m *Repo) Create(ctx context.Context, t *domain.Transaction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}

func (m *Repo) GetByTxID(ctx context.Context, txID string) (*domain.Transaction, error) {
	if m.GetByTxIDFn != nil {
		return m.GetByTxIDFn(ctx, txID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *Repo) ListByLoan(ctx context.Context, loanID string, types ...domain.Type) ([]domain.Transaction, error) {
	if m.ListByLoanFn != nil {
		return m.ListByLoanFn(ctx, loanID, types...)
	}
	return nil, nil
}
