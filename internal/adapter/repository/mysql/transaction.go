package mysql

import (
	"context"
	"errors"
	"fmt"

	ledgerDomain "p2p-lending-backend/internal/domain/ledger"

	"gorm.io/gorm"
)

// TransactionRepository only inserts and reads; the ledger is append-only.
type TransactionRepository struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *ledgerDomain.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepository) GetByTxID(ctx context.Context, txID string) (*ledgerDomain.Transaction, error) {
	var out ledgerDomain.Transaction
	res := r.db.WithContext(ctx).Where("tx_id = ?", txID).First(&out)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %w", ledgerDomain.ErrNotFound, res.Error)
		}
		return nil, res.Error
	}
	return &out, nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID string) ([]ledgerDomain.Transaction, error) {
	var out []ledgerDomain.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? OR counterparty_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *TransactionRepository) ListByLoan(ctx context.Context, loanID string, types ...ledgerDomain.Type) ([]ledgerDomain.Transaction, error) {
	q := r.db.WithContext(ctx).Where("loan_id = ?", loanID)
	if len(types) > 0 {
		q = q.Where("type IN ?", types)
	}
	var out []ledgerDomain.Transaction
	err := q.Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}
