package mysql

import (
	"context"
	"errors"
	"fmt"

	loanDomain "p2p-lending-backend/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	if res.Error != nil {
		return nil, notFound(res.Error)
	}
	return &out, nil
}

// sqlite ignores the locking clause; its single writer gives the same guarantee.
func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out)
	if res.Error != nil {
		return nil, notFound(res.Error)
	}
	return &out, nil
}

func (r *LoanRepository) Activate(ctx context.Context, a loanDomain.Activation) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Where("loan_id = ? AND status = ?", a.LoanID, loanDomain.StatusOpen).
		Updates(map[string]any{
			"status":            loanDomain.StatusActive,
			"borrower_id":       a.BorrowerID,
			"lender_id":         a.LenderID,
			"matched_at":        a.At,
			"status_updated_at": a.At,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *LoanRepository) ListOpen(ctx context.Context, f loanDomain.MarketFilter) ([]loanDomain.Loan, error) {
	q := r.db.WithContext(ctx).Where("status = ?", loanDomain.StatusOpen)
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.HasCollateral != nil {
		q = q.Where("has_collateral = ?", *f.HasCollateral)
	}
	var out []loanDomain.Loan
	err := q.Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *LoanRepository) ListByParticipant(ctx context.Context, userID string, statuses ...loanDomain.Status) ([]loanDomain.Loan, error) {
	q := r.db.WithContext(ctx).Where("(borrower_id = ? OR lender_id = ?)", userID, userID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var out []loanDomain.Loan
	err := q.Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", loanDomain.ErrNotFound, err)
	}
	return err
}
