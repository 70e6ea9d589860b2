package stats

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"p2p-lending-backend/internal/domain/ledger"
	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/pkg/finance"
)

// Stats summarises a user's lending activity. Only matched loans count.
type Stats struct {
	TotalBorrowed  decimal.Decimal `json:"totalBorrowed"`
	TotalLent      decimal.Decimal `json:"totalLent"`
	ActiveLoans    int             `json:"activeLoans"`
	InterestEarned decimal.Decimal `json:"interestEarned"`
}

type Usecase struct {
	loans   loan.Repository
	entries ledger.Repository
}

func NewUsecase(loans loan.Repository, entries ledger.Repository) *Usecase {
	return &Usecase{loans: loans, entries: entries}
}

func (u *Usecase) ForUser(ctx context.Context, userID string) (*Stats, error) {
	ls, err := u.loans.ListByParticipant(ctx, userID, loan.StatusActive, loan.StatusCompleted, loan.StatusDefaulted)
	if err != nil {
		return nil, err
	}

	s := &Stats{TotalBorrowed: decimal.Zero, TotalLent: decimal.Zero, InterestEarned: decimal.Zero}
	for i := range ls {
		l := &ls[i]
		if l.Status == loan.StatusActive {
			s.ActiveLoans++
		}
		if l.Borrower() == userID {
			s.TotalBorrowed = s.TotalBorrowed.Add(l.Amount)
		}
		if l.Lender() != userID {
			continue
		}
		s.TotalLent = s.TotalLent.Add(l.Amount)

		// only active and completed loans accrue interest
		if l.Status == loan.StatusDefaulted {
			continue
		}
		earned, err := u.realizedInterest(ctx, l)
		if err != nil {
			return nil, err
		}
		s.InterestEarned = s.InterestEarned.Add(earned)
	}
	return s, nil
}

func (u *Usecase) realizedInterest(ctx context.Context, l *loan.Loan) (decimal.Decimal, error) {
	terms, err := l.Schedule()
	if err != nil {
		return decimal.Zero, fmt.Errorf("schedule loan %s: %w", l.LoanID, err)
	}
	reps, err := u.entries.ListByLoan(ctx, l.LoanID, ledger.TypeRepayment)
	if err != nil {
		return decimal.Zero, err
	}
	return finance.RealizedInterest(terms, ledger.Sum(reps)), nil
}
