package marketplace

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"p2p-lending-backend/internal/domain/events"
	"p2p-lending-backend/internal/domain/ledger"
	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/uow"
	ledgeruc "p2p-lending-backend/internal/usecase/ledger"
	"p2p-lending-backend/pkg/finance"
)

// Ledger builds priced entries and announces them once committed.
type Ledger interface {
	NewEntry(ctx context.Context, in ledgeruc.RecordInput) (*ledger.Transaction, error)
	Announce(ctx context.Context, t *ledger.Transaction)
}

type Usecase struct {
	uow    uow.UnitOfWork
	ledger Ledger
	pub    events.Publisher
	log    *zap.Logger
	now    func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, l Ledger, pub events.Publisher, log *zap.Logger) *Usecase {
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{uow: tx, ledger: l, pub: pub, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Accept matches acceptorID to an open loan. Activation and the disbursement
// entry commit together; a concurrent winner leaves this call with
// loan.ErrUnavailable and nothing written.
func (u *Usecase) Accept(ctx context.Context, loanID, acceptorID string) (*AcceptResult, error) {
	if u.uow == nil {
		return nil, loan.ErrInvalidTransition
	}
	var res *AcceptResult

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		if l.CreatorID == acceptorID {
			return loan.ErrSelfMatch
		}
		if l.Status != loan.StatusOpen {
			return loan.ErrUnavailable
		}

		borrowerID, lenderID := l.CounterpartyRoles(acceptorID)
		now := u.now()
		won, err := r.Loans.Activate(ctx, loan.Activation{
			LoanID: l.LoanID, BorrowerID: borrowerID, LenderID: lenderID, At: now,
		})
		if err != nil {
			return fmt.Errorf("activate loan: %w", err)
		}
		if !won {
			return loan.ErrUnavailable
		}

		// mirror the guarded update on the copy we return
		if err := l.Transition(loan.StatusActive, now); err != nil {
			return err
		}
		l.BorrowerID, l.LenderID, l.MatchedAt = &borrowerID, &lenderID, &now

		entry, err := u.ledger.NewEntry(ctx, ledgeruc.RecordInput{
			UserID:         lenderID,
			CounterpartyID: borrowerID,
			LoanID:         l.LoanID,
			Type:           ledger.TypeDisbursement,
			Amount:         l.Amount,
			Description:    "Loan disbursement",
		})
		if err != nil {
			return err
		}
		if err := r.Transactions.Create(ctx, entry); err != nil {
			return fmt.Errorf("insert disbursement: %w", err)
		}
		res = &AcceptResult{Loan: l, Disbursement: entry}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.publish(ctx, events.SubjectLoanActivated, res.Loan)
	u.ledger.Announce(ctx, res.Disbursement)
	return res, nil
}

// Repay records a repayment from the loan's borrower. The loan row stays
// locked while the outstanding balance is computed, so concurrent repayments
// cannot overpay. Reaching the total repayment completes the loan.
func (u *Usecase) Repay(ctx context.Context, loanID, borrowerID string, amount decimal.Decimal) (*RepayResult, error) {
	if !amount.IsPositive() || !finance.HasBTCPrecision(amount) {
		return nil, ledger.ErrInvalidAmount
	}
	var res *RepayResult

	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if l.Borrower() == "" || l.Borrower() != borrowerID {
			return loan.ErrNotParticipant
		}
		if l.Status != loan.StatusActive {
			return loan.ErrInvalidTransition
		}

		terms, err := l.Schedule()
		if err != nil {
			return fmt.Errorf("schedule loan %s: %w", l.LoanID, err)
		}
		prior, err := r.Transactions.ListByLoan(ctx, l.LoanID, ledger.TypeRepayment)
		if err != nil {
			return err
		}
		repaid := ledger.Sum(prior)
		if outstanding := terms.TotalRepayment.Sub(repaid); amount.GreaterThan(outstanding) {
			return fmt.Errorf("%w: %s BTC outstanding", loan.ErrOverpayment, outstanding)
		}

		entry, err := u.ledger.NewEntry(ctx, ledgeruc.RecordInput{
			UserID:         l.Lender(),
			CounterpartyID: borrowerID,
			LoanID:         l.LoanID,
			Type:           ledger.TypeRepayment,
			Amount:         amount,
			Description:    "Loan repayment",
		})
		if err != nil {
			return err
		}
		if err := r.Transactions.Create(ctx, entry); err != nil {
			return fmt.Errorf("insert repayment: %w", err)
		}

		repaid = repaid.Add(amount)
		if repaid.GreaterThanOrEqual(terms.TotalRepayment) {
			if err := l.Transition(loan.StatusCompleted, u.now()); err != nil {
				return err
			}
			if err := r.Loans.Save(ctx, l); err != nil {
				return fmt.Errorf("save loan: %w", err)
			}
		}
		res = &RepayResult{Loan: l, Transaction: entry, Progress: finance.ProgressOf(terms, repaid)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.ledger.Announce(ctx, res.Transaction)
	if res.Loan.Status == loan.StatusCompleted {
		u.publish(ctx, events.SubjectLoanCompleted, res.Loan)
	}
	return res, nil
}

func (u *Usecase) publish(ctx context.Context, subject string, l *loan.Loan) {
	if err := u.pub.Publish(ctx, subject, l); err != nil {
		u.log.Warn("publish loan event failed", zap.String("subject", subject), zap.String("loan_id", l.LoanID), zap.Error(err))
	}
}
