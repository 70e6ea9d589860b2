package loan

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"p2p-lending-backend/internal/domain/events"
	"p2p-lending-backend/internal/domain/ledger"
	domain "p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/pricing"
	"p2p-lending-backend/internal/domain/uow"
	"p2p-lending-backend/pkg/finance"
	"p2p-lending-backend/pkg/id"
)

type Usecase struct {
	repo    domain.Repository
	entries ledger.Repository
	uow     uow.UnitOfWork
	rates   pricing.RateProvider
	pub     events.Publisher
	log     *zap.Logger
	now     func() time.Time
}

func NewUsecase(r domain.Repository, entries ledger.Repository, tx uow.UnitOfWork, rates pricing.RateProvider, pub events.Publisher, log *zap.Logger) *Usecase {
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{
		repo: r, entries: entries, uow: tx, rates: rates, pub: pub, log: log,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// CreateRequest posts a borrower's request for funds.
func (u *Usecase) CreateRequest(ctx context.Context, in CreateInput) (*domain.Loan, error) {
	return u.create(ctx, domain.TypeRequest, in)
}

// CreateOffer posts a lender's offer of funds.
func (u *Usecase) CreateOffer(ctx context.Context, in CreateInput) (*domain.Loan, error) {
	return u.create(ctx, domain.TypeOffer, in)
}

func (u *Usecase) create(ctx context.Context, t domain.Type, in CreateInput) (*domain.Loan, error) {
	if !id.Valid(in.CreatorID) {
		return nil, &domain.ValidationError{Field: "creatorId", Message: "must be a 32-char hex id"}
	}
	l, err := domain.New(id.NewID32(), in.CreatorID, t, domain.Terms{
		Amount:         in.Amount,
		Interest:       in.Interest,
		DurationMonths: in.DurationMonths,
		HasCollateral:  in.HasCollateral,
	}, u.now())
	if err != nil {
		return nil, err
	}
	if err := u.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("insert loan: %w", err)
	}
	u.publish(ctx, events.SubjectLoanCreated, l)
	return l, nil
}

// Get returns the loan view. A missing rate only drops the USD fields.
func (u *Usecase) Get(ctx context.Context, loanID string) (*View, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	terms, err := l.Schedule()
	if err != nil {
		return nil, fmt.Errorf("schedule loan %s: %w", l.LoanID, err)
	}
	repayments, err := u.entries.ListByLoan(ctx, l.LoanID, ledger.TypeRepayment)
	if err != nil {
		return nil, err
	}

	v := &View{Loan: l, Terms: terms, Progress: finance.ProgressOf(terms, ledger.Sum(repayments))}
	if rate, err := u.rates.BTCUSD(ctx); err != nil {
		u.log.Warn("loan view without usd valuation", zap.String("loan_id", l.LoanID), zap.Error(err))
	} else {
		usd := pricing.USDValue(l.Amount, rate)
		v.PrincipalUSD, v.USDRate = &usd, &rate
	}
	return v, nil
}

// Marketplace lists open loans, newest first.
func (u *Usecase) Marketplace(ctx context.Context, f domain.MarketFilter) ([]domain.Loan, error) {
	if f.Type != nil && !f.Type.Valid() {
		return nil, &domain.ValidationError{Field: "type", Message: "must be request or offer"}
	}
	return u.repo.ListOpen(ctx, f)
}

// Active lists the loans userID is currently borrowing or lending.
func (u *Usecase) Active(ctx context.Context, userID string) ([]domain.Loan, error) {
	return u.repo.ListByParticipant(ctx, userID, domain.StatusActive)
}

// MarkDefaulted closes an active loan as defaulted. Only its lender may do so.
func (u *Usecase) MarkDefaulted(ctx context.Context, loanID, actorID string) (*domain.Loan, error) {
	var out *domain.Loan
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Lender() == "" || l.Lender() != actorID {
			return domain.ErrNotParticipant
		}
		if err := l.Transition(domain.StatusDefaulted, u.now()); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return fmt.Errorf("save loan: %w", err)
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.publish(ctx, events.SubjectLoanDefaulted, out)
	return out, nil
}

func (u *Usecase) publish(ctx context.Context, subject string, l *domain.Loan) {
	if err := u.pub.Publish(ctx, subject, l); err != nil {
		u.log.Warn("publish loan event failed", zap.String("subject", subject), zap.String("loan_id", l.LoanID), zap.Error(err))
	}
}
