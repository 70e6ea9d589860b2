package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"p2p-lending-backend/internal/domain/events"
	domain "p2p-lending-backend/internal/domain/ledger"
	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/pricing"
	"p2p-lending-backend/internal/domain/uow"
	"p2p-lending-backend/pkg/finance"
	"p2p-lending-backend/pkg/id"
)

type Usecase struct {
	loans   loan.Repository
	entries domain.Repository
	uow     uow.UnitOfWork
	rates   pricing.RateProvider
	pub     events.Publisher
	log     *zap.Logger
	now     func() time.Time
}

func NewUsecase(loans loan.Repository, entries domain.Repository, tx uow.UnitOfWork, rates pricing.RateProvider, pub events.Publisher, log *zap.Logger) *Usecase {
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{
		loans: loans, entries: entries, uow: tx, rates: rates, pub: pub, log: log,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// NewEntry validates in, prices it at the current BTC/USD rate and returns
// the entry ready to insert. Nothing is persisted.
func (u *Usecase) NewEntry(ctx context.Context, in RecordInput) (*domain.Transaction, error) {
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidType, in.Type)
	}
	if !in.Amount.IsPositive() || !finance.HasBTCPrecision(in.Amount) {
		return nil, domain.ErrInvalidAmount
	}
	rate, err := u.rates.BTCUSD(ctx)
	if err != nil {
		return nil, fmt.Errorf("price entry: %w", err)
	}

	t := &domain.Transaction{
		TxID:        id.NewID32(),
		UserID:      in.UserID,
		Type:        in.Type,
		Amount:      in.Amount,
		USDRate:     rate,
		USDValue:    pricing.USDValue(in.Amount, rate),
		Description: in.Description,
		CreatedAt:   u.now(),
	}
	if in.CounterpartyID != "" {
		cp := in.CounterpartyID
		t.CounterpartyID = &cp
	}
	if in.LoanID != "" {
		lid := in.LoanID
		t.LoanID = &lid
	}
	return t, nil
}

// Record inserts a standalone entry and announces it.
func (u *Usecase) Record(ctx context.Context, in RecordInput) (*domain.Transaction, error) {
	t, err := u.NewEntry(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := u.entries.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	u.Announce(ctx, t)
	return t, nil
}

// Announce publishes a committed entry. Publishing is best-effort.
func (u *Usecase) Announce(ctx context.Context, t *domain.Transaction) {
	if err := u.pub.Publish(ctx, events.SubjectLedgerRecorded, t); err != nil {
		u.log.Warn("publish ledger event failed", zap.String("tx_id", t.TxID), zap.Error(err))
	}
}

// ListByUser returns userID's entries newest first, signed from userID's side.
func (u *Usecase) ListByUser(ctx context.Context, userID string) ([]EntryView, error) {
	ts, err := u.entries.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]EntryView, 0, len(ts))
	for _, t := range ts {
		out = append(out, EntryView{Transaction: t, SignedAmount: t.SignedFor(userID)})
	}
	return out, nil
}

// Get returns one entry as seen by userID. Entries userID is not a party to
// are reported as not found.
func (u *Usecase) Get(ctx context.Context, txID, userID string) (*EntryView, error) {
	t, err := u.entries.GetByTxID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if !t.Involves(userID) {
		return nil, domain.ErrNotFound
	}
	return &EntryView{Transaction: *t, SignedAmount: t.SignedFor(userID)}, nil
}

// ListByLoan returns the entries of a loan; only its participants may look.
func (u *Usecase) ListByLoan(ctx context.Context, loanID, userID string) ([]EntryView, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !l.IsParticipant(userID) {
		return nil, loan.ErrNotParticipant
	}
	ts, err := u.entries.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	out := make([]EntryView, 0, len(ts))
	for _, t := range ts {
		out = append(out, EntryView{Transaction: t, SignedAmount: t.SignedFor(userID)})
	}
	return out, nil
}

// MonthlySummary groups userID's entries by calendar month (UTC), oldest
// month first. Totals hold magnitudes per type; Net is the signed sum.
func (u *Usecase) MonthlySummary(ctx context.Context, userID string) ([]MonthSummary, error) {
	ts, err := u.entries.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	byMonth := map[string]*MonthSummary{}
	for _, t := range ts {
		key := t.CreatedAt.UTC().Format("2006-01")
		m, ok := byMonth[key]
		if !ok {
			m = &MonthSummary{Month: key, Totals: map[domain.Type]decimal.Decimal{}, Net: decimal.Zero}
			byMonth[key] = m
		}
		m.Totals[t.Type] = m.Totals[t.Type].Add(t.Amount)
		m.Net = m.Net.Add(t.SignedFor(userID))
		m.Count++
	}

	out := make([]MonthSummary, 0, len(byMonth))
	for _, m := range byMonth {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

// Balance derives userID's BTC balance from the ledger. The USD valuation is
// left out when no rate is available.
func (u *Usecase) Balance(ctx context.Context, userID string) (*Balance, error) {
	ts, err := u.entries.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	b := &Balance{BTC: domain.BalanceOf(userID, ts)}
	rate, err := u.rates.BTCUSD(ctx)
	if err != nil {
		u.log.Warn("balance without usd valuation", zap.Error(err))
		return b, nil
	}
	usd := pricing.USDValue(b.BTC, rate)
	b.USD, b.Rate = &usd, &rate
	return b, nil
}

func (u *Usecase) Deposit(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Transaction, error) {
	if amount.LessThan(MinDeposit) || amount.GreaterThan(MaxDeposit) {
		return nil, fmt.Errorf("%w: deposit must be between %s and %s BTC", domain.ErrInvalidAmount, MinDeposit, MaxDeposit)
	}
	return u.Record(ctx, RecordInput{
		UserID:      userID,
		Type:        domain.TypeDeposit,
		Amount:      amount,
		Description: "Wallet deposit",
	})
}

// Withdraw debits userID when the ledger balance covers amount.
func (u *Usecase) Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Transaction, error) {
	t, err := u.NewEntry(ctx, RecordInput{
		UserID:      userID,
		Type:        domain.TypeWithdrawal,
		Amount:      amount,
		Description: "Wallet withdrawal",
	})
	if err != nil {
		return nil, err
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		ts, err := r.Transactions.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		if balance := domain.BalanceOf(userID, ts); amount.GreaterThan(balance) {
			return domain.ErrInsufficientFunds
		}
		return r.Transactions.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	u.Announce(ctx, t)
	return t, nil
}
