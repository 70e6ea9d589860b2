package marketplace

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"p2p-lending-backend/internal/domain/events"
	"p2p-lending-backend/internal/domain/ledger"
	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/uow"
	"p2p-lending-backend/internal/testutil/eventmock"
	"p2p-lending-backend/internal/testutil/ledgermock"
	"p2p-lending-backend/internal/testutil/loanmock"
	"p2p-lending-backend/internal/testutil/ratemock"
	"p2p-lending-backend/internal/testutil/uowmock"
	ledgeruc "p2p-lending-backend/internal/usecase/ledger"
)

const (
	borrowerID = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	lenderID   = "cccccccccccccccccccccccccccccccc"
	strangerID = "dddddddddddddddddddddddddddddddd"
)

var d = decimal.RequireFromString

func openRequest() *loan.Loan {
	b := borrowerID
	return &loan.Loan{
		LoanID: "LN-1", Type: loan.TypeRequest, Status: loan.StatusOpen,
		Amount: d("0.5"), Interest: d("5"), DurationMonths: 6,
		CreatorID: borrowerID, BorrowerID: &b,
	}
}

func activeRequest() *loan.Loan {
	l := openRequest()
	lender := lenderID
	l.Status, l.LenderID = loan.StatusActive, &lender
	return l
}

type fixture struct {
	loans   *loanmock.Repo
	entries *ledgermock.Repo
	created []*ledger.Transaction
	pub     *eventmock.Recorder
	uc      *Usecase
}

func newFixture(l *loan.Loan) *fixture {
	f := &fixture{pub: &eventmock.Recorder{}}
	f.loans = &loanmock.Repo{
		GetByLoanIDFn: func(_ context.Context, loanID string) (*loan.Loan, error) {
			if l == nil || loanID != l.LoanID {
				return nil, loan.ErrNotFound
			}
			return l, nil
		},
		GetByLoanIDForUpdateFn: func(_ context.Context, loanID string) (*loan.Loan, error) {
			if l == nil || loanID != l.LoanID {
				return nil, loan.ErrNotFound
			}
			return l, nil
		},
		ActivateFn: func(context.Context, loan.Activation) (bool, error) { return true, nil },
	}
	f.entries = &ledgermock.Repo{
		CreateFn: func(_ context.Context, t *ledger.Transaction) error {
			f.created = append(f.created, t)
			return nil
		},
	}
	repos := uow.Repos{Loans: f.loans, Transactions: f.entries}
	lu := ledgeruc.NewUsecase(f.loans, f.entries, uowmock.Passthrough(repos), ratemock.Static("35000"), f.pub, nil)
	f.uc = NewUsecase(uowmock.Passthrough(repos), lu, f.pub, nil)
	return f
}

func TestAccept_RequestMakesAcceptorLender(t *testing.T) {
	f := newFixture(openRequest())
	var got loan.Activation
	f.loans.ActivateFn = func(_ context.Context, a loan.Activation) (bool, error) {
		got = a
		return true, nil
	}

	res, err := f.uc.Accept(context.Background(), "LN-1", lenderID)
	if err != nil {
		t.Fatalf("Accept err: %v", err)
	}
	if got.BorrowerID != borrowerID || got.LenderID != lenderID || got.At.IsZero() {
		t.Fatalf("activation: %+v", got)
	}
	if res.Loan.Status != loan.StatusActive || res.Loan.Lender() != lenderID || res.Loan.MatchedAt == nil {
		t.Fatalf("returned loan: %+v", res.Loan)
	}

	if len(f.created) != 1 {
		t.Fatalf("entries = %d, want one disbursement", len(f.created))
	}
	e := f.created[0]
	if e.Type != ledger.TypeDisbursement || e.UserID != lenderID || *e.CounterpartyID != borrowerID || !e.Amount.Equal(d("0.5")) {
		t.Fatalf("disbursement: %+v", e)
	}
	if !e.USDValue.Equal(d("17500")) {
		t.Fatalf("usd value = %s", e.USDValue)
	}

	want := []string{events.SubjectLoanActivated, events.SubjectLedgerRecorded}
	if s := f.pub.Subjects(); len(s) != 2 || s[0] != want[0] || s[1] != want[1] {
		t.Fatalf("published %v, want %v", s, want)
	}
}

func TestAccept_OfferMakesAcceptorBorrower(t *testing.T) {
	lender := lenderID
	offer := &loan.Loan{
		LoanID: "LN-1", Type: loan.TypeOffer, Status: loan.StatusOpen,
		Amount: d("1"), Interest: d("12"), DurationMonths: 12,
		CreatorID: lenderID, LenderID: &lender,
	}
	f := newFixture(offer)

	res, err := f.uc.Accept(context.Background(), "LN-1", borrowerID)
	if err != nil {
		t.Fatalf("Accept err: %v", err)
	}
	if res.Loan.Borrower() != borrowerID || res.Loan.Lender() != lenderID {
		t.Fatalf("roles: %+v", res.Loan)
	}
	if res.Disbursement.UserID != lenderID {
		t.Fatalf("disbursement must be owned by the lender: %+v", res.Disbursement)
	}
}

func TestAccept_Errors(t *testing.T) {
	tests := []struct {
		name     string
		loan     *loan.Loan
		loanID   string
		acceptor string
		lose     bool
		wantErr  error
	}{
		{name: "not found", loan: openRequest(), loanID: "LN-404", acceptor: lenderID, wantErr: loan.ErrNotFound},
		{name: "self match", loan: openRequest(), loanID: "LN-1", acceptor: borrowerID, wantErr: loan.ErrSelfMatch},
		{name: "already active", loan: activeRequest(), loanID: "LN-1", acceptor: strangerID, wantErr: loan.ErrUnavailable},
		{name: "lost the race", loan: openRequest(), loanID: "LN-1", acceptor: lenderID, lose: true, wantErr: loan.ErrUnavailable},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.loan)
			activateCalls := 0
			f.loans.ActivateFn = func(context.Context, loan.Activation) (bool, error) {
				activateCalls++
				return !tt.lose, nil
			}

			_, err := f.uc.Accept(context.Background(), tt.loanID, tt.acceptor)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
			if len(f.created) != 0 {
				t.Fatalf("no ledger entry may be written, got %d", len(f.created))
			}
			if len(f.pub.Events()) != 0 {
				t.Fatalf("no events on failure, got %v", f.pub.Subjects())
			}
			if tt.wantErr == loan.ErrSelfMatch && activateCalls != 0 {
				t.Fatal("self match must be rejected before any write")
			}
		})
	}
}

func TestAccept_LedgerFailureAborts(t *testing.T) {
	f := newFixture(openRequest())
	f.entries.CreateFn = func(context.Context, *ledger.Transaction) error { return errors.New("disk full") }

	if _, err := f.uc.Accept(context.Background(), "LN-1", lenderID); err == nil {
		t.Fatal("expected error")
	}
	if len(f.pub.Events()) != 0 {
		t.Fatalf("no events when the transaction fails, got %v", f.pub.Subjects())
	}
}

func TestAccept_NilUoW(t *testing.T) {
	uc := NewUsecase(nil, nil, nil, nil)
	if _, err := uc.Accept(context.Background(), "LN-1", lenderID); !errors.Is(err, loan.ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
}

func TestRepay_PartialThenComplete(t *testing.T) {
	l := activeRequest()
	f := newFixture(l)
	f.entries.ListByLoanFn = func(_ context.Context, loanID string, types ...ledger.Type) ([]ledger.Transaction, error) {
		out := make([]ledger.Transaction, 0, len(f.created))
		for _, e := range f.created {
			out = append(out, *e)
		}
		return out, nil
	}
	saves := 0
	f.loans.SaveFn = func(_ context.Context, got *loan.Loan) error {
		saves++
		if got.Status != loan.StatusCompleted {
			t.Fatalf("only completion saves the loan, got %s", got.Status)
		}
		return nil
	}
	f.uc.now = func() time.Time { return time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	res, err := f.uc.Repay(ctx, "LN-1", borrowerID, d("0.3"))
	if err != nil {
		t.Fatalf("first repay: %v", err)
	}
	if res.Loan.Status != loan.StatusActive || !res.Progress.Remaining.Equal(d("0.2125")) {
		t.Fatalf("after partial: status=%s progress=%+v", res.Loan.Status, res.Progress)
	}
	e := res.Transaction
	if e.Type != ledger.TypeRepayment || e.UserID != lenderID || *e.CounterpartyID != borrowerID {
		t.Fatalf("repayment entry: %+v", e)
	}

	if _, err := f.uc.Repay(ctx, "LN-1", borrowerID, d("0.21250001")); !errors.Is(err, loan.ErrOverpayment) {
		t.Fatalf("overpay: want ErrOverpayment, got %v", err)
	}

	res, err = f.uc.Repay(ctx, "LN-1", borrowerID, d("0.2125"))
	if err != nil {
		t.Fatalf("final repay: %v", err)
	}
	if res.Loan.Status != loan.StatusCompleted || res.Loan.ClosedAt == nil || saves != 1 {
		t.Fatalf("loan not completed: %+v saves=%d", res.Loan, saves)
	}
	if !res.Progress.Percent.Equal(d("100")) || !res.Progress.Remaining.IsZero() {
		t.Fatalf("progress: %+v", res.Progress)
	}

	if _, err := f.uc.Repay(ctx, "LN-1", borrowerID, d("0.01")); !errors.Is(err, loan.ErrInvalidTransition) {
		t.Fatalf("repay completed loan: want ErrInvalidTransition, got %v", err)
	}

	s := f.pub.Subjects()
	if len(s) != 3 || s[2] != events.SubjectLoanCompleted {
		t.Fatalf("published %v", s)
	}
}

func TestRepay_Guards(t *testing.T) {
	tests := []struct {
		name    string
		loan    *loan.Loan
		caller  string
		amount  string
		wantErr error
	}{
		{name: "zero amount", loan: activeRequest(), caller: borrowerID, amount: "0", wantErr: ledger.ErrInvalidAmount},
		{name: "sub-satoshi", loan: activeRequest(), caller: borrowerID, amount: "0.000000001", wantErr: ledger.ErrInvalidAmount},
		{name: "lender cannot repay", loan: activeRequest(), caller: lenderID, amount: "0.1", wantErr: loan.ErrNotParticipant},
		{name: "stranger", loan: activeRequest(), caller: strangerID, amount: "0.1", wantErr: loan.ErrNotParticipant},
		{name: "open loan", loan: openRequest(), caller: borrowerID, amount: "0.1", wantErr: loan.ErrInvalidTransition},
		{name: "unknown loan", loan: nil, caller: borrowerID, amount: "0.1", wantErr: loan.ErrNotFound},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.loan)
			_, err := f.uc.Repay(context.Background(), "LN-1", tt.caller, d(tt.amount))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
			if len(f.created) != 0 {
				t.Fatal("nothing may be recorded")
			}
		})
	}
}
