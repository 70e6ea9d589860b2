package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "p2p-lending-backend/internal/domain/ledger"
	"p2p-lending-backend/pkg/id"

	"github.com/shopspring/decimal"
)

func TestTransaction_CreateAndGet(t *testing.T) {
	repo := NewTransactionRepository(openTestDB(t))
	ctx := context.Background()

	txID := id.NewID32()
	e := makeEntry(txID, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", domain.TypeDeposit, "0.12345678")
	if err := repo.Create(ctx, e); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByTxID(ctx, txID)
	if err != nil {
		t.Fatalf("GetByTxID: %v", err)
	}
	if !got.Amount.Equal(decimal.RequireFromString("0.12345678")) {
		t.Fatalf("amount = %s", got.Amount)
	}
	if !got.USDValue.Equal(decimal.RequireFromString("4320.99")) {
		t.Fatalf("usd value = %s, want 4320.99", got.USDValue)
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("created_at not assigned")
	}

	if _, err := repo.GetByTxID(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestTransaction_ListByUser_IncludesCounterpartyNewestFirst(t *testing.T) {
	repo := NewTransactionRepository(openTestDB(t))
	ctx := context.Background()

	const lender = "llllllllllllllllllllllllllllllll"
	const borrower = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	base := time.Now().UTC().Add(-time.Hour)

	dep := makeEntry("11111111111111111111111111111111", lender, domain.TypeDeposit, "1")
	dep.CreatedAt = base
	disb := makeEntry("22222222222222222222222222222222", lender, domain.TypeDisbursement, "0.5")
	disb.CounterpartyID = ptr(borrower)
	disb.CreatedAt = base.Add(time.Minute)
	other := makeEntry("33333333333333333333333333333333", "ffffffffffffffffffffffffffffffff", domain.TypeDeposit, "2")
	other.CreatedAt = base.Add(2 * time.Minute)

	for _, e := range []*domain.Transaction{dep, disb, other} {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	lenderView, err := repo.ListByUser(ctx, lender)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(lenderView) != 2 || lenderView[0].TxID != disb.TxID || lenderView[1].TxID != dep.TxID {
		t.Fatalf("lender view not newest first: %+v", lenderView)
	}

	borrowerView, _ := repo.ListByUser(ctx, borrower)
	if len(borrowerView) != 1 || borrowerView[0].TxID != disb.TxID {
		t.Fatalf("borrower must see the disbursement as counterparty: %+v", borrowerView)
	}
}

func TestTransaction_ListByLoan(t *testing.T) {
	repo := NewTransactionRepository(openTestDB(t))
	ctx := context.Background()

	loanID := id.NewID32()
	disb := makeEntry(id.NewID32(), "llllllllllllllllllllllllllllllll", domain.TypeDisbursement, "0.5")
	disb.LoanID = &loanID
	rep := makeEntry(id.NewID32(), "llllllllllllllllllllllllllllllll", domain.TypeRepayment, "0.1")
	rep.LoanID = &loanID
	unrelated := makeEntry(id.NewID32(), "llllllllllllllllllllllllllllllll", domain.TypeDeposit, "3")
	for _, e := range []*domain.Transaction{disb, rep, unrelated} {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	all, err := repo.ListByLoan(ctx, loanID)
	if err != nil {
		t.Fatalf("ListByLoan: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("want 2 loan entries, got %d", len(all))
	}

	repayments, _ := repo.ListByLoan(ctx, loanID, domain.TypeRepayment)
	if len(repayments) != 1 || repayments[0].Type != domain.TypeRepayment {
		t.Fatalf("type filter failed: %+v", repayments)
	}
}
