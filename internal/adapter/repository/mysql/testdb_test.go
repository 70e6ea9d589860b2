package mysql

import (
	"path/filepath"
	"testing"
	"time"

	ledgerDomain "p2p-lending-backend/internal/domain/ledger"
	loanDomain "p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/infrastructure/db"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// openTestDB creates a file-backed sqlite DB per test, opened the way the
// service opens it with DB_DRIVER=sqlite.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open("sqlite", filepath.Join(t.TempDir(), "lending.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func makeLoan(t *testing.T, loanID, creatorID string, typ loanDomain.Type) *loanDomain.Loan {
	t.Helper()
	l, err := loanDomain.New(loanID, creatorID, typ, loanDomain.Terms{
		Amount:         decimal.RequireFromString("0.5"),
		Interest:       decimal.NewFromInt(5),
		DurationMonths: 6,
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("loan.New: %v", err)
	}
	return l
}

func makeEntry(txID, userID string, typ ledgerDomain.Type, amount string) *ledgerDomain.Transaction {
	return &ledgerDomain.Transaction{
		TxID:     txID,
		UserID:   userID,
		Type:     typ,
		Amount:   decimal.RequireFromString(amount),
		USDRate:  decimal.NewFromInt(35000),
		USDValue: decimal.RequireFromString(amount).Mul(decimal.NewFromInt(35000)).Round(2),
	}
}
