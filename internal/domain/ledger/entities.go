package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("transaction not found")
	ErrInvalidType       = errors.New("unknown transaction type")
	ErrInvalidAmount     = errors.New("amount must be positive with at most 8 decimal places")
	ErrInsufficientFunds = errors.New("insufficient balance")
)

type Type string

const (
	TypeDeposit      Type = "deposit"
	TypeWithdrawal   Type = "withdrawal"
	TypeRepayment    Type = "repayment"    // received by the lender
	TypeDisbursement Type = "disbursement" // paid out by the lender
)

var Types = []Type{TypeDeposit, TypeWithdrawal, TypeRepayment, TypeDisbursement}

func (t Type) Valid() bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}

// Sign is +1 for credits and -1 for debits, as seen by the entry owner.
// It depends on the type only; entries never carry their own sign.
func (t Type) Sign() int {
	switch t {
	case TypeDeposit, TypeRepayment:
		return 1
	case TypeWithdrawal, TypeDisbursement:
		return -1
	}
	return 0
}

// Table: transactions. Rows are insert-only.
type Transaction struct {
	ID             uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	TxID           string          `gorm:"column:tx_id;type:char(32);not null;uniqueIndex:ux_transactions_tx_id" json:"id"`
	UserID         string          `gorm:"column:user_id;type:char(32);not null;index:idx_transactions_user_created" json:"userId"`
	CounterpartyID *string         `gorm:"column:counterparty_id;type:char(32);index" json:"counterpartyId,omitempty"`
	LoanID         *string         `gorm:"column:loan_id;type:char(32);index" json:"loanId,omitempty"`
	Type           Type            `gorm:"column:type;size:16;not null" json:"type"`
	Amount         decimal.Decimal `gorm:"column:amount;type:decimal(20,8);not null" json:"amount"`
	USDRate        decimal.Decimal `gorm:"column:usd_rate;type:decimal(20,2);not null" json:"usdRate"`
	USDValue       decimal.Decimal `gorm:"column:usd_value;type:decimal(24,2);not null" json:"usdValue"`
	Description    string          `gorm:"column:description;type:text" json:"description"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime;index:idx_transactions_user_created" json:"createdAt"`
}

func (Transaction) TableName() string { return "transactions" }

// SignedFor returns the amount as it moves userID's balance: the owner sees the
// type-derived sign, the counterparty the mirror of it, anyone else zero.
func (t *Transaction) SignedFor(userID string) decimal.Decimal {
	signed := t.Amount.Mul(decimal.NewFromInt(int64(t.Type.Sign())))
	switch {
	case t.UserID == userID:
		return signed
	case t.CounterpartyID != nil && *t.CounterpartyID == userID:
		return signed.Neg()
	}
	return decimal.Zero
}

// Involves reports whether userID owns t or is its counterparty.
func (t *Transaction) Involves(userID string) bool {
	return userID != "" && (t.UserID == userID || (t.CounterpartyID != nil && *t.CounterpartyID == userID))
}

// Sum adds the magnitudes of ts regardless of type.
func Sum(ts []Transaction) decimal.Decimal {
	total := decimal.Zero
	for i := range ts {
		total = total.Add(ts[i].Amount)
	}
	return total
}

// BalanceOf nets every entry as seen by userID.
func BalanceOf(userID string, ts []Transaction) decimal.Decimal {
	total := decimal.Zero
	for i := range ts {
		total = total.Add(ts[i].SignedFor(userID))
	}
	return total
}
