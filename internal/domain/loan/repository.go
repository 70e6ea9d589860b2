package loan

import (
	"context"
	"time"
)

// MarketFilter narrows the open marketplace listing. Nil fields match everything.
type MarketFilter struct {
	Type          *Type
	HasCollateral *bool
}

// Activation is the conditional open → active update applied on accept.
type Activation struct {
	LoanID     string
	BorrowerID string
	LenderID   string
	At         time.Time
}

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// Locks the row for the rest of the surrounding transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	Save(ctx context.Context, l *Loan) error

	// Activate flips an open loan to active in a single guarded statement and
	// reports whether this call won. It never touches a loan that is not open.
	Activate(ctx context.Context, a Activation) (bool, error)

	ListOpen(ctx context.Context, f MarketFilter) ([]Loan, error)
	ListByParticipant(ctx context.Context, userID string, statuses ...Status) ([]Loan, error)
}
