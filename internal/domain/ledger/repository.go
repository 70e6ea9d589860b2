package ledger

import "context"

// Repository is append-only; entries cannot be updated or deleted.
type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	GetByTxID(ctx context.Context, txID string) (*Transaction, error)

	// Entries owned by userID or naming it as counterparty, newest first.
	ListByUser(ctx context.Context, userID string) ([]Transaction, error)
	// Entries of a loan, newest first; types filters when non-empty.
	ListByLoan(ctx context.Context, loanID string, types ...Type) ([]Transaction, error)
}
