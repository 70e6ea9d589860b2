package events

import "context"

const (
	SubjectLoanCreated    = "lending.loan.created"
	SubjectLoanActivated  = "lending.loan.activated"
	SubjectLoanCompleted  = "lending.loan.completed"
	SubjectLoanDefaulted  = "lending.loan.defaulted"
	SubjectLedgerRecorded = "lending.ledger.recorded"
)

// Publisher emits domain events after the state change has been committed.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
