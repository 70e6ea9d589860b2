package loan

import "errors"

var (
	ErrNotFound          = errors.New("loan not found")
	ErrUnavailable       = errors.New("loan no longer available")
	ErrInvalidTransition = errors.New("invalid loan status transition")
	ErrSelfMatch         = errors.New("cannot accept your own loan")
	ErrNotParticipant    = errors.New("user is not a party to this loan")
	ErrOverpayment       = errors.New("repayment exceeds outstanding balance")
)

// ValidationError reports an input outside the allowed bounds.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + " " + e.Message }
