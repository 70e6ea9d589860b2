package loan

import (
	"github.com/shopspring/decimal"

	"p2p-lending-backend/pkg/finance"
)

var (
	MinAmount   = decimal.RequireFromString("0.01")
	MaxAmount   = decimal.NewFromInt(10)
	MinInterest = decimal.NewFromInt(1)
	MaxInterest = decimal.NewFromInt(15)
)

const (
	MinDurationMonths = 1
	MaxDurationMonths = 36
)

// Terms are the user supplied parameters of a request or an offer. They are
// fixed at creation and never change afterwards.
type Terms struct {
	Amount         decimal.Decimal
	Interest       decimal.Decimal
	DurationMonths int
	HasCollateral  bool
}

// ValidateTerms enforces the bounds every loan must satisfy before it is
// posted to the marketplace. The first offending field is reported.
func ValidateTerms(t Terms) error {
	switch {
	case t.Amount.LessThan(MinAmount) || t.Amount.GreaterThan(MaxAmount):
		return &ValidationError{Field: "amount", Message: "must be between 0.01 and 10 BTC"}
	case !finance.HasBTCPrecision(t.Amount):
		return &ValidationError{Field: "amount", Message: "must have at most 8 decimal places"}
	case t.Interest.LessThan(MinInterest) || t.Interest.GreaterThan(MaxInterest):
		return &ValidationError{Field: "interest", Message: "must be between 1 and 15 percent"}
	case !t.Interest.Equal(t.Interest.Round(2)):
		return &ValidationError{Field: "interest", Message: "must have at most 2 decimal places"}
	case t.DurationMonths < MinDurationMonths || t.DurationMonths > MaxDurationMonths:
		return &ValidationError{Field: "durationMonths", Message: "must be between 1 and 36 months"}
	}
	return nil
}
