package finance

import (
	"errors"

	"github.com/shopspring/decimal"
)

// BTCPlaces is the precision of every BTC amount (1 satoshi).
const BTCPlaces int32 = 8

var (
	ErrNonPositivePrincipal = errors.New("principal must be greater than zero")
	ErrNonPositiveRate      = errors.New("annual rate must be greater than zero")
	ErrInvalidDuration      = errors.New("duration must be at least one month")
)

var (
	hundred      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
)

// Terms is the repayment schedule of a simple-interest loan.
type Terms struct {
	Principal      decimal.Decimal `json:"principal"`
	InterestAmount decimal.Decimal `json:"interestAmount"`
	TotalRepayment decimal.Decimal `json:"totalRepayment"`
	MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
	DurationMonths int             `json:"durationMonths"`
}

// Calculate pro-rates the annual rate over the loan duration (no compounding):
//
//	total = principal + principal * rate/100 * months/12
//
// Interest and the monthly payment are rounded half-up to 8 places.
func Calculate(principal, annualRatePercent decimal.Decimal, durationMonths int) (Terms, error) {
	if !principal.IsPositive() {
		return Terms{}, ErrNonPositivePrincipal
	}
	if !annualRatePercent.IsPositive() {
		return Terms{}, ErrNonPositiveRate
	}
	if durationMonths < 1 {
		return Terms{}, ErrInvalidDuration
	}

	months := decimal.NewFromInt(int64(durationMonths))
	interest := principal.Mul(annualRatePercent).Mul(months).
		DivRound(hundred.Mul(monthsInYear), BTCPlaces)
	total := principal.Add(interest)

	return Terms{
		Principal:      principal,
		InterestAmount: interest,
		TotalRepayment: total,
		MonthlyPayment: total.DivRound(months, BTCPlaces),
		DurationMonths: durationMonths,
	}, nil
}

// Progress describes how much of a loan's total repayment has been paid back.
type Progress struct {
	Repaid    decimal.Decimal `json:"repaid"`
	Remaining decimal.Decimal `json:"remaining"`
	Percent   decimal.Decimal `json:"percent"`
}

// ProgressOf reports repayment progress; remaining never goes below zero and
// percent is capped at 100.
func ProgressOf(t Terms, repaid decimal.Decimal) Progress {
	if repaid.IsNegative() {
		repaid = decimal.Zero
	}
	remaining := decimal.Max(t.TotalRepayment.Sub(repaid), decimal.Zero)

	percent := decimal.Zero
	if t.TotalRepayment.IsPositive() {
		percent = decimal.Min(repaid.Mul(hundred).DivRound(t.TotalRepayment, 2), hundred)
	}
	return Progress{Repaid: repaid, Remaining: remaining, Percent: percent}
}

// RealizedInterest is the interest share of what has been repaid so far. Each
// repayment carries interest in the same proportion as the whole schedule.
func RealizedInterest(t Terms, repaid decimal.Decimal) decimal.Decimal {
	if !repaid.IsPositive() || !t.TotalRepayment.IsPositive() {
		return decimal.Zero
	}
	share := repaid.Mul(t.InterestAmount).DivRound(t.TotalRepayment, BTCPlaces)
	return decimal.Min(share, t.InterestAmount)
}

// HasBTCPrecision reports whether d fits in satoshi precision.
func HasBTCPrecision(d decimal.Decimal) bool {
	return d.Equal(d.Round(BTCPlaces))
}
