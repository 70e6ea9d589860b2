package pricing

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrRateUnavailable = errors.New("btc/usd rate unavailable")

// RateProvider returns the BTC/USD reference rate in effect now.
type RateProvider interface {
	BTCUSD(ctx context.Context) (decimal.Decimal, error)
}

// USDValue converts a BTC amount at rate, rounded to cents.
func USDValue(btc, rate decimal.Decimal) decimal.Decimal {
	return btc.Mul(rate).Round(2)
}
