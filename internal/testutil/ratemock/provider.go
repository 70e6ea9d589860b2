package ratemock

import (
	"context"

	"github.com/shopspring/decimal"

	"p2p-lending-backend/internal/domain/pricing"
)

var _ pricing.RateProvider = (*Provider)(nil)

// Provider is a function-backed pricing.RateProvider. With no func set it
// reports pricing.ErrRateUnavailable.
type Provider struct {
	BTCUSDFn func(ctx context.Context) (decimal.Decimal, error)
}

// Static always returns rate.
func Static(rate string) *Provider {
	r := decimal.RequireFromString(rate)
	return &Provider{BTCUSDFn: func(context.Context) (decimal.Decimal, error) { return r, nil }}
}

func (p *Provider) BTCUSD(ctx context.Context) (decimal.Decimal, error) {
	if p.BTCUSDFn != nil {
		return p.BTCUSDFn(ctx)
	}
	return decimal.Zero, pricing.ErrRateUnavailable
}
