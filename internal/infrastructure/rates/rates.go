package rates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"p2p-lending-backend/internal/domain/pricing"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultKey is where operators (or a price feed) publish the current rate.
const DefaultKey = "rates:btc:usd"

// Fixed always returns the configured reference rate.
type Fixed struct{ Rate decimal.Decimal }

func (f Fixed) BTCUSD(context.Context) (decimal.Decimal, error) {
	if !f.Rate.IsPositive() {
		return decimal.Zero, pricing.ErrRateUnavailable
	}
	return f.Rate, nil
}

// RedisCached reads the rate from redis and falls back to Next on a miss,
// writing the fallback value back with TTL so every request in that window
// values transactions at the same rate.
type RedisCached struct {
	rdb  *redis.Client
	next pricing.RateProvider
	key  string
	ttl  time.Duration
	log  *zap.Logger
}

func NewRedisCached(rdb *redis.Client, next pricing.RateProvider, ttl time.Duration, log *zap.Logger) *RedisCached {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisCached{rdb: rdb, next: next, key: DefaultKey, ttl: ttl, log: log}
}

func (c *RedisCached) BTCUSD(ctx context.Context) (decimal.Decimal, error) {
	raw, err := c.rdb.Get(ctx, c.key).Result()
	switch {
	case err == nil:
		rate, perr := decimal.NewFromString(raw)
		if perr == nil && rate.IsPositive() {
			return rate, nil
		}
		c.log.Warn("ignoring malformed cached rate", zap.String("key", c.key), zap.String("value", raw))
	case !errors.Is(err, redis.Nil):
		// cache outage must not block ledger writes
		c.log.Warn("rate cache unavailable", zap.Error(err))
	}

	rate, err := c.next.BTCUSD(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("rate fallback: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key, rate.String(), c.ttl).Err(); err != nil {
		c.log.Warn("rate cache write failed", zap.Error(err))
	}
	return rate, nil
}
