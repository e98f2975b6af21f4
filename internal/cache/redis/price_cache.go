package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/daszybak/polymarket_tracker/internal/price"
)

// ErrNotFound is returned when no price has been cached for an asset.
var ErrNotFound = errors.New("cache: not found")

// PriceCache stores per-asset prices as a Redis hash at "price:{assetID}"
// with fields "mid", "trade" and "ts" (Unix nanosecond timestamp).
type PriceCache struct {
	rdb *redis.Client
}

// NewPriceCache creates a PriceCache backed by the given Client.
func NewPriceCache(c *Client) *PriceCache {
	return &PriceCache{rdb: c.Underlying()}
}

func priceKey(assetID string) string {
	return "price:" + assetID
}

// SetMid stores the latest mid price for an asset.
func (pc *PriceCache) SetMid(ctx context.Context, assetID string, mid price.Price, ts time.Time) error {
	return pc.set(ctx, assetID, "mid", mid, ts)
}

// SetLastTrade stores the latest trade price for an asset.
func (pc *PriceCache) SetLastTrade(ctx context.Context, assetID string, p price.Price, ts time.Time) error {
	return pc.set(ctx, assetID, "trade", p, ts)
}

func (pc *PriceCache) set(ctx context.Context, assetID, field string, p price.Price, ts time.Time) error {
	fields := map[string]any{
		field: strconv.FormatInt(int64(p), 10),
		"ts":  strconv.FormatInt(ts.UnixNano(), 10),
	}
	if err := pc.rdb.HSet(ctx, priceKey(assetID), fields).Err(); err != nil {
		return fmt.Errorf("redis: set %s for %s: %w", field, assetID, err)
	}
	return nil
}

// Mid retrieves the latest cached mid price and its timestamp.
// It returns ErrNotFound when nothing has been cached for the asset.
func (pc *PriceCache) Mid(ctx context.Context, assetID string) (price.Price, time.Time, error) {
	return pc.get(ctx, assetID, "mid")
}

// LastTrade retrieves the latest cached trade price and its timestamp.
func (pc *PriceCache) LastTrade(ctx context.Context, assetID string) (price.Price, time.Time, error) {
	return pc.get(ctx, assetID, "trade")
}

func (pc *PriceCache) get(ctx context.Context, assetID, field string) (price.Price, time.Time, error) {
	vals, err := pc.rdb.HGetAll(ctx, priceKey(assetID)).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis: get %s for %s: %w", field, assetID, err)
	}

	raw, ok := vals[field]
	if !ok {
		return 0, time.Time{}, ErrNotFound
	}
	p, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis: parse %s for %s: %w", field, assetID, err)
	}

	var ts time.Time
	if rawTS, ok := vals["ts"]; ok {
		if ns, err := strconv.ParseInt(rawTS, 10, 64); err == nil {
			ts = time.Unix(0, ns)
		}
	}

	return price.Price(p), ts, nil
}
