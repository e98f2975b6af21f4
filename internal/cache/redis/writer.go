package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/daszybak/polymarket_tracker/internal/price"
)

const maximumQueued = 256

// PriceSink receives the applied updates. *PriceCache satisfies it.
type PriceSink interface {
	SetMid(ctx context.Context, assetID string, mid price.Price, ts time.Time) error
	SetLastTrade(ctx context.Context, assetID string, p price.Price, ts time.Time) error
}

type update struct {
	trade bool
	asset string
	price price.Price
	time  time.Time
}

// Writer applies price updates to the cache off the caller's goroutine, so a
// slow cache never stalls the feed's receive loop. Queue calls never block:
// when the buffer is full the update is dropped with a warning.
type Writer struct {
	sink    PriceSink
	updates chan update
	logger  *slog.Logger
}

func NewWriter(sink PriceSink, logger *slog.Logger) *Writer {
	return &Writer{
		sink:    sink,
		updates: make(chan update, maximumQueued),
		logger:  logger.With("component", "price_cache"),
	}
}

// QueueMid queues the latest mid price for an asset.
func (w *Writer) QueueMid(assetID string, mid price.Price, ts time.Time) {
	w.push(update{asset: assetID, price: mid, time: ts})
}

// QueueLastTrade queues the latest trade price for an asset.
func (w *Writer) QueueLastTrade(assetID string, p price.Price, ts time.Time) {
	w.push(update{trade: true, asset: assetID, price: p, time: ts})
}

func (w *Writer) push(u update) {
	select {
	case w.updates <- u:
	default:
		w.logger.Warn("cache queue full, dropping update", "asset", u.asset)
	}
}

// Run applies queued updates until ctx is cancelled. Write failures are
// logged and skipped; the cache is best-effort.
func (w *Writer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u := <-w.updates:
			var err error
			if u.trade {
				err = w.sink.SetLastTrade(ctx, u.asset, u.price, u.time)
			} else {
				err = w.sink.SetMid(ctx, u.asset, u.price, u.time)
			}
			if err != nil {
				w.logger.Warn("couldn't write cached price", "asset", u.asset, "error", err)
			}
		}
	}
}
