package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/daszybak/polymarket_tracker/internal/price"
)

const maximumBuffered = 1024

// Sink receives the batched rows. *Store satisfies it.
type Sink interface {
	InsertPriceHistoryBatch(ctx context.Context, args []InsertPriceHistoryParams) (int64, error)
	InsertTradeBatch(ctx context.Context, args []InsertTradeParams) (int64, error)
}

type record struct {
	trade bool
	time  time.Time
	asset string
	side  string
	price price.Price
	size  price.Size
}

// Recorder buffers observed price changes and trades and batch-inserts them
// on an interval. Record calls never block the caller: when the buffer is
// full the row is dropped with a warning.
type Recorder struct {
	sink     Sink
	interval time.Duration
	records  chan record
	logger   *slog.Logger
}

func NewRecorder(sink Sink, interval time.Duration, logger *slog.Logger) *Recorder {
	return &Recorder{
		sink:     sink,
		interval: interval,
		records:  make(chan record, maximumBuffered),
		logger:   logger.With("component", "recorder"),
	}
}

// RecordPriceChange queues one observed price change.
func (r *Recorder) RecordPriceChange(ts time.Time, assetID, side string, p price.Price, s price.Size) {
	r.push(record{time: ts, asset: assetID, side: side, price: p, size: s})
}

// RecordTrade queues one executed trade.
func (r *Recorder) RecordTrade(ts time.Time, assetID, side string, p price.Price, s price.Size) {
	r.push(record{trade: true, time: ts, asset: assetID, side: side, price: p, size: s})
}

func (r *Recorder) push(rec record) {
	select {
	case r.records <- rec:
	default:
		r.logger.Warn("recorder buffer full, dropping row", "asset", rec.asset)
	}
}

// Start flushes buffered rows every interval until ctx is cancelled. A final
// flush runs before returning so queued rows are not lost on shutdown.
func (r *Recorder) Start(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("started recorder", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.flush(context.WithoutCancel(ctx))
			r.logger.Info("recorder stopped", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			r.flush(ctx)
		}
	}
}

func (r *Recorder) flush(ctx context.Context) {
	var history []InsertPriceHistoryParams
	var trades []InsertTradeParams

	for {
		select {
		case rec := <-r.records:
			if rec.trade {
				trades = append(trades, InsertTradeParams{
					Time:    rec.time,
					AssetID: rec.asset,
					Side:    rec.side,
					Price:   int64(rec.price),
					Size:    int64(rec.size),
				})
			} else {
				history = append(history, InsertPriceHistoryParams{
					Time:    rec.time,
					AssetID: rec.asset,
					Side:    rec.side,
					Price:   int64(rec.price),
					Size:    int64(rec.size),
				})
			}
			continue
		default:
		}
		break
	}

	if len(history) > 0 {
		count, err := r.sink.InsertPriceHistoryBatch(ctx, history)
		if err != nil {
			r.logger.Error("failed to write price history", "error", err)
		} else {
			r.logger.Debug("wrote price history", "rows", count)
		}
	}
	if len(trades) > 0 {
		count, err := r.sink.InsertTradeBatch(ctx, trades)
		if err != nil {
			r.logger.Error("failed to write trades", "error", err)
		} else {
			r.logger.Debug("wrote trades", "rows", count)
		}
	}
}
