package stream

import (
	"log/slog"
	"time"

	"github.com/daszybak/polymarket_tracker/internal/market"
)

// Handlers receives dispatched events. Nil fields are skipped. OnUnparseable
// is the diagnostic path for frames the decoder rejected.
type Handlers struct {
	OnBook        func(BookUpdated)
	OnPriceChange func(PriceChanged)
	OnTrade       func(LastTrade)
	OnComment     func(Comment)
	OnReaction    func(Reaction)
	OnUnparseable func(Unknown)
}

// Dispatcher routes decoded events to the instrument store and to the
// registered handlers. It runs on the session's receive loop and is the
// store's only writer.
type Dispatcher struct {
	store    *market.Store
	handlers Handlers
	logger   *slog.Logger
}

func NewDispatcher(store *market.Store, handlers Handlers, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		store:    store,
		handlers: handlers,
		logger:   logger.With("component", "dispatcher"),
	}
}

// Dispatch processes one event. Control frames are consumed here; every
// other kind either mutates the store, notifies a handler, or both.
func (d *Dispatcher) Dispatch(ev Event) {
	switch e := ev.(type) {
	case Book:
		ts := e.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}
		book := d.store.UpdateBook(e.AssetID, e.Bids, e.Asks, ts)

		var metrics *market.SpreadMetrics
		if m, ok := book.Metrics(); ok {
			metrics = &m
		}
		if d.handlers.OnBook != nil {
			d.handlers.OnBook(BookUpdated{Book: e, Metrics: metrics})
		}

	case PriceChange:
		ts := e.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}
		// Every change is recorded; the original 3-per-message cap was
		// display truncation, which belongs to the renderer.
		for _, ch := range e.Changes {
			d.store.AppendHistory(ch.AssetID, market.HistoryEntry{
				Timestamp: ts,
				Side:      ch.Side,
				Price:     ch.Price,
				Size:      ch.Size,
			})
			if d.handlers.OnPriceChange != nil {
				d.handlers.OnPriceChange(PriceChanged{
					Change:    ch,
					Market:    e.Market,
					Timestamp: ts,
				})
			}
		}

	case LastTrade:
		if d.handlers.OnTrade != nil {
			d.handlers.OnTrade(e)
		}

	case Comment:
		if d.handlers.OnComment != nil {
			d.handlers.OnComment(e)
		}

	case Reaction:
		if d.handlers.OnReaction != nil {
			d.handlers.OnReaction(e)
		}

	case Control:
		// Liveness only. Never forwarded.

	case Unknown:
		d.logger.Debug("unparseable frame", "error", e.Err, "size", len(e.Raw))
		if d.handlers.OnUnparseable != nil {
			d.handlers.OnUnparseable(e)
		}
	}
}
