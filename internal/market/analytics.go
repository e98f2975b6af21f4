package market

import (
	"github.com/daszybak/polymarket_tracker/internal/price"
)

// SpreadMetrics are derived from the top of book on every snapshot and are
// never stored.
type SpreadMetrics struct {
	// Spread is best ask minus best bid. A crossed book from a malformed
	// feed yields a negative value; it is surfaced rather than dropped so
	// callers can flag it as a data-quality signal.
	Spread price.Price

	// SpreadPct is the spread as a percentage of the best ask. Defined as 0
	// when the best ask is 0; that is a division-by-zero policy, not a
	// market convention.
	SpreadPct float64

	// Mid is the arithmetic mean of best bid and best ask.
	Mid price.Price
}

// ComputeSpread derives spread metrics from the two sides of a book snapshot.
// It returns false when either side is empty. The best level is located by
// scanning, so callers need not guarantee a sort order.
func ComputeSpread(bids, asks []Level) (SpreadMetrics, bool) {
	if len(bids) == 0 || len(asks) == 0 {
		return SpreadMetrics{}, false
	}

	bestBid := bids[0].Price
	for _, lvl := range bids[1:] {
		if lvl.Price > bestBid {
			bestBid = lvl.Price
		}
	}

	bestAsk := asks[0].Price
	for _, lvl := range asks[1:] {
		if lvl.Price < bestAsk {
			bestAsk = lvl.Price
		}
	}

	return spreadFrom(bestBid, bestAsk), true
}

// Metrics derives spread metrics from the book's current top of book.
func (b *Book) Metrics() (SpreadMetrics, bool) {
	bid, okBid := b.BestBid()
	ask, okAsk := b.BestAsk()
	if !okBid || !okAsk {
		return SpreadMetrics{}, false
	}
	return spreadFrom(bid.Price, ask.Price), true
}

func spreadFrom(bestBid, bestAsk price.Price) SpreadMetrics {
	spread := bestAsk - bestBid

	var pct float64
	if bestAsk != 0 {
		pct = spread.Float64() / bestAsk.Float64() * 100
	}

	return SpreadMetrics{
		Spread:    spread,
		SpreadPct: pct,
		Mid:       (bestBid + bestAsk) / 2,
	}
}
