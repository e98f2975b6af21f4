// Package market keeps per-instrument order book state and the analytics
// derived from it.
package market

import (
	"time"

	"github.com/google/btree"

	"github.com/daszybak/polymarket_tracker/internal/price"
)

// Level is one price level of an order book side.
type Level struct {
	Price price.Price `json:"price"`
	Size  price.Size  `json:"size"`
}

// lessAsc compares levels by price ascending (for asks: lowest first).
func lessAsc(a, b Level) bool {
	return a.Price < b.Price
}

// lessDesc compares levels by price descending (for bids: highest first).
func lessDesc(a, b Level) bool {
	return a.Price > b.Price
}

// Book holds the full depth snapshot for one instrument using btrees.
// Bids are sorted descending (highest price first).
// Asks are sorted ascending (lowest price first).
type Book struct {
	bids *btree.BTreeG[Level]
	asks *btree.BTreeG[Level]

	// UpdatedAt is the event time of the snapshot currently held.
	UpdatedAt time.Time
}

// NewBook creates an empty order book.
func NewBook() *Book {
	return &Book{
		bids: btree.NewG(32, lessDesc),
		asks: btree.NewG(32, lessAsc),
	}
}

// Replace swaps in a complete snapshot. The feed sends full books rather than
// diffs, so the previous levels are discarded wholesale.
func (b *Book) Replace(bids, asks []Level, eventTime time.Time) {
	b.bids = btree.NewG(32, lessDesc)
	b.asks = btree.NewG(32, lessAsc)

	for _, lvl := range bids {
		b.bids.ReplaceOrInsert(lvl)
	}
	for _, lvl := range asks {
		b.asks.ReplaceOrInsert(lvl)
	}

	b.UpdatedAt = eventTime
}

// BestBid returns the highest bid, if any.
func (b *Book) BestBid() (Level, bool) {
	return b.bids.Min()
}

// BestAsk returns the lowest ask, if any.
func (b *Book) BestAsk() (Level, bool) {
	return b.asks.Min()
}

// Bids returns the top n bid levels, best first. n <= 0 returns all levels.
func (b *Book) Bids(n int) []Level {
	return topN(b.bids, n)
}

// Asks returns the top n ask levels, best first. n <= 0 returns all levels.
func (b *Book) Asks(n int) []Level {
	return topN(b.asks, n)
}

func topN(tree *btree.BTreeG[Level], n int) []Level {
	if n <= 0 || n > tree.Len() {
		n = tree.Len()
	}

	levels := make([]Level, 0, n)
	tree.Ascend(func(lvl Level) bool {
		levels = append(levels, lvl)
		return len(levels) < n
	})
	return levels
}
