package market

import (
	"time"

	"github.com/daszybak/polymarket_tracker/internal/price"
)

// HistoryDepth is the number of price-change entries retained per instrument.
const HistoryDepth = 10

// HistoryEntry records one observed price change.
type HistoryEntry struct {
	Timestamp time.Time
	Side      string
	Price     price.Price
	Size      price.Size
}

// history is a fixed-capacity ring; the oldest entry is evicted on overflow.
type history struct {
	entries [HistoryDepth]HistoryEntry
	next    int
	count   int
}

func (h *history) append(e HistoryEntry) {
	h.entries[h.next] = e
	h.next = (h.next + 1) % HistoryDepth
	if h.count < HistoryDepth {
		h.count++
	}
}

// slice returns the retained entries in arrival order.
func (h *history) slice() []HistoryEntry {
	out := make([]HistoryEntry, 0, h.count)
	start := (h.next - h.count + HistoryDepth) % HistoryDepth
	for i := 0; i < h.count; i++ {
		out = append(out, h.entries[(start+i)%HistoryDepth])
	}
	return out
}

// Store maps asset IDs to their current book and bounded price history.
// State exists only for assets that have received at least one event.
//
// Store is not safe for concurrent use. The dispatcher on the session's
// receive loop is the only writer, so no locking is needed.
type Store struct {
	books     map[string]*Book
	histories map[string]*history
}

func NewStore() *Store {
	return &Store{
		books:     make(map[string]*Book),
		histories: make(map[string]*history),
	}
}

// UpdateBook replaces the book snapshot for an asset and returns the book.
func (s *Store) UpdateBook(assetID string, bids, asks []Level, eventTime time.Time) *Book {
	book, ok := s.books[assetID]
	if !ok {
		book = NewBook()
		s.books[assetID] = book
	}
	book.Replace(bids, asks, eventTime)
	return book
}

// AppendHistory pushes a price-change entry onto the asset's ring buffer.
func (s *Store) AppendHistory(assetID string, e HistoryEntry) {
	h, ok := s.histories[assetID]
	if !ok {
		h = &history{}
		s.histories[assetID] = h
	}
	h.append(e)
}

// Book returns the current book for an asset, if one has been received.
func (s *Store) Book(assetID string) (*Book, bool) {
	book, ok := s.books[assetID]
	return book, ok
}

// History returns the retained price changes for an asset in arrival order.
func (s *Store) History(assetID string) []HistoryEntry {
	h, ok := s.histories[assetID]
	if !ok {
		return nil
	}
	return h.slice()
}

// Assets lists every asset that has book state.
func (s *Store) Assets() []string {
	assets := make([]string, 0, len(s.books))
	for id := range s.books {
		assets = append(assets, id)
	}
	return assets
}

// HistoryTotal counts retained price-change entries across all assets.
func (s *Store) HistoryTotal() int {
	total := 0
	for _, h := range s.histories {
		total += h.count
	}
	return total
}
