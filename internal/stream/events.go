// Package stream implements the real-time market data engine: it owns the
// websocket connection lifecycle, decodes feed frames into typed events, and
// dispatches them to per-instrument state and registered handlers.
package stream

import (
	"time"

	"github.com/daszybak/polymarket_tracker/internal/market"
	"github.com/daszybak/polymarket_tracker/internal/price"
)

// Kind discriminates decoded events.
type Kind int

const (
	KindUnknown Kind = iota
	KindBook
	KindPriceChange
	KindLastTrade
	KindComment
	KindReaction
	KindControl
)

func (k Kind) String() string {
	switch k {
	case KindBook:
		return "book"
	case KindPriceChange:
		return "price_change"
	case KindLastTrade:
		return "last_trade_price"
	case KindComment:
		return "comment"
	case KindReaction:
		return "reaction"
	case KindControl:
		return "control"
	default:
		return "unknown"
	}
}

// Event is a decoded feed frame.
type Event interface {
	Kind() Kind
}

// Book is a full top-of-book snapshot for one asset. It replaces any prior
// book state for that asset; the feed never sends diffs.
type Book struct {
	AssetID   string
	Market    string
	Bids      []market.Level
	Asks      []market.Level
	Timestamp time.Time
}

func (Book) Kind() Kind { return KindBook }

// Change is one constituent of a price_change message.
type Change struct {
	AssetID string
	Side    string
	Price   price.Price
	Size    price.Size
}

// PriceChange carries the price level changes for one market.
type PriceChange struct {
	Market    string
	Timestamp time.Time
	Changes   []Change
}

func (PriceChange) Kind() Kind { return KindPriceChange }

// LastTrade reports an executed trade. No state is retained for trades
// beyond the notification itself.
type LastTrade struct {
	AssetID   string
	Side      string
	Price     price.Price
	Size      price.Size
	Timestamp time.Time
}

func (LastTrade) Kind() Kind { return KindLastTrade }

// Comment is a social comment from the RTDS feed.
type Comment struct {
	Author     string
	Body       string
	EntityType string
	EntityID   int64
}

func (Comment) Kind() Kind { return KindComment }

// Reaction is a reaction to a comment.
type Reaction struct {
	CommentID int64
}

func (Reaction) Kind() Kind { return KindReaction }

// Control is a literal PING/PONG keepalive frame. Consumed internally,
// never forwarded to handlers.
type Control struct {
	Text string
}

func (Control) Kind() Kind { return KindControl }

// Unknown carries a frame that couldn't be decoded: malformed JSON, a missing
// or unrecognized discriminator, or a payload that failed its variant parse.
// Unknown frames are diagnostic, never fatal.
type Unknown struct {
	Raw []byte
	Err error
}

func (Unknown) Kind() Kind { return KindUnknown }

// BookUpdated is the enriched notification emitted per book snapshot.
type BookUpdated struct {
	Book

	// Metrics is nil when either side of the book is empty.
	Metrics *market.SpreadMetrics
}

// PriceChanged is emitted once per constituent change of a price_change
// message.
type PriceChanged struct {
	Change

	Market    string
	Timestamp time.Time
}
