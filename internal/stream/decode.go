package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/daszybak/polymarket_tracker/internal/market"
	"github.com/daszybak/polymarket_tracker/internal/price"
)

const (
	bookEvent        = "book"
	priceChangeEvent = "price_change"
	lastTradeEvent   = "last_trade_price"

	commentsTopic   = "comments"
	commentCreated  = "comment_created"
	reactionCreated = "reaction_created"
)

// envelope holds the discriminators of both feeds: the market feed uses
// event_type, the RTDS feed uses topic/type.
type envelope struct {
	EventType string `json:"event_type"`
	Topic     string `json:"topic"`
	Type      string `json:"type"`
}

// Decode turns one raw frame into a typed event. It never returns a Go
// error: malformed frames are expected occasionally and come back as Unknown
// so the session keeps running.
func Decode(raw []byte) Event {
	switch string(bytes.TrimSpace(raw)) {
	case "PING", "PONG":
		return Control{Text: string(bytes.TrimSpace(raw))}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Unknown{Raw: raw, Err: fmt.Errorf("couldn't parse frame: %w", err)}
	}

	switch {
	case env.EventType != "":
		return decodeMarket(env.EventType, raw)
	case env.Topic != "" || env.Type != "":
		return decodeRTDS(env, raw)
	default:
		return Unknown{Raw: raw, Err: errors.New("frame has no event discriminator")}
	}
}

// DecodeAll handles the feed's occasional JSON-array frames (the initial
// book dump arrives as an array of events) by decoding each element.
func DecodeAll(raw []byte) []Event {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []Event{Decode(raw)}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return []Event{Unknown{Raw: raw, Err: fmt.Errorf("couldn't parse frame array: %w", err)}}
	}

	events := make([]Event, 0, len(elems))
	for _, elem := range elems {
		events = append(events, Decode(elem))
	}
	return events
}

type bookMessage struct {
	AssetID   string         `json:"asset_id"`
	Market    string         `json:"market"`
	Timestamp string         `json:"timestamp"`
	Bids      []market.Level `json:"bids"`
	Asks      []market.Level `json:"asks"`

	// Older feed versions named the sides buys/sells.
	Buys  []market.Level `json:"buys"`
	Sells []market.Level `json:"sells"`
}

type changeMessage struct {
	AssetID string      `json:"asset_id"`
	Side    string      `json:"side"`
	Price   price.Price `json:"price"`
	Size    price.Size  `json:"size"`
}

type priceChangeMessage struct {
	Market    string          `json:"market"`
	AssetID   string          `json:"asset_id"`
	Timestamp string          `json:"timestamp"`
	Changes   []changeMessage `json:"price_changes"`
}

type lastTradeMessage struct {
	AssetID   string      `json:"asset_id"`
	Side      string      `json:"side"`
	Price     price.Price `json:"price"`
	Size      price.Size  `json:"size"`
	Timestamp string      `json:"timestamp"`
}

func decodeMarket(eventType string, raw []byte) Event {
	switch eventType {
	case bookEvent:
		var msg bookMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return Unknown{Raw: raw, Err: fmt.Errorf("couldn't parse book event: %w", err)}
		}
		bids, asks := msg.Bids, msg.Asks
		if len(bids) == 0 && len(msg.Buys) > 0 {
			bids = msg.Buys
		}
		if len(asks) == 0 && len(msg.Sells) > 0 {
			asks = msg.Sells
		}
		return Book{
			AssetID:   msg.AssetID,
			Market:    msg.Market,
			Bids:      bids,
			Asks:      asks,
			Timestamp: parseMillis(msg.Timestamp),
		}

	case priceChangeEvent:
		var msg priceChangeMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return Unknown{Raw: raw, Err: fmt.Errorf("couldn't parse price change event: %w", err)}
		}
		changes := make([]Change, 0, len(msg.Changes))
		for _, ch := range msg.Changes {
			assetID := ch.AssetID
			if assetID == "" {
				assetID = msg.AssetID
			}
			changes = append(changes, Change{
				AssetID: assetID,
				Side:    ch.Side,
				Price:   ch.Price,
				Size:    ch.Size,
			})
		}
		return PriceChange{
			Market:    msg.Market,
			Timestamp: parseMillis(msg.Timestamp),
			Changes:   changes,
		}

	case lastTradeEvent:
		var msg lastTradeMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return Unknown{Raw: raw, Err: fmt.Errorf("couldn't parse last trade event: %w", err)}
		}
		return LastTrade{
			AssetID:   msg.AssetID,
			Side:      msg.Side,
			Price:     msg.Price,
			Size:      msg.Size,
			Timestamp: parseMillis(msg.Timestamp),
		}

	default:
		return Unknown{Raw: raw, Err: fmt.Errorf("unknown event type %q", eventType)}
	}
}

type commentMessage struct {
	Payload struct {
		Profile struct {
			Name string `json:"name"`
		} `json:"profile"`
		Body             string `json:"body"`
		ParentEntityType string `json:"parentEntityType"`
		ParentEntityID   int64  `json:"parentEntityID"`
		CommentID        int64  `json:"commentID"`
	} `json:"payload"`
}

func decodeRTDS(env envelope, raw []byte) Event {
	switch env.Type {
	case commentCreated:
		var msg commentMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return Unknown{Raw: raw, Err: fmt.Errorf("couldn't parse comment event: %w", err)}
		}
		return Comment{
			Author:     msg.Payload.Profile.Name,
			Body:       msg.Payload.Body,
			EntityType: msg.Payload.ParentEntityType,
			EntityID:   msg.Payload.ParentEntityID,
		}

	case reactionCreated:
		var msg commentMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return Unknown{Raw: raw, Err: fmt.Errorf("couldn't parse reaction event: %w", err)}
		}
		return Reaction{CommentID: msg.Payload.CommentID}

	default:
		return Unknown{Raw: raw, Err: fmt.Errorf("unknown rtds type %q on topic %q", env.Type, env.Topic)}
	}
}

// parseMillis parses the feed's millisecond-epoch timestamp strings. A zero
// time is returned for missing or malformed values; the dispatcher falls
// back to the receive time.
func parseMillis(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
