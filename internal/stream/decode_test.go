package stream

import (
	"testing"
	"time"
)

func TestDecodeControlFrames(t *testing.T) {
	for _, raw := range []string{"PING", "PONG"} {
		ev := Decode([]byte(raw))
		ctrl, ok := ev.(Control)
		if !ok {
			t.Fatalf("Decode(%q) = %T, want Control", raw, ev)
		}
		if ctrl.Text != raw {
			t.Errorf("control text = %q, want %q", ctrl.Text, raw)
		}
	}
}

func TestDecodeBook(t *testing.T) {
	raw := []byte(`{
		"event_type": "book",
		"asset_id": "abc",
		"market": "0xdead",
		"timestamp": "1748800000000",
		"bids": [{"price": "0.65", "size": "100"}],
		"asks": [{"price": "0.68", "size": "50"}]
	}`)

	ev := Decode(raw)
	book, ok := ev.(Book)
	if !ok {
		t.Fatalf("Decode = %T, want Book", ev)
	}
	if book.AssetID != "abc" || book.Market != "0xdead" {
		t.Errorf("identifiers = %q/%q", book.AssetID, book.Market)
	}
	if len(book.Bids) != 1 || book.Bids[0].Price != 650_000 {
		t.Errorf("bids = %+v", book.Bids)
	}
	if len(book.Asks) != 1 || book.Asks[0].Size != 50_000_000 {
		t.Errorf("asks = %+v", book.Asks)
	}
	if book.Timestamp != time.UnixMilli(1748800000000) {
		t.Errorf("timestamp = %v", book.Timestamp)
	}
}

func TestDecodeBookLegacySides(t *testing.T) {
	raw := []byte(`{
		"event_type": "book",
		"asset_id": "abc",
		"buys": [{"price": "0.4", "size": "1"}],
		"sells": [{"price": "0.6", "size": "1"}]
	}`)

	book, ok := Decode(raw).(Book)
	if !ok {
		t.Fatal("expected Book")
	}
	if len(book.Bids) != 1 || book.Bids[0].Price != 400_000 {
		t.Errorf("bids from buys = %+v", book.Bids)
	}
	if len(book.Asks) != 1 || book.Asks[0].Price != 600_000 {
		t.Errorf("asks from sells = %+v", book.Asks)
	}
}

func TestDecodePriceChange(t *testing.T) {
	raw := []byte(`{
		"event_type": "price_change",
		"market": "0xdead",
		"price_changes": [
			{"asset_id": "a1", "side": "BUY", "price": "0.61", "size": "10"},
			{"asset_id": "a2", "side": "SELL", "price": "0.62", "size": "20"},
			{"side": "BUY", "price": "0.63", "size": "30"}
		],
		"asset_id": "fallback"
	}`)

	pc, ok := Decode(raw).(PriceChange)
	if !ok {
		t.Fatal("expected PriceChange")
	}
	if pc.Market != "0xdead" {
		t.Errorf("market = %q", pc.Market)
	}
	if len(pc.Changes) != 3 {
		t.Fatalf("changes = %d, want 3", len(pc.Changes))
	}
	if pc.Changes[0].AssetID != "a1" || pc.Changes[0].Side != "BUY" {
		t.Errorf("change 0 = %+v", pc.Changes[0])
	}
	// Per-change asset_id missing falls back to the message-level one.
	if pc.Changes[2].AssetID != "fallback" {
		t.Errorf("change 2 asset = %q, want fallback", pc.Changes[2].AssetID)
	}
}

func TestDecodeLastTrade(t *testing.T) {
	raw := []byte(`{
		"event_type": "last_trade_price",
		"asset_id": "abc",
		"price": "0.68",
		"size": "25.5",
		"side": "SELL"
	}`)

	trade, ok := Decode(raw).(LastTrade)
	if !ok {
		t.Fatal("expected LastTrade")
	}
	if trade.Price != 680_000 || trade.Size != 25_500_000 || trade.Side != "SELL" {
		t.Errorf("trade = %+v", trade)
	}
}

func TestDecodeComment(t *testing.T) {
	raw := []byte(`{
		"topic": "comments",
		"type": "comment_created",
		"payload": {
			"profile": {"name": "alice"},
			"body": "interesting market",
			"parentEntityType": "Event",
			"parentEntityID": 42
		}
	}`)

	c, ok := Decode(raw).(Comment)
	if !ok {
		t.Fatal("expected Comment")
	}
	if c.Author != "alice" || c.Body != "interesting market" {
		t.Errorf("comment = %+v", c)
	}
	if c.EntityType != "Event" || c.EntityID != 42 {
		t.Errorf("entity = %q/%d", c.EntityType, c.EntityID)
	}
}

func TestDecodeReaction(t *testing.T) {
	raw := []byte(`{"topic": "comments", "type": "reaction_created", "payload": {"commentID": 7}}`)

	r, ok := Decode(raw).(Reaction)
	if !ok {
		t.Fatal("expected Reaction")
	}
	if r.CommentID != 7 {
		t.Errorf("commentID = %d, want 7", r.CommentID)
	}
}

func TestDecodeRejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed json", `{"event_type": "book",`},
		{"no discriminator", `{"price": "0.5"}`},
		{"unknown event type", `{"event_type": "tick_size_change"}`},
		{"unknown rtds type", `{"topic": "comments", "type": "comment_deleted"}`},
		{"bad price in book", `{"event_type": "book", "bids": [{"price": "abc", "size": "1"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Decode([]byte(tt.raw))
			unk, ok := ev.(Unknown)
			if !ok {
				t.Fatalf("Decode = %T, want Unknown", ev)
			}
			if unk.Err == nil {
				t.Error("Unknown.Err is nil")
			}
			if string(unk.Raw) != tt.raw {
				t.Error("raw payload not carried through")
			}
		})
	}
}

func TestDecodeAllArrayFrame(t *testing.T) {
	raw := []byte(`[
		{"event_type": "book", "asset_id": "a", "bids": [], "asks": []},
		{"event_type": "last_trade_price", "asset_id": "a", "price": "0.5", "size": "1", "side": "BUY"}
	]`)

	events := DecodeAll(raw)
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if _, ok := events[0].(Book); !ok {
		t.Errorf("event 0 = %T, want Book", events[0])
	}
	if _, ok := events[1].(LastTrade); !ok {
		t.Errorf("event 1 = %T, want LastTrade", events[1])
	}
}

func TestDecodeAllSingleFrame(t *testing.T) {
	events := DecodeAll([]byte("PING"))
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if _, ok := events[0].(Control); !ok {
		t.Errorf("event = %T, want Control", events[0])
	}
}
