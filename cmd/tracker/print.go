package main

import (
	"fmt"
	"io"
	"time"

	"github.com/daszybak/polymarket_tracker/internal/market"
	"github.com/daszybak/polymarket_tracker/internal/stream"
)

// printer renders live feed events as single console lines.
type printer struct {
	out io.Writer
}

func newPrinter(out io.Writer) *printer {
	return &printer{out: out}
}

func clock() string {
	return time.Now().Format("15:04:05")
}

func (p *printer) book(b stream.BookUpdated) {
	fmt.Fprintf(p.out, "[%s] BOOK  %s", clock(), shortID(b.AssetID))
	if len(b.Bids) > 0 {
		fmt.Fprintf(p.out, "  bid %s x %s", b.Bids[0].Price, b.Bids[0].Size)
	}
	if len(b.Asks) > 0 {
		fmt.Fprintf(p.out, "  ask %s x %s", b.Asks[0].Price, b.Asks[0].Size)
	}
	if b.Metrics != nil {
		fmt.Fprintf(p.out, "  spread %s (%.2f%%)  mid %s",
			b.Metrics.Spread, b.Metrics.SpreadPct, b.Metrics.Mid)
	}
	fmt.Fprintln(p.out)
}

func (p *printer) priceChange(c stream.PriceChanged) {
	fmt.Fprintf(p.out, "[%s] PRICE %s  %-4s %s x %s\n",
		clock(), shortID(c.AssetID), c.Side, c.Price, c.Size)
}

func (p *printer) trade(t stream.LastTrade) {
	fmt.Fprintf(p.out, "[%s] TRADE %s  %-4s %s x %s\n",
		clock(), shortID(t.AssetID), t.Side, t.Price, t.Size)
}

func (p *printer) comment(c stream.Comment) {
	author := c.Author
	if author == "" {
		author = "anonymous"
	}
	body := c.Body
	if runes := []rune(body); len(runes) > 100 {
		body = string(runes[:100]) + "..."
	}
	fmt.Fprintf(p.out, "[%s] %s on %s/%d: %s\n",
		clock(), author, c.EntityType, c.EntityID, body)
}

func (p *printer) reaction(r stream.Reaction) {
	fmt.Fprintf(p.out, "[%s] reaction to comment %d\n", clock(), r.CommentID)
}

func (p *printer) summary(st *market.Store) {
	assets := st.Assets()
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "--- session summary ---")
	fmt.Fprintf(p.out, "instruments: %d  price changes: %d\n",
		len(assets), st.HistoryTotal())
	for _, assetID := range assets {
		book, ok := st.Book(assetID)
		if !ok {
			continue
		}
		fmt.Fprintf(p.out, "  %s", shortID(assetID))
		if m, ok := book.Metrics(); ok {
			fmt.Fprintf(p.out, "  mid %s  spread %s", m.Mid, m.Spread)
		}
		fmt.Fprintf(p.out, "  updated %s\n", book.UpdatedAt.Format("15:04:05"))
	}
}
