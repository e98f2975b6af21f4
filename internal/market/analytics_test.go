package market

import (
	"math"
	"testing"

	"github.com/daszybak/polymarket_tracker/internal/price"
)

func lvl(p string, s string) Level {
	pp, err := price.Parse(p)
	if err != nil {
		panic(err)
	}
	ps, err := price.Parse(s)
	if err != nil {
		panic(err)
	}
	return Level{Price: pp, Size: price.Size(ps)}
}

func TestComputeSpread(t *testing.T) {
	tests := []struct {
		name    string
		bids    []Level
		asks    []Level
		want    SpreadMetrics
		wantOK  bool
		wantPct float64
	}{
		{
			name:    "typical book",
			bids:    []Level{lvl("0.65", "100")},
			asks:    []Level{lvl("0.68", "50")},
			want:    SpreadMetrics{Spread: 30_000, Mid: 665_000},
			wantOK:  true,
			wantPct: 0.03 / 0.68 * 100,
		},
		{
			name:    "best level not first",
			bids:    []Level{lvl("0.60", "10"), lvl("0.65", "100")},
			asks:    []Level{lvl("0.70", "10"), lvl("0.68", "50")},
			want:    SpreadMetrics{Spread: 30_000, Mid: 665_000},
			wantOK:  true,
			wantPct: 0.03 / 0.68 * 100,
		},
		{
			name:    "crossed book surfaces negative spread",
			bids:    []Level{lvl("0.70", "10")},
			asks:    []Level{lvl("0.68", "10")},
			want:    SpreadMetrics{Spread: -20_000, Mid: 690_000},
			wantOK:  true,
			wantPct: -0.02 / 0.68 * 100,
		},
		{
			name:    "zero ask defines pct as zero",
			bids:    []Level{lvl("0", "10")},
			asks:    []Level{lvl("0", "10")},
			want:    SpreadMetrics{Spread: 0, Mid: 0},
			wantOK:  true,
			wantPct: 0,
		},
		{
			name:   "empty bids",
			bids:   nil,
			asks:   []Level{lvl("0.68", "50")},
			wantOK: false,
		},
		{
			name:   "empty asks",
			bids:   []Level{lvl("0.65", "100")},
			asks:   nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComputeSpread(tt.bids, tt.asks)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Spread != tt.want.Spread {
				t.Errorf("spread = %v, want %v", got.Spread, tt.want.Spread)
			}
			if got.Mid != tt.want.Mid {
				t.Errorf("mid = %v, want %v", got.Mid, tt.want.Mid)
			}
			if math.Abs(got.SpreadPct-tt.wantPct) > 1e-9 {
				t.Errorf("spread pct = %v, want %v", got.SpreadPct, tt.wantPct)
			}
		})
	}
}

func TestBookMetricsMatchesComputeSpread(t *testing.T) {
	bids := []Level{lvl("0.60", "10"), lvl("0.65", "100")}
	asks := []Level{lvl("0.68", "50"), lvl("0.70", "10")}

	book := NewBook()
	book.Replace(bids, asks, testTime())

	fromBook, ok := book.Metrics()
	if !ok {
		t.Fatal("expected metrics from populated book")
	}
	fromSlices, ok := ComputeSpread(bids, asks)
	if !ok {
		t.Fatal("expected metrics from slices")
	}

	if fromBook != fromSlices {
		t.Errorf("book metrics %+v != slice metrics %+v", fromBook, fromSlices)
	}
}
