package store

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type fakeSink struct {
	mu      sync.Mutex
	history []InsertPriceHistoryParams
	trades  []InsertTradeParams
}

func (f *fakeSink) InsertPriceHistoryBatch(_ context.Context, args []InsertPriceHistoryParams) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = append(f.history, args...)
	return int64(len(args)), nil
}

func (f *fakeSink) InsertTradeBatch(_ context.Context, args []InsertTradeParams) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trades = append(f.trades, args...)
	return int64(len(args)), nil
}

func (f *fakeSink) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.history), len(f.trades)
}

func TestRecorderFlushesOnInterval(t *testing.T) {
	sink := &fakeSink{}
	rec := NewRecorder(sink, 10*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec.RecordPriceChange(ts, "abc", "BUY", 650_000, 100_000_000)
	rec.RecordPriceChange(ts, "abc", "SELL", 680_000, 50_000_000)
	rec.RecordTrade(ts, "abc", "BUY", 660_000, 10_000_000)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rec.Start(ctx) }()

	deadline := time.After(2 * time.Second)
	for {
		h, tr := sink.counts()
		if h == 2 && tr == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("rows not flushed: history=%d trades=%d", h, tr)
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	<-done

	if sink.history[0].AssetID != "abc" || sink.history[0].Price != 650_000 {
		t.Errorf("history row = %+v", sink.history[0])
	}
}

func TestRecorderFinalFlushOnShutdown(t *testing.T) {
	sink := &fakeSink{}
	rec := NewRecorder(sink, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec.RecordTrade(time.Now(), "abc", "SELL", 680_000, 1_000_000)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rec.Start(ctx) }()

	// Cancel before the first tick: the queued row must still be written.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Start returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("recorder did not stop")
	}

	if _, trades := sink.counts(); trades != 1 {
		t.Errorf("trades flushed = %d, want 1", trades)
	}
}
