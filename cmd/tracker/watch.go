package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	cacheredis "github.com/daszybak/polymarket_tracker/internal/cache/redis"
	"github.com/daszybak/polymarket_tracker/internal/polymarket/gamma"
	"github.com/daszybak/polymarket_tracker/internal/store"
	"github.com/daszybak/polymarket_tracker/internal/stream"
	"github.com/daszybak/polymarket_tracker/pkg/hashset"
)

const maxWatchedAssets = 20

func runWatch(ctx context.Context, cfg *config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	search := fs.String("search", "", "resolve asset IDs by searching active events")
	if err := fs.Parse(args); err != nil {
		return err
	}

	assetIDs, err := resolveAssets(cfg, *search, fs.Args())
	if err != nil {
		return err
	}
	if len(assetIDs) == 0 {
		return fmt.Errorf("nothing to watch: pass asset IDs or -search")
	}
	if len(assetIDs) > maxWatchedAssets {
		assetIDs = assetIDs[:maxWatchedAssets]
	}
	for _, assetID := range assetIDs {
		fmt.Printf("watching %s\n", shortID(assetID))
	}

	printer := newPrinter(os.Stdout)

	// Optional sinks behind config flags: a PostgreSQL recorder for price
	// history and trades, and a redis cache for latest prices.
	var recorder *store.Recorder
	if cfg.Database.Enabled {
		pool, err := store.NewPool(ctx, store.PoolConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Database: cfg.Database.Database,
			PoolSize: cfg.Database.PoolSize,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			return fmt.Errorf("couldn't connect to database: %w", err)
		}
		st := store.New(pool)
		defer st.Close()
		recorder = store.NewRecorder(st.Queries, cfg.Database.FlushInterval.Duration(), logger)
	}

	// Cache writes go through an async writer so a slow redis never stalls
	// the receive loop.
	var cacheWriter *cacheredis.Writer
	if cfg.Redis.Addr != "" {
		client, err := cacheredis.New(ctx, cacheredis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("couldn't connect to redis: %w", err)
		}
		defer client.Close()
		cacheWriter = cacheredis.NewWriter(cacheredis.NewPriceCache(client), logger)
	}

	handlers := stream.Handlers{
		OnBook: func(b stream.BookUpdated) {
			printer.book(b)
			if cacheWriter != nil && b.Metrics != nil {
				cacheWriter.QueueMid(b.AssetID, b.Metrics.Mid, time.Now())
			}
		},
		OnPriceChange: func(c stream.PriceChanged) {
			printer.priceChange(c)
			if recorder != nil {
				recorder.RecordPriceChange(c.Timestamp, c.AssetID, c.Side, c.Price, c.Size)
			}
		},
		OnTrade: func(t stream.LastTrade) {
			printer.trade(t)
			if recorder != nil {
				recorder.RecordTrade(t.Timestamp, t.AssetID, t.Side, t.Price, t.Size)
			}
			if cacheWriter != nil {
				cacheWriter.QueueLastTrade(t.AssetID, t.Price, t.Timestamp)
			}
		},
	}

	session := stream.NewSession(stream.Config{
		URL:               cfg.Polymarket.MarketWSURL,
		Subscribe:         stream.NewMarketSubscription(assetIDs),
		KeepaliveInterval: cfg.Polymarket.KeepaliveInterval.Duration(),
		Reconnect: stream.ReconnectConfig{
			Enabled:     cfg.Reconnect.Enabled,
			MaxAttempts: cfg.Reconnect.MaxAttempts,
			BaseDelay:   cfg.Reconnect.BaseDelay.Duration(),
			MaxDelay:    cfg.Reconnect.MaxDelay.Duration(),
		},
	}, handlers, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return session.Run(gctx)
	})
	if recorder != nil {
		g.Go(func() error {
			return recorder.Start(gctx)
		})
	}
	if cacheWriter != nil {
		g.Go(func() error {
			return cacheWriter.Run(gctx)
		})
	}
	err = g.Wait()

	printer.summary(session.Store())

	if errors.Is(err, context.Canceled) || errors.Is(err, stream.ErrSessionClosed) {
		return nil
	}
	return err
}

// resolveAssets combines explicit asset IDs with IDs looked up from matching
// events, deduplicated in arrival order.
func resolveAssets(cfg *config, search string, explicit []string) ([]string, error) {
	seen := hashset.NewSet[string]()
	var assetIDs []string
	add := func(id string) {
		if id == "" || seen.Has(id) {
			return
		}
		seen.Set(id)
		assetIDs = append(assetIDs, id)
	}

	for _, id := range explicit {
		add(id)
	}

	if search != "" {
		result, err := gamma.New(cfg.Polymarket.GammaURL).Search(search, 10)
		if err != nil {
			return nil, fmt.Errorf("couldn't resolve %q: %w", search, err)
		}
		for _, event := range result.Events {
			for _, m := range event.Markets {
				for _, tokenID := range m.ClobTokenIDs {
					add(tokenID)
				}
			}
		}
	}

	return assetIDs, nil
}
