package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/daszybak/polymarket_tracker/internal/stream"
)

func runComments(ctx context.Context, cfg *config, logger *slog.Logger) error {
	printer := newPrinter(os.Stdout)

	// The RTDS feed needs no application-level keepalive.
	session := stream.NewSession(stream.Config{
		URL:       cfg.Polymarket.RTDSWSURL,
		Subscribe: stream.NewCommentsSubscription(),
		Reconnect: stream.ReconnectConfig{
			Enabled:     cfg.Reconnect.Enabled,
			MaxAttempts: cfg.Reconnect.MaxAttempts,
			BaseDelay:   cfg.Reconnect.BaseDelay.Duration(),
			MaxDelay:    cfg.Reconnect.MaxDelay.Duration(),
		},
	}, stream.Handlers{
		OnComment:  printer.comment,
		OnReaction: printer.reaction,
	}, logger)

	err := session.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, stream.ErrSessionClosed) {
		return nil
	}
	return err
}
