package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/daszybak/polymarket_tracker/internal/market"
)

// ErrSessionClosed is returned by Run when Stop ended the session.
var ErrSessionClosed = errors.New("stream: session closed")

const (
	defaultReconnectBase = 2 * time.Second
	defaultReconnectMax  = 60 * time.Second
)

// ReconnectConfig controls reconnection after a transport failure. Off by
// default: the session gives up when the connection closes, and retry is an
// opt-in behavior.
type ReconnectConfig struct {
	Enabled bool

	// MaxAttempts bounds consecutive failed attempts; 0 means unlimited.
	MaxAttempts int

	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// Config describes one subscription over one feed endpoint.
type Config struct {
	URL string

	// Subscribe is the JSON payload written once after connecting.
	Subscribe any

	// KeepaliveInterval is the application-level PING cadence; 0 disables
	// it (the comments feed relies on transport-level liveness only).
	KeepaliveInterval time.Duration

	// StaleAfter closes the connection when no frame arrives within the
	// window. Defaults to 3x the keepalive interval when keepalive is on.
	StaleAfter time.Duration

	Reconnect ReconnectConfig
}

// Session composes a connection, a dispatcher and an instrument store into
// one subscription lifecycle. The store is session-scoped: it survives
// reconnect attempts and is discarded with the session.
type Session struct {
	cfg        Config
	store      *market.Store
	dispatcher *Dispatcher
	logger     *slog.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

func NewSession(cfg Config, handlers Handlers, logger *slog.Logger) *Session {
	if cfg.StaleAfter == 0 && cfg.KeepaliveInterval > 0 {
		cfg.StaleAfter = 3 * cfg.KeepaliveInterval
	}
	if cfg.Reconnect.BaseDelay <= 0 {
		cfg.Reconnect.BaseDelay = defaultReconnectBase
	}
	if cfg.Reconnect.MaxDelay <= 0 {
		cfg.Reconnect.MaxDelay = defaultReconnectMax
	}

	store := market.NewStore()
	log := logger.With("component", "stream")
	return &Session{
		cfg:        cfg,
		store:      store,
		dispatcher: NewDispatcher(store, handlers, log),
		logger:     log,
		stop:       make(chan struct{}),
	}
}

// Store exposes the per-instrument state, e.g. for a session summary. Safe
// to read only after Run has returned.
func (s *Session) Store() *market.Store {
	return s.store
}

// Stop ends the session: the transport is closed so the blocked receive loop
// unwinds, and the keepalive goroutine exits with it.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Run connects, subscribes, and processes frames until ctx is cancelled,
// Stop is called, or the connection fails with reconnection disabled or
// exhausted. It blocks for the duration of the session.
func (s *Session) Run(ctx context.Context) error {
	attempts := 0
	delay := s.cfg.Reconnect.BaseDelay

	for {
		subscribed, err := s.runConnection(ctx)

		select {
		case <-s.stop:
			return ErrSessionClosed
		default:
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !s.cfg.Reconnect.Enabled {
			return err
		}

		// MaxAttempts bounds consecutive failures: a connection that made
		// it onto the feed resets the budget and the backoff.
		if subscribed {
			attempts = 0
			delay = s.cfg.Reconnect.BaseDelay
		}

		attempts++
		if max := s.cfg.Reconnect.MaxAttempts; max > 0 && attempts >= max {
			return fmt.Errorf("giving up after %d attempts: %w", attempts, err)
		}

		s.logger.Warn("disconnected, reconnecting", "error", err, "delay", delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stop:
			return ErrSessionClosed
		case <-time.After(delay):
		}

		delay *= 2
		if delay > s.cfg.Reconnect.MaxDelay {
			delay = s.cfg.Reconnect.MaxDelay
		}
	}
}

// runConnection performs one connect/subscribe/receive cycle and reports
// whether the subscription was established. The receive loop is the session's
// main activity: blocking read, decode, dispatch, repeated until the
// connection closes. Per-frame decode failures never unwind the loop; only
// transport errors do.
func (s *Session) runConnection(ctx context.Context) (bool, error) {
	conn, err := Dial(ctx, s.cfg.URL)
	if err != nil {
		return false, fmt.Errorf("couldn't connect to %s: %w", s.cfg.URL, err)
	}
	s.logger.Info("connected", "url", s.cfg.URL)

	// Closing the transport is the only way to unblock the receive loop,
	// so a watcher turns ctx cancellation and Stop into a close.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-s.stop:
		case <-done:
			return
		}
		conn.Close(context.Background())
	}()
	defer conn.Close(context.Background())

	if err := conn.Subscribe(ctx, s.cfg.Subscribe); err != nil {
		return false, fmt.Errorf("couldn't send subscription: %w", err)
	}
	conn.StartKeepalive(s.cfg.KeepaliveInterval, s.cfg.StaleAfter)
	s.logger.Info("subscribed", "keepalive", s.cfg.KeepaliveInterval)

	for {
		raw, err := conn.ReadMessage()
		if err != nil {
			return true, fmt.Errorf("couldn't read message: %w", err)
		}
		for _, ev := range DecodeAll(raw) {
			s.dispatcher.Dispatch(ev)
		}
	}
}
