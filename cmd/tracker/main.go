// Command tracker queries Polymarket markets over REST and streams live
// market data over WebSocket.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

const usage = `usage: tracker [-config path] <command> [arguments]

commands:
  search <keywords>     search active events by keyword
  event <slug>          show an event and its markets
  market <conditionID>  show a market's outcome odds
  trending [limit]      list the busiest active markets
  tags                  list event tags
  info                  summarize the market universe
  watch [-search q] [assetID ...]
                        stream live order books and price changes
  comments              stream live comments and reactions
  help                  show this message
`

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	cfg, err := readConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tracker: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var runErr error
	switch cmd := args[0]; cmd {
	case "help":
		flag.Usage()
	case "search":
		runErr = runSearch(cfg, args[1:])
	case "event":
		runErr = runEvent(cfg, args[1:])
	case "market":
		runErr = runMarket(cfg, args[1:])
	case "trending":
		runErr = runTrending(cfg, args[1:])
	case "tags":
		runErr = runTags(cfg)
	case "info":
		runErr = runInfo(cfg)
	case "watch":
		runErr = runWatch(ctx, cfg, logger, args[1:])
	case "comments":
		runErr = runComments(ctx, cfg, logger)
	default:
		fmt.Fprintf(os.Stderr, "tracker: unknown command %q\n", cmd)
		flag.Usage()
		os.Exit(2)
	}

	if runErr != nil {
		logger.Error("command failed", "command", args[0], "error", runErr)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
