// Command collector fetches the PVS device list and stores it as a snapshot.
// Without -collect-interval it collects once and exits, which suits cron.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jameshartig/solarmon/pkg/log"
	"github.com/jameshartig/solarmon/pkg/pvs"
	"github.com/jameshartig/solarmon/pkg/storage"

	"github.com/levenlabs/go-lflag"
)

func main() {
	s := storage.Configured()
	gateway := pvs.Configured()
	interval := lflag.Duration("collect-interval", 0, "Collect on this interval instead of once (e.g. 5m)")

	lflag.Configure()

	if _, err := log.SyncLevel(); err != nil {
		panic(err)
	}
	slog.SetDefault(log.Default())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	code := run(ctx, pvs.NewCollector(gateway, s), *interval)
	if err := s.Close(); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to close storage", "error", err)
	}
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, c *pvs.Collector, interval time.Duration) int {
	if interval <= 0 {
		key, err := c.CollectOnce(ctx)
		if err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "collection failed", "error", err)
			return 1
		}
		log.Ctx(ctx).InfoContext(ctx, "collected", slog.String("key", key))
		return 0
	}
	if err := c.Run(ctx, interval); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "collector failed", "error", err)
		return 1
	}
	return 0
}
