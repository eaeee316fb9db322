package pvs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jameshartig/solarmon/pkg/log"
	"github.com/jameshartig/solarmon/pkg/storage"
)

type deviceLister interface {
	DeviceList(ctx context.Context) (json.RawMessage, error)
}

// Collector stores a device list snapshot under the second it was fetched.
type Collector struct {
	gateway deviceLister
	db      storage.Database
	now     func() time.Time
}

// NewCollector returns a Collector that fetches from gateway into db.
func NewCollector(gateway *Client, db storage.Database) *Collector {
	return &Collector{gateway: gateway, db: db, now: time.Now}
}

// CollectOnce fetches one snapshot and stores it, returning its key.
func (c *Collector) CollectOnce(ctx context.Context) (string, error) {
	key := storage.Key(c.now().Unix())
	ctx = log.WithAttrs(ctx, slog.String("key", key))

	raw, err := c.gateway.DeviceList(ctx)
	if err != nil {
		return "", err
	}
	if err := c.db.PutSnapshot(ctx, key, raw); err != nil {
		return "", fmt.Errorf("failed to store snapshot: %w", err)
	}
	log.Ctx(ctx).InfoContext(ctx, "stored snapshot", slog.Int("bytes", len(raw)))
	return key, nil
}

// Run collects every interval until ctx is done. A failed collection is
// logged and retried on the next tick.
func (c *Collector) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := c.CollectOnce(ctx); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to collect snapshot", slog.Any("error", err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
