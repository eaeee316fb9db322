package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jameshartig/solarmon/pkg/energy"
	"github.com/jameshartig/solarmon/pkg/log"
	"github.com/jameshartig/solarmon/pkg/storage"
	"github.com/jameshartig/solarmon/pkg/types"
)

var errEntryNotFound = errors.New("entry not found")

// loadEntries reads and normalizes every stored snapshot. Snapshots that
// aren't valid JSON are logged and left out.
func (s *Server) loadEntries(ctx context.Context) (map[string]types.Entry, error) {
	raws, err := s.storage.GetSnapshots(ctx)
	if err != nil {
		s.metrics.storageErrors.WithLabelValues("get_snapshots").Inc()
		return nil, fmt.Errorf("failed to get snapshots: %w", err)
	}

	entries := make(map[string]types.Entry, len(raws))
	for key, raw := range raws {
		dl, err := types.ParseDeviceList(raw)
		if err != nil {
			s.metrics.decodeFailures.Inc()
			log.Ctx(ctx).WarnContext(ctx, "skipping undecodable snapshot", slog.String("key", key), slog.Any("error", err))
			continue
		}
		entries[key] = energy.Normalize(dl)
	}
	s.metrics.snapshots.Set(float64(len(entries)))
	log.Ctx(ctx).DebugContext(ctx, "loaded snapshots", slog.Int("count", len(entries)), slog.Int("stored", len(raws)))
	return entries, nil
}

func (s *Server) loadSeries(ctx context.Context) (types.Series, error) {
	entries, err := s.loadEntries(ctx)
	if err != nil {
		return types.Series{}, err
	}
	return energy.BuildSeries(entries), nil
}

// getSnapshot returns errEntryNotFound for keys that aren't stored or
// couldn't name a snapshot at all.
func (s *Server) getSnapshot(ctx context.Context, key string) (json.RawMessage, error) {
	raw, err := s.storage.GetSnapshot(ctx, key)
	switch {
	case err == nil:
		return raw, nil
	case errors.Is(err, storage.ErrSnapshotNotFound), errors.Is(err, storage.ErrInvalidKey):
		return nil, errEntryNotFound
	default:
		s.metrics.storageErrors.WithLabelValues("get_snapshot").Inc()
		return nil, fmt.Errorf("failed to get snapshot %s: %w", key, err)
	}
}
