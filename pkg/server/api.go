package server

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/jameshartig/solarmon/pkg/energy"
	"github.com/jameshartig/solarmon/pkg/log"
	"github.com/jameshartig/solarmon/pkg/storage"
	"github.com/jameshartig/solarmon/pkg/types"
)

const (
	// stored snapshots never change
	cacheSnapshot = "private, max-age=86400"
	// aggregates change whenever the collector runs
	cacheAggregate = "private, max-age=60"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entries, err := s.loadEntries(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to load entries", slog.Any("error", err))
		writeJSONError(w, "failed to load entries", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Cache-Control", cacheAggregate)
	writeJSON(w, energy.BuildDashboard(entries))
}

// handleEntries lists the stored snapshot keys, newest first.
func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	keys, err := s.storage.ListSnapshotKeys(ctx)
	if err != nil {
		s.metrics.storageErrors.WithLabelValues("list_snapshot_keys").Inc()
		log.Ctx(ctx).ErrorContext(ctx, "failed to list snapshots", slog.Any("error", err))
		writeJSONError(w, "failed to list entries", http.StatusInternalServerError)
		return
	}
	ts := energy.SortTimestamps(keys)
	slices.Reverse(ts)
	out := make([]string, len(ts))
	for i, v := range ts {
		out[i] = storage.Key(v)
	}
	w.Header().Set("Cache-Control", cacheAggregate)
	writeJSON(w, out)
}

func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := r.PathValue("timestamp")
	raw, err := s.getSnapshot(ctx, key)
	if err != nil {
		if errors.Is(err, errEntryNotFound) {
			writeJSONError(w, "entry not found", http.StatusNotFound)
			return
		}
		log.Ctx(ctx).ErrorContext(ctx, "failed to fetch raw data", slog.String("key", key), slog.Any("error", err))
		writeJSONError(w, "failed to fetch raw data", http.StatusInternalServerError)
		return
	}
	if _, err := types.ParseDeviceList(raw); err != nil {
		s.metrics.decodeFailures.Inc()
		log.Ctx(ctx).WarnContext(ctx, "stored snapshot is not json", slog.String("key", key), slog.Any("error", err))
		writeJSONError(w, "failed to fetch raw data", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", cacheSnapshot)
	if _, err := w.Write(raw); err != nil {
		panic(http.ErrAbortHandler)
	}
}

func (s *Server) handleProcessed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := r.PathValue("timestamp")
	raw, err := s.getSnapshot(ctx, key)
	if err != nil {
		if errors.Is(err, errEntryNotFound) {
			writeJSONError(w, "entry not found", http.StatusNotFound)
			return
		}
		log.Ctx(ctx).ErrorContext(ctx, "failed to fetch snapshot", slog.String("key", key), slog.Any("error", err))
		writeJSONError(w, "failed to process data", http.StatusInternalServerError)
		return
	}
	dl, err := types.ParseDeviceList(raw)
	if err != nil {
		s.metrics.decodeFailures.Inc()
		log.Ctx(ctx).WarnContext(ctx, "failed to decode snapshot", slog.String("key", key), slog.Any("error", err))
		writeJSONError(w, "failed to process data", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", cacheSnapshot)
	writeJSON(w, energy.Normalize(dl))
}

// handleStats returns the stat card for a single entry, including its change
// from roughly a day earlier.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ts, err := strconv.ParseInt(r.PathValue("timestamp"), 10, 64)
	if err != nil {
		writeJSONError(w, "entry not found", http.StatusNotFound)
		return
	}
	series, err := s.loadSeries(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to load entries", slog.Any("error", err))
		writeJSONError(w, "failed to load entries", http.StatusInternalServerError)
		return
	}
	card, ok := energy.BuildStatCard(series, ts)
	if !ok {
		writeJSONError(w, "entry not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Cache-Control", cacheAggregate)
	writeJSON(w, card)
}

func (s *Server) handleViews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	series, err := s.loadSeries(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to load entries", slog.Any("error", err))
		writeJSONError(w, "failed to load entries", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Cache-Control", cacheAggregate)
	writeJSON(w, energy.BuildDeltaViews(series.Meter.Labels, series.Meter.DeltaEnergy))
}

// handleInverters returns per-inverter series matched by serial number
// rather than by position.
func (s *Server) handleInverters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	series, err := s.loadSeries(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to load entries", slog.Any("error", err))
		writeJSONError(w, "failed to load entries", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Cache-Control", cacheAggregate)
	writeJSON(w, struct {
		Labels    []int64                `json:"labels"`
		Inverters []types.InverterSeries `json:"inverters"`
	}{
		Labels:    series.Timestamps,
		Inverters: energy.InverterSeriesBySerial(series),
	})
}
