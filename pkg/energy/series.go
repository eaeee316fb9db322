package energy

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/jameshartig/solarmon/pkg/types"
)

type keyedEntry struct {
	key string
	ts  int64
}

// SortTimestamps parses unix-second keys and returns them in ascending
// numeric order. Keys that aren't integers are dropped.
func SortTimestamps(keys []string) []int64 {
	ts := make([]int64, 0, len(keys))
	for _, k := range keys {
		if v, ok := parseKey(k); ok {
			ts = append(ts, v)
		}
	}
	slices.Sort(ts)
	return ts
}

func parseKey(k string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(k), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// sortedKeys orders the map keys by their numeric value. Keys of different
// digit lengths would sort incorrectly as strings.
func sortedKeys(entries map[string]types.Entry) []keyedEntry {
	keys := make([]keyedEntry, 0, len(entries))
	for k := range entries {
		if ts, ok := parseKey(k); ok {
			keys = append(keys, keyedEntry{key: k, ts: ts})
		}
	}
	slices.SortFunc(keys, func(a, b keyedEntry) int {
		if c := cmp.Compare(a.ts, b.ts); c != 0 {
			return c
		}
		return strings.Compare(a.key, b.key)
	})
	return keys
}

// AverageTemperature returns the mean heatsink temperature of the inverters
// that reported a positive reading, or nil if none did. Zero and negative
// readings come from sensors that aren't reporting.
func AverageTemperature(inverters []types.InverterRecord) *float64 {
	var sum float64
	var n int
	for _, inv := range inverters {
		if inv.TempHeatsink == nil || *inv.TempHeatsink <= 0 {
			continue
		}
		sum += *inv.TempHeatsink
		n++
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// BuildSeries assembles the entries, keyed by unix-second timestamp, into
// parallel series ordered by ascending timestamp.
//
// Inverter i in one entry is assumed to be the same physical inverter as
// inverter i in every other entry. If the gateway reorders its inverters the
// per-inverter series will mix devices. The number of inverter series is
// taken from the earliest entry.
func BuildSeries(entries map[string]types.Entry) types.Series {
	keys := sortedKeys(entries)
	n := len(keys)

	s := types.Series{
		Timestamps: make([]int64, n),
		ChartData:  make([]types.ChartEntry, n),
		Meter: types.MeterData{
			Labels:         make([]int64, n),
			LifetimeEnergy: make([]float64, n),
			CurrentPower:   make([]float64, n),
			PowerFactor:    make([]float64, n),
		},
		SolarBridge: types.SolarBridgeData{
			Labels:         make([]int64, n),
			LifetimeEnergy: make([]float64, n),
			CurrentPower:   make([]float64, n),
			AvgTemp:        make([]*float64, n),
		},
	}

	for i, k := range keys {
		e := entries[k.key]
		e.Inverters = slices.Clone(e.Inverters)
		if e.Inverters == nil {
			e.Inverters = []types.InverterRecord{}
		}

		s.Timestamps[i] = k.ts
		s.ChartData[i] = types.ChartEntry{Timestamp: k.ts, Entry: e}

		s.Meter.Labels[i] = k.ts
		s.Meter.LifetimeEnergy[i] = e.Meter.LifetimeE
		s.Meter.CurrentPower[i] = e.Meter.LifetimeP
		s.Meter.PowerFactor[i] = e.Meter.TotalPfac

		var totalE, totalP float64
		for _, inv := range e.Inverters {
			totalE += inv.LifetimeE
			totalP += inv.LifetimeP
		}
		s.SolarBridge.Labels[i] = k.ts
		s.SolarBridge.LifetimeEnergy[i] = totalE
		s.SolarBridge.CurrentPower[i] = totalP
		s.SolarBridge.AvgTemp[i] = AverageTemperature(e.Inverters)
	}
	s.Meter.DeltaEnergy = ComputeDeltas(s.Meter.LifetimeEnergy)
	s.Inverters = buildInverterSeries(s.ChartData)
	return s
}

func buildInverterSeries(data []types.ChartEntry) []types.InverterSeries {
	if len(data) == 0 {
		return []types.InverterSeries{}
	}
	count := len(data[0].Inverters)
	series := make([]types.InverterSeries, count)
	for i := range series {
		inv := types.InverterSeries{
			ID:             i + 1,
			LifetimeEnergy: make([]float64, len(data)),
			CurrentPower:   make([]float64, len(data)),
			Temperature:    make([]*float64, len(data)),
		}
		for j, d := range data {
			if i >= len(d.Inverters) {
				continue
			}
			rec := d.Inverters[i]
			inv.LifetimeEnergy[j] = rec.LifetimeE
			inv.CurrentPower[j] = rec.LifetimeP
			inv.Temperature[j] = copyFloat(rec.TempHeatsink)
		}
		series[i] = inv
	}
	return series
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
