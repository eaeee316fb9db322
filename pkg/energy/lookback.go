package energy

import (
	"time"

	"github.com/jameshartig/solarmon/pkg/types"
)

const (
	// DayLag is the lag used for day-over-day comparisons.
	DayLag = 24 * time.Hour

	// StatCardTolerance is how far from the target the stat card accepts a
	// reading before reporting the change as unavailable.
	StatCardTolerance = time.Hour
)

// LookbackOptions configures FindLookback.
type LookbackOptions struct {
	// Lag is how far before the current reading to look.
	Lag time.Duration
	// Tolerance is the maximum distance, exclusive, between the chosen
	// reading and the target time. Zero accepts the closest reading however
	// far away it is.
	Tolerance time.Duration
}

// FindLookback compares the latest reading with the reading closest to Lag
// before it. It returns false if there are fewer than 2 readings or, with a
// Tolerance, if no reading is close enough.
func FindLookback(readings []types.Reading, opts LookbackOptions) (types.Lookback, bool) {
	return FindLookbackAt(readings, len(readings)-1, opts)
}

// FindLookbackAt is FindLookback with readings[current] as the current
// reading. The current reading itself is never a candidate. readings must be
// in chronological order; ties go to the earliest reading.
func FindLookbackAt(readings []types.Reading, current int, opts LookbackOptions) (types.Lookback, bool) {
	if len(readings) < 2 || current < 0 || current >= len(readings) {
		return types.Lookback{}, false
	}
	cur := readings[current]
	target := cur.Timestamp - int64(opts.Lag/time.Second)

	best := -1
	var bestDist int64
	for i, r := range readings {
		if i == current {
			continue
		}
		dist := abs(r.Timestamp - target)
		if best < 0 || dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	if opts.Tolerance > 0 && bestDist >= int64(opts.Tolerance/time.Second) {
		return types.Lookback{}, false
	}

	prev := readings[best]
	return types.Lookback{
		Current:           cur.Energy,
		Previous:          prev.Energy,
		Change:            cur.Energy - prev.Energy,
		CurrentTimestamp:  cur.Timestamp,
		PreviousTimestamp: prev.Timestamp,
	}, true
}

// Readings pairs each timestamp with its cumulative energy value.
func Readings(timestamps []int64, values []float64) []types.Reading {
	n := min(len(timestamps), len(values))
	readings := make([]types.Reading, n)
	for i := 0; i < n; i++ {
		readings[i] = types.Reading{Timestamp: timestamps[i], Energy: values[i]}
	}
	return readings
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
