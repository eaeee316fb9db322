package energy

import (
	"slices"
	"time"

	"github.com/jameshartig/solarmon/pkg/types"
)

// RecentWindow is the number of raw deltas in the last30 view.
const RecentWindow = 30

type bucketItem struct {
	delta float64
	ts    int64
}

// grouping maps a period key (e.g. a month) to its buckets (e.g. the days of
// that month). Items within a bucket stay in input order.
type grouping map[string]map[string][]bucketItem

func (g grouping) add(period, bucket string, item bucketItem) {
	buckets, ok := g[period]
	if !ok {
		buckets = make(map[string][]bucketItem)
		g[period] = buckets
	}
	buckets[bucket] = append(buckets[bucket], item)
}

// latest returns the buckets of the lexicographically largest period. The
// keys are zero-padded so that is also the most recent period in the data,
// which is not necessarily the one containing the current time.
func (g grouping) latest() map[string][]bucketItem {
	if len(g) == 0 {
		return nil
	}
	var period string
	for k := range g {
		if k > period {
			period = k
		}
	}
	return g[period]
}

// project sums each bucket of the latest period. A bucket is labeled with
// the timestamp of its first item.
func (g grouping) project() types.AggregationView {
	buckets := g.latest()
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	view := types.AggregationView{
		Periods:     keys,
		Timestamps:  make([]int64, len(keys)),
		DeltaEnergy: make([]float64, len(keys)),
	}
	for i, k := range keys {
		items := buckets[k]
		view.Timestamps[i] = items[0].ts
		var sum float64
		for _, item := range items {
			sum += item.delta
		}
		view.DeltaEnergy[i] = sum
	}
	return view
}

// calendarKeys are the UTC bucket keys of a timestamp. UTC keeps bucket
// boundaries identical regardless of where the server or browser runs.
type calendarKeys struct {
	year  string // YYYY
	month string // YYYY-MM
	day   string // YYYY-MM-DD
	hour  string // YYYY-MM-DD-HH
}

func keysFor(ts int64) calendarKeys {
	t := time.Unix(ts, 0).UTC()
	return calendarKeys{
		year:  t.Format("2006"),
		month: t.Format("2006-01"),
		day:   t.Format("2006-01-02"),
		hour:  t.Format("2006-01-02-15"),
	}
}

// BuildDeltaViews buckets the deltas into the four views of the net energy
// chart. timestamps and deltas are index-aligned and in chronological order;
// if their lengths differ only the common prefix is used.
//
// Summing deltas per bucket gives the net change across the bucket no matter
// how unevenly the readings were spaced.
func BuildDeltaViews(timestamps []int64, deltas []float64) types.DeltaEnergyViews {
	n := min(len(timestamps), len(deltas))

	start := max(0, n-RecentWindow)
	views := types.DeltaEnergyViews{
		Last30: types.RecentView{
			Timestamps:  slices.Clone(timestamps[start:n]),
			DeltaEnergy: slices.Clone(deltas[start:n]),
		},
	}
	if views.Last30.Timestamps == nil {
		views.Last30.Timestamps = []int64{}
	}
	if views.Last30.DeltaEnergy == nil {
		views.Last30.DeltaEnergy = []float64{}
	}

	monthly := grouping{}
	daily := grouping{}
	yearly := grouping{}
	for i := 0; i < n; i++ {
		k := keysFor(timestamps[i])
		item := bucketItem{delta: deltas[i], ts: timestamps[i]}
		monthly.add(k.month, k.day, item)
		daily.add(k.day, k.hour, item)
		yearly.add(k.year, k.month, item)
	}

	views.Monthly = monthly.project()
	views.Daily = daily.project()
	views.Yearly = yearly.project()
	return views
}
