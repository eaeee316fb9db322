package energy

import (
	"strconv"
	"testing"
	"time"

	"github.com/jameshartig/solarmon/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayOfEntries(t *testing.T) (map[string]types.Entry, []int64) {
	t.Helper()
	base := unix(2024, time.August, 10, 0, 0)
	entries := make(map[string]types.Entry)
	var ts []int64
	// hourly readings for 25 hours so the last one has one exactly a day
	// before it
	for i := 0; i <= 25; i++ {
		v := base + int64(i)*3600
		ts = append(ts, v)
		entries[strconv.FormatInt(v, 10)] = types.Entry{
			Meter: types.Meter{LifetimeE: float64(100 + i*2), LifetimeP: 1, TotalPfac: 0.9},
			Inverters: []types.InverterRecord{
				{LifetimeE: float64(i), LifetimeP: 0.5, TempHeatsink: ptr(30), Serial: "A"},
				{LifetimeE: float64(i), LifetimeP: 0.5, TempHeatsink: ptr(40), Serial: "B"},
			},
			PVS: &types.PVS{
				State:      "working",
				Model:      "PVS6",
				ErrorCount: types.NewNumber(2),
				Uptime:     types.NewNumber(7300),
				MemUsed:    types.NewNumber(2048),
				FlashAvail: types.NewNumber(512),
				CPULoad:    types.NewNumber(0.25),
			},
		}
	}
	return entries, ts
}

func TestBuildDashboard(t *testing.T) {
	entries, ts := dayOfEntries(t)
	d := BuildDashboard(entries)

	assert.Equal(t, ts[len(ts)-1], d.LatestTimestamp)
	assert.Len(t, d.ChartData, len(ts))
	assert.Equal(t, ts, d.MeterData.Labels)
	assert.Len(t, d.IndividualInverters, 2)
	assert.Len(t, d.DeltaEnergyViews.Last30.Timestamps, len(ts))
	assert.Equal(t, []string{"2024-08-11-00", "2024-08-11-01"}, d.DeltaEnergyViews.Daily.Periods)
	assert.Equal(t, []float64{2, 2}, d.DeltaEnergyViews.Daily.DeltaEnergy)

	require.NotNil(t, d.PowerGenDiff)
	assert.Equal(t, ts[1], d.PowerGenDiff.PreviousTimestamp)
	assert.Equal(t, 48.0, d.PowerGenDiff.Change)
}

func TestBuildDashboardEmpty(t *testing.T) {
	d := BuildDashboard(nil)
	assert.Zero(t, d.LatestTimestamp)
	assert.Nil(t, d.PowerGenDiff)
	assert.Empty(t, d.ChartData)
	assert.NotNil(t, d.IndividualInverters)
}

func TestBuildStatCard(t *testing.T) {
	entries, ts := dayOfEntries(t)
	s := BuildSeries(entries)

	t.Run("with a day of history", func(t *testing.T) {
		card, ok := BuildStatCard(s, ts[24])
		require.True(t, ok)
		assert.Equal(t, ts[24], card.Timestamp)
		assert.Equal(t, 148.0, card.Meter.LifetimeE)
		require.NotNil(t, card.AvgTemperature)
		assert.Equal(t, 35.0, *card.AvgTemperature)

		require.NotNil(t, card.System)
		assert.Equal(t, types.SystemInfo{
			State:       "working",
			Model:       "PVS6",
			ErrorCount:  2,
			UptimeHours: 2,
			MemoryMB:    2,
			FlashMB:     0.5,
			CPULoad:     0.25,
		}, *card.System)

		require.NotNil(t, card.PowerGenChange)
		assert.Equal(t, ts[0], card.PowerGenChange.PreviousTimestamp)
		assert.Equal(t, 48.0, card.PowerGenChange.Change)
	})

	t.Run("too little history", func(t *testing.T) {
		card, ok := BuildStatCard(s, ts[3])
		require.True(t, ok)
		assert.Nil(t, card.PowerGenChange)
	})

	t.Run("unknown timestamp", func(t *testing.T) {
		_, ok := BuildStatCard(s, ts[0]+1)
		assert.False(t, ok)
	})

	t.Run("no pvs", func(t *testing.T) {
		s := BuildSeries(map[string]types.Entry{"100": {}})
		card, ok := BuildStatCard(s, 100)
		require.True(t, ok)
		assert.Nil(t, card.System)
		assert.Nil(t, card.AvgTemperature)
		assert.Nil(t, card.PowerGenChange)
	})
}
