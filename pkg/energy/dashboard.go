package energy

import (
	"math"
	"slices"

	"github.com/jameshartig/solarmon/pkg/types"
)

// BuildDashboard assembles normalized entries, keyed by unix-second
// timestamp, into everything the dashboard renders.
func BuildDashboard(entries map[string]types.Entry) types.Dashboard {
	return DashboardFromSeries(BuildSeries(entries))
}

// DashboardFromSeries derives the dashboard from an assembled series.
func DashboardFromSeries(s types.Series) types.Dashboard {
	d := types.Dashboard{
		ChartData:           s.ChartData,
		MeterData:           s.Meter,
		SolarBridgeData:     s.SolarBridge,
		IndividualInverters: s.Inverters,
		DeltaEnergyViews:    BuildDeltaViews(s.Meter.Labels, s.Meter.DeltaEnergy),
	}
	if n := s.Len(); n > 0 {
		d.LatestTimestamp = s.Timestamps[n-1]
	}
	readings := Readings(s.Meter.Labels, s.Meter.LifetimeEnergy)
	if lb, ok := FindLookback(readings, LookbackOptions{Lag: DayLag}); ok {
		d.PowerGenDiff = &lb
	}
	return d
}

// BuildStatCard summarizes the entry at timestamp ts. It returns false if the
// series has no entry at ts.
func BuildStatCard(s types.Series, ts int64) (types.StatCard, bool) {
	i, found := slices.BinarySearch(s.Timestamps, ts)
	if !found {
		return types.StatCard{}, false
	}
	e := s.ChartData[i].Entry

	card := types.StatCard{
		Timestamp:      ts,
		Meter:          e.Meter,
		AvgTemperature: AverageTemperature(e.Inverters),
		System:         systemInfo(e.PVS),
	}
	readings := Readings(s.Meter.Labels, s.Meter.LifetimeEnergy)
	lb, ok := FindLookbackAt(readings, i, LookbackOptions{
		Lag:       DayLag,
		Tolerance: StatCardTolerance,
	})
	if ok {
		card.PowerGenChange = &lb
	}
	return card, true
}

func systemInfo(pvs *types.PVS) *types.SystemInfo {
	if pvs == nil {
		return nil
	}
	return &types.SystemInfo{
		State:         pvs.State,
		Model:         pvs.Model,
		HWVer:         pvs.HWVer,
		SWVer:         pvs.SWVer,
		ErrorCount:    pvs.ErrorCount.Float64(),
		Untransmitted: pvs.Untransmitted.Float64(),
		UptimeHours:   int64(math.Floor(pvs.Uptime.Float64() / 3600)),
		MemoryMB:      pvs.MemUsed.Float64() / 1024,
		FlashMB:       pvs.FlashAvail.Float64() / 1024,
		CPULoad:       pvs.CPULoad.Float64(),
	}
}
