package energy

import (
	"strconv"

	"github.com/jameshartig/solarmon/pkg/types"
)

// InverterSeriesBySerial builds per-inverter series keyed by the serial each
// inverter reports instead of its position. This differs from
// Series.Inverters: a reordered gateway list doesn't mix devices, and an
// inverter that appears after the first snapshot still gets a series.
// Inverters without a serial fall back to "#<position>".
func InverterSeriesBySerial(s types.Series) []types.InverterSeries {
	n := len(s.ChartData)
	index := make(map[string]int)
	var series []types.InverterSeries

	for j, d := range s.ChartData {
		for pos, rec := range d.Inverters {
			serial := rec.Serial
			if serial == "" {
				serial = "#" + strconv.Itoa(pos+1)
			}
			i, ok := index[serial]
			if !ok {
				i = len(series)
				index[serial] = i
				series = append(series, types.InverterSeries{
					ID:             i + 1,
					Serial:         serial,
					LifetimeEnergy: make([]float64, n),
					CurrentPower:   make([]float64, n),
					Temperature:    make([]*float64, n),
				})
			}
			series[i].LifetimeEnergy[j] = rec.LifetimeE
			series[i].CurrentPower[j] = rec.LifetimeP
			series[i].Temperature[j] = copyFloat(rec.TempHeatsink)
		}
	}
	if series == nil {
		return []types.InverterSeries{}
	}
	return series
}
