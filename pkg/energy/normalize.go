// Package energy turns stored gateway snapshots into the series, deltas and
// aggregated views rendered by the dashboard. Everything here is pure: inputs
// are never modified and no state is kept between calls.
package energy

import (
	"math"
	"strings"

	"github.com/jameshartig/solarmon/pkg/types"
)

// Normalize maps the devices of a single snapshot to an Entry.
//
// Power meters are classified by the suffix of their TYPE; a missing
// production or consumption meter counts as all zeros. Unknown device types
// and meter suffixes are ignored.
func Normalize(dl types.DeviceList) types.Entry {
	var production, consumption types.Meter
	entry := types.Entry{
		Inverters: []types.InverterRecord{},
	}

	for _, d := range dl.Devices {
		switch d.DeviceType {
		case types.DeviceTypePVS:
			entry.PVS = &types.PVS{
				State:         d.State,
				Serial:        d.Serial,
				Model:         d.Model,
				HWVer:         d.HWVer,
				SWVer:         d.SWVer,
				ErrorCount:    d.ErrorCount,
				Untransmitted: d.Untransmitted,
				Uptime:        d.Uptime,
				MemUsed:       d.MemUsed,
				CPULoad:       d.CPULoad,
				FlashAvail:    d.FlashAvail,
			}
		case types.DeviceTypePowerMeter:
			m := types.Meter{
				LifetimeE: d.NetLifetimeEnergyKWH.Float64(),
				LifetimeP: d.PowerKW.Float64(),
				TotalPfac: d.PowerFactor.Float64(),
			}
			switch {
			case strings.HasSuffix(d.Type, types.MeterSuffixProduction):
				production = m
			case strings.HasSuffix(d.Type, types.MeterSuffixConsumption):
				consumption = m
			}
		case types.DeviceTypeInverter:
			entry.Inverters = append(entry.Inverters, types.InverterRecord{
				LifetimeE:    d.LifetimeEnergyKWH.Float64(),
				LifetimeP:    d.PowerKW.Float64(),
				TempHeatsink: d.HeatsinkTempC.Ptr(),
				Serial:       d.Serial,
			})
		}
	}

	entry.Meter = types.Meter{
		LifetimeE: production.LifetimeE - consumption.LifetimeE,
		LifetimeP: production.LifetimeP - consumption.LifetimeP,
		// the lower of the two is reported rather than an average
		TotalPfac: math.Min(production.TotalPfac, consumption.TotalPfac),
	}
	return entry
}
