// Command seed fills storage with synthetic gateway snapshots so the
// dashboard can be developed without a PVS on the network.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/jameshartig/solarmon/pkg/log"
	"github.com/jameshartig/solarmon/pkg/storage"
	"github.com/jameshartig/solarmon/pkg/types"
	"github.com/levenlabs/go-lflag"
)

type site struct {
	inverters   int
	panelPeakKW float64 // per inverter
	homeAvgKW   float64
}

// state is the cumulative counters carried between snapshots.
type state struct {
	produced  float64
	consumed  float64
	inverterE []float64
	uptime    float64
}

func main() {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		os.Setenv("FIRESTORE_EMULATOR_HOST", "127.0.0.1:8087")
	}
	s := storage.Configured()
	span := lflag.Duration("seed-span", 72*time.Hour, "How much history to generate")
	step := lflag.Duration("seed-step", 15*time.Minute, "Time between generated snapshots")
	lflag.Configure()

	ctx := context.Background()
	log.Ctx(ctx).InfoContext(ctx, "seeding mock snapshots", slog.Duration("span", *span), slog.Duration("step", *step))

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	end := time.Now().Truncate(*step)
	start := end.Add(-*span)

	snaps := generate(rng, site{inverters: 12, panelPeakKW: 0.35, homeAvgKW: 1.2}, start, end, *step)
	for key, dl := range snaps {
		raw, err := json.Marshal(dl)
		if err != nil {
			panic(fmt.Errorf("failed to marshal snapshot %s: %w", key, err))
		}
		if err := s.PutSnapshot(ctx, key, raw); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to store snapshot", slog.String("key", key), slog.Any("error", err))
			os.Exit(1)
		}
	}
	if err := s.Close(); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to close storage", slog.Any("error", err))
	}
	log.Ctx(ctx).InfoContext(ctx, "seeded", slog.Int("snapshots", len(snaps)))
}

// solarFactor is a bell curve peaking at 13:00 UTC and zero at night.
func solarFactor(t time.Time) float64 {
	h := float64(t.Hour()) + float64(t.Minute())/60
	if h <= 6 || h >= 20 {
		return 0
	}
	dist := h - 13
	return math.Exp(-(dist * dist) / 8)
}

// generate returns one device list per step in [start, end).
func generate(rng *rand.Rand, cfg site, start, end time.Time, step time.Duration) map[string]types.DeviceList {
	st := state{
		produced:  5000 + rng.Float64()*100,
		consumed:  3000 + rng.Float64()*100,
		inverterE: make([]float64, cfg.inverters),
		uptime:    86400,
	}
	for i := range st.inverterE {
		st.inverterE[i] = 400 + rng.Float64()*10
	}

	hours := step.Hours()
	snaps := make(map[string]types.DeviceList)
	for t := start; t.Before(end); t = t.Add(step) {
		sun := solarFactor(t)

		homeKW := cfg.homeAvgKW + rng.Float64()*0.8
		if h := t.Hour(); h >= 17 && h < 21 {
			homeKW += 1.5
		}

		devices := []types.Device{{
			DeviceType: types.DeviceTypePVS,
			Serial:     "ZT000000000000000001",
			Model:      "PV Supervisor PVS6",
			State:      "working",
			HWVer:      "6.02",
			SWVer:      "2024.6, Build 61707",
			ErrorCount: types.NewNumber(float64(rng.Intn(3))),
			Uptime:     types.NewNumber(st.uptime),
			MemUsed:    types.NewNumber(float64(40000 + rng.Intn(5000))),
			CPULoad:    types.NewNumber(0.2 + rng.Float64()*0.5),
			FlashAvail: types.NewNumber(float64(60000 + rng.Intn(1000))),
		}}

		var totalKW float64
		for i := range st.inverterE {
			kw := cfg.panelPeakKW * sun * (0.9 + rng.Float64()*0.1)
			totalKW += kw
			st.inverterE[i] += kw * hours

			temp := types.NewNumber(15 + 30*sun + rng.Float64()*2)
			if sun == 0 {
				// inverters sleep at night and report nothing
				temp = types.Number{}
			}
			devices = append(devices, types.Device{
				DeviceType:        types.DeviceTypeInverter,
				Serial:            fmt.Sprintf("E00121938%06d", i+1),
				Model:             "AC_Module_Type_E",
				State:             "working",
				LifetimeEnergyKWH: types.NewNumber(round(st.inverterE[i])),
				PowerKW:           types.NewNumber(round(kw)),
				HeatsinkTempC:     temp,
			})
		}

		st.produced += totalKW * hours
		st.consumed += homeKW * hours
		st.uptime += step.Seconds()
		devices = append(devices,
			types.Device{
				DeviceType:           types.DeviceTypePowerMeter,
				Type:                 "PVS5-METER-P",
				Serial:               "PVS5M000001p",
				NetLifetimeEnergyKWH: types.NewNumber(round(st.produced)),
				PowerKW:              types.NewNumber(round(totalKW)),
				PowerFactor:          types.NewNumber(0.95 + rng.Float64()*0.04),
			},
			types.Device{
				DeviceType:           types.DeviceTypePowerMeter,
				Type:                 "PVS5-METER-C",
				Serial:               "PVS5M000001c",
				NetLifetimeEnergyKWH: types.NewNumber(round(st.consumed)),
				PowerKW:              types.NewNumber(round(homeKW)),
				PowerFactor:          types.NewNumber(0.85 + rng.Float64()*0.1),
			},
		)

		snaps[storage.Key(t.Unix())] = types.DeviceList{Result: "succeed", Devices: devices}
	}
	return snaps
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
