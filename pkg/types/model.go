package types

// Meter is the net reading of the production and consumption meters.
type Meter struct {
	LifetimeE float64 `json:"lifetimeE"` // kWh, production - consumption
	LifetimeP float64 `json:"lifetimeP"` // kW, production - consumption
	TotalPfac float64 `json:"totalPfac"` // min(production, consumption)
}

// InverterRecord is a single micro-inverter reading. Inverters have no
// identity across snapshots other than their position in Entry.Inverters.
type InverterRecord struct {
	LifetimeE    float64  `json:"lifetimeE"`
	LifetimeP    float64  `json:"lifetimeP"`
	TempHeatsink *float64 `json:"tempHeatsink"`
	Serial       string   `json:"serial,omitempty"`
}

// PVS is the gateway health snapshot.
type PVS struct {
	State         string `json:"STATE"`
	Serial        string `json:"SERIAL"`
	Model         string `json:"MODEL"`
	HWVer         string `json:"HWVER"`
	SWVer         string `json:"SWVER"`
	ErrorCount    Number `json:"dl_err_count"`
	Untransmitted Number `json:"dl_untransmitted"`
	Uptime        Number `json:"dl_uptime"`
	MemUsed       Number `json:"dl_mem_used"`
	CPULoad       Number `json:"dl_cpu_load"`
	FlashAvail    Number `json:"dl_flash_avail"`
}

// Entry is the normalized form of one snapshot.
type Entry struct {
	Meter     Meter            `json:"meter"`
	Inverters []InverterRecord `json:"inverters"`
	PVS       *PVS             `json:"pvs"`
}

// ChartEntry is an Entry paired with its unix-second timestamp.
type ChartEntry struct {
	Timestamp int64 `json:"timestamp"`
	Entry
}

// MeterData holds the meter series, index-aligned with Labels.
type MeterData struct {
	Labels         []int64   `json:"labels"`
	LifetimeEnergy []float64 `json:"lifetimeEnergy"`
	CurrentPower   []float64 `json:"currentPower"`
	DeltaEnergy    []float64 `json:"deltaEnergy"`
	PowerFactor    []float64 `json:"powerFactor"`
}

// SolarBridgeData holds the inverter totals, index-aligned with Labels.
type SolarBridgeData struct {
	Labels         []int64    `json:"labels"`
	LifetimeEnergy []float64  `json:"lifetimeEnergy"`
	CurrentPower   []float64  `json:"currentPower"`
	AvgTemp        []*float64 `json:"avgTemp"`
}

// InverterSeries is the history of a single inverter. ID is 1-based.
type InverterSeries struct {
	ID             int        `json:"id"`
	Serial         string     `json:"serial,omitempty"`
	LifetimeEnergy []float64  `json:"lifetimeEnergy"`
	CurrentPower   []float64  `json:"currentPower"`
	Temperature    []*float64 `json:"temperature"`
}

// Series is the assembled, read-only view of every entry ordered by
// ascending timestamp. It is rebuilt rather than mutated.
type Series struct {
	Timestamps  []int64          `json:"timestamps"`
	ChartData   []ChartEntry     `json:"chartData"`
	Meter       MeterData        `json:"meterData"`
	SolarBridge SolarBridgeData  `json:"solarBridgeData"`
	Inverters   []InverterSeries `json:"individualInverters"`
}

// Len returns the number of entries in the series.
func (s Series) Len() int {
	return len(s.Timestamps)
}

// RecentView is the most recent raw deltas, unaggregated.
type RecentView struct {
	Timestamps  []int64   `json:"timestamps"`
	DeltaEnergy []float64 `json:"deltaEnergy"`
}

// AggregationView is the summed deltas per calendar bucket within the latest
// period present in the data. Periods, Timestamps and DeltaEnergy always have
// equal length.
type AggregationView struct {
	Periods     []string  `json:"periods"`
	Timestamps  []int64   `json:"timestamps"`
	DeltaEnergy []float64 `json:"deltaEnergy"`
}

// DeltaEnergyViews are the four resolutions of the net energy chart.
type DeltaEnergyViews struct {
	Last30  RecentView      `json:"last30"`
	Monthly AggregationView `json:"monthly"` // days of the latest month
	Daily   AggregationView `json:"daily"`   // hours of the latest day
	Yearly  AggregationView `json:"yearly"`  // months of the latest year
}

// Reading is a cumulative energy value at a unix-second timestamp.
type Reading struct {
	Timestamp int64   `json:"timestamp"`
	Energy    float64 `json:"energy"`
}

// Lookback compares a reading against the one closest to a fixed lag before it.
type Lookback struct {
	Current           float64 `json:"current"`
	Previous          float64 `json:"previous"`
	Change            float64 `json:"change"`
	CurrentTimestamp  int64   `json:"currentTimestamp"`
	PreviousTimestamp int64   `json:"previousTimestamp"`
}

// Dashboard is everything the dashboard page renders.
type Dashboard struct {
	LatestTimestamp     int64            `json:"latestTimestamp,omitempty"`
	ChartData           []ChartEntry     `json:"chartData"`
	MeterData           MeterData        `json:"meterData"`
	SolarBridgeData     SolarBridgeData  `json:"solarBridgeData"`
	IndividualInverters []InverterSeries `json:"individualInverters"`
	DeltaEnergyViews    DeltaEnergyViews `json:"deltaEnergyViews"`
	// nil when fewer than 2 entries exist
	PowerGenDiff *Lookback `json:"powerGenDiff"`
}

// SystemInfo is the PVS health shown on the dashboard.
type SystemInfo struct {
	State         string  `json:"state"`
	Model         string  `json:"model"`
	HWVer         string  `json:"hwVer"`
	SWVer         string  `json:"swVer"`
	ErrorCount    float64 `json:"errorCount"`
	Untransmitted float64 `json:"untransmitted"`
	UptimeHours   int64   `json:"uptimeHours"`
	MemoryMB      float64 `json:"memoryMB"`
	FlashMB       float64 `json:"flashMB"`
	CPULoad       float64 `json:"cpuLoad"`
}

// StatCard is the summary for a single selected entry.
type StatCard struct {
	Timestamp      int64       `json:"timestamp"`
	Meter          Meter       `json:"meter"`
	AvgTemperature *float64    `json:"avgTemperature"`
	System         *SystemInfo `json:"system"`
	// nil when no entry lies within the tolerance of a day earlier
	PowerGenChange *Lookback `json:"powerGenChange"`
}
