package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Device types reported in DEVICE_TYPE.
const (
	DeviceTypePVS        = "PVS"
	DeviceTypePowerMeter = "Power Meter"
	DeviceTypeInverter   = "Inverter"
)

// Power meter TYPE suffixes.
const (
	MeterSuffixProduction  = "METER-P"
	MeterSuffixConsumption = "METER-C"
)

// DeviceList is the body returned by the gateway's DeviceList command and is
// what the collector stores for every snapshot.
type DeviceList struct {
	Result  string   `json:"result,omitempty"`
	Devices []Device `json:"devices"`
}

// Device is a single entry in a DeviceList. Only the fields we read are
// declared; which ones are populated depends on DeviceType.
type Device struct {
	DeviceType string `json:"DEVICE_TYPE"`
	Type       string `json:"TYPE"`
	Serial     string `json:"SERIAL"`
	Model      string `json:"MODEL"`
	State      string `json:"STATE"`
	HWVer      string `json:"HWVER"`
	SWVer      string `json:"SWVER"`

	// Power Meter
	NetLifetimeEnergyKWH Number `json:"net_ltea_3phsum_kwh"`
	PowerKW              Number `json:"p_3phsum_kw"`
	PowerFactor          Number `json:"tot_pf_rto"`

	// Inverter (also reports p_3phsum_kw)
	LifetimeEnergyKWH Number `json:"ltea_3phsum_kwh"`
	HeatsinkTempC     Number `json:"t_htsnk_degc"`

	// PVS
	ErrorCount    Number `json:"dl_err_count"`
	Untransmitted Number `json:"dl_untransmitted"`
	Uptime        Number `json:"dl_uptime"`
	MemUsed       Number `json:"dl_mem_used"`
	CPULoad       Number `json:"dl_cpu_load"`
	FlashAvail    Number `json:"dl_flash_avail"`
}

// ParseDeviceList decodes a stored snapshot body. A field holding an
// unexpected JSON type is left at its zero value rather than failing the
// whole snapshot; only malformed JSON returns an error.
func ParseDeviceList(raw []byte) (DeviceList, error) {
	var dl DeviceList
	if err := json.Unmarshal(raw, &dl); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return dl, nil
		}
		return DeviceList{}, fmt.Errorf("failed to decode device list: %w", err)
	}
	return dl, nil
}
