package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeviceList(t *testing.T) {
	t.Run("gateway body", func(t *testing.T) {
		raw := `{
			"result": "succeed",
			"devices": [
				{"DEVICE_TYPE": "PVS", "STATE": "working", "SERIAL": "ZT01", "dl_uptime": "7200"},
				{"DEVICE_TYPE": "Power Meter", "TYPE": "PVS5-METER-P", "net_ltea_3phsum_kwh": "100.5", "p_3phsum_kw": 1.2, "tot_pf_rto": "0.99"},
				{"DEVICE_TYPE": "Inverter", "SERIAL": "E001", "ltea_3phsum_kwh": "12", "p_3phsum_kw": "0.2", "t_htsnk_degc": "31"}
			]
		}`
		dl, err := ParseDeviceList([]byte(raw))
		require.NoError(t, err)
		assert.Equal(t, "succeed", dl.Result)
		require.Len(t, dl.Devices, 3)

		assert.Equal(t, DeviceTypePVS, dl.Devices[0].DeviceType)
		assert.Equal(t, 7200.0, dl.Devices[0].Uptime.Float64())
		assert.Equal(t, 100.5, dl.Devices[1].NetLifetimeEnergyKWH.Float64())
		assert.Equal(t, 1.2, dl.Devices[1].PowerKW.Float64())
		assert.Equal(t, "E001", dl.Devices[2].Serial)
		assert.Equal(t, 31.0, dl.Devices[2].HeatsinkTempC.Float64())
	})

	t.Run("wrong field type is skipped", func(t *testing.T) {
		raw := `{"devices": [
			{"DEVICE_TYPE": "Inverter", "SERIAL": 12345, "ltea_3phsum_kwh": "7"},
			{"DEVICE_TYPE": "Inverter", "SERIAL": "E002", "ltea_3phsum_kwh": "8"}
		]}`
		dl, err := ParseDeviceList([]byte(raw))
		require.NoError(t, err)
		require.Len(t, dl.Devices, 2)
		assert.Equal(t, "", dl.Devices[0].Serial)
		assert.Equal(t, 7.0, dl.Devices[0].LifetimeEnergyKWH.Float64())
		assert.Equal(t, "E002", dl.Devices[1].Serial)
	})

	t.Run("missing devices", func(t *testing.T) {
		dl, err := ParseDeviceList([]byte(`{"result": "succeed"}`))
		require.NoError(t, err)
		assert.Empty(t, dl.Devices)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ParseDeviceList([]byte(`{"devices": [`))
		assert.Error(t, err)
	})
}
