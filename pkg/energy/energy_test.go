package energy

import (
	"testing"
	"time"

	"github.com/jameshartig/solarmon/pkg/types"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 {
	return &f
}

func unix(year int, month time.Month, day, hour, minute int) int64 {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC).Unix()
}

func mustParse(t *testing.T, raw string) types.DeviceList {
	t.Helper()
	dl, err := types.ParseDeviceList([]byte(raw))
	require.NoError(t, err)
	return dl
}
