package pvs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jameshartig/solarmon/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deviceListBody = `{"devices":[{"DEVICE_TYPE":"PVS","STATE":"working"}],"result":"succeed"}`

func TestDeviceList(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/cgi-bin/dl_cgi", r.URL.Path)
			assert.Equal(t, "DeviceList", r.URL.Query().Get("Command"))
			assert.Equal(t, common.UserAgent(), r.Header.Get("User-Agent"))
			w.Write([]byte(deviceListBody))
		}))
		defer ts.Close()

		raw, err := New(ts.URL+"/", time.Second).DeviceList(context.Background())
		require.NoError(t, err)
		// stored verbatim
		assert.Equal(t, deviceListBody, string(raw))
	})

	t.Run("bad status", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "busy", http.StatusServiceUnavailable)
		}))
		defer ts.Close()

		_, err := New(ts.URL, time.Second).DeviceList(context.Background())
		assert.ErrorContains(t, err, "status 503")
	})

	t.Run("not json", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>"))
		}))
		defer ts.Close()

		_, err := New(ts.URL, time.Second).DeviceList(context.Background())
		assert.ErrorContains(t, err, "not valid json")
	})

	t.Run("cancelled", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(deviceListBody))
		}))
		defer ts.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := New(ts.URL, time.Second).DeviceList(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
