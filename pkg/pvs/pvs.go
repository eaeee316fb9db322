// Package pvs talks to the SunPower PVS gateway on the local network.
package pvs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jameshartig/solarmon/pkg/common"
	"github.com/jameshartig/solarmon/pkg/log"
	"github.com/levenlabs/go-lflag"
)

// DefaultGateway is the address the PVS installer port answers on.
const DefaultGateway = "http://172.27.153.1"

const deviceListPath = "cgi-bin/dl_cgi"

// maxBodySize bounds a device list response. Large sites return well under a
// megabyte.
const maxBodySize = 16 << 20

// Client fetches device lists from a single gateway.
type Client struct {
	client  *http.Client
	baseURL string
}

// New returns a client for the gateway at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		client:  common.HTTPClient(timeout),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Configured sets up a Client based on flags.
func Configured() *Client {
	gateway := lflag.String("pvs-gateway", DefaultGateway, "Base URL of the PVS gateway")
	timeout := lflag.Duration("pvs-timeout", 30*time.Second, "Timeout for a device list request")

	c := &Client{}
	lflag.Do(func() {
		*c = *New(*gateway, *timeout)
		if _, err := url.Parse(c.baseURL); err != nil {
			panic(fmt.Sprintf("invalid pvs-gateway: %v", err))
		}
	})
	return c
}

// DeviceList returns the gateway's device list body unmodified. The body
// must be valid JSON but is otherwise not interpreted so that it can be
// stored verbatim.
func (c *Client) DeviceList(ctx context.Context) (json.RawMessage, error) {
	u := c.baseURL + "/" + deviceListPath + "?" + url.Values{"Command": {"DeviceList"}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create device list request: %w", err)
	}

	log.Ctx(ctx).DebugContext(ctx, "fetching device list", slog.String("url", u))
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch device list: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read device list: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("device list returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("device list response is not valid json")
	}
	return json.RawMessage(body), nil
}
