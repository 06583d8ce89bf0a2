package httpnav

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkmnav/navcore/internal/navwire"
)

// Client calls a remote navcore HTTP server.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient builds a Client targeting baseURL (e.g. "http://localhost:8080").
func NewClient(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTPClient: http.DefaultClient}
}

// FindPath calls POST /v1/find-path on the remote server.
func (c *Client) FindPath(ctx context.Context, req navwire.FindPathRequestWire) (navwire.RoutePlanWire, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return navwire.RoutePlanWire{}, fmt.Errorf("httpnav client: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/find-path", bytes.NewReader(body))
	if err != nil {
		return navwire.RoutePlanWire{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return navwire.RoutePlanWire{}, fmt.Errorf("httpnav client: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return navwire.RoutePlanWire{}, fmt.Errorf("httpnav client: server returned %s", resp.Status)
	}

	var plan navwire.RoutePlanWire
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		return navwire.RoutePlanWire{}, fmt.Errorf("httpnav client: decode response: %w", err)
	}
	return plan, nil
}
