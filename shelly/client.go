package shelly

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Client fetches status payloads from Shelly devices on the local network.
type Client struct {
	httpClient http.Client
}

// NewClient returns a local device client. The given http.Client's timeout
// bounds every status request.
func NewClient(httpClient http.Client) *Client {
	return &Client{httpClient: httpClient}
}

// GetStatus performs an unauthenticated GET against the device's status URL
// and returns the raw JSON payload.
func (c *Client) GetStatus(ctx context.Context, url string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != 200 {
		return nil, fmt.Errorf("unexpected status code: %d", response.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(response.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse body: %w", err)
	}

	return raw, nil
}
