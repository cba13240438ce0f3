package shellycloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// BatchLimit is the maximum number of device IDs the cloud status endpoint
// accepts in one request. This is a hard constraint of the external API.
const BatchLimit = 10

// Client implements the Shelly Cloud v2 API.
type Client struct {
	httpClient http.Client
	baseUrl    string
	authKey    string
	logger     *slog.Logger
}

// DiscoveredDevice is one entry of the cloud device listing.
type DiscoveredDevice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type listDevicesResponse struct {
	Devices []DiscoveredDevice `json:"devices"`
}

type statusBatchResponse struct {
	Data map[string]json.RawMessage `json:"data"`
}

func New(httpClient http.Client, baseUrl, authKey string) *Client {
	return &Client{
		httpClient: httpClient,
		baseUrl:    baseUrl,
		authKey:    authKey,
		logger:     slog.Default().With("host", baseUrl),
	}
}

// ListDevices queries the cloud directory for the devices registered on the
// account.
func (c *Client) ListDevices(ctx context.Context) ([]DiscoveredDevice, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("%s/v2/devices", c.baseUrl),
		nil,
	)
	if err != nil {
		return nil, err
	}
	c.authorizeRequest(req)

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != 200 {
		return nil, fmt.Errorf("unexpected status code: %d", response.StatusCode)
	}

	parsed := listDevicesResponse{}
	if err := json.NewDecoder(response.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse body: %w", err)
	}

	return parsed.Devices, nil
}

// GetStatuses fetches the raw status payloads for one batch of device IDs,
// keyed by device ID. Devices the cloud has no status for are simply absent
// from the returned map. The caller must keep len(ids) within BatchLimit.
func (c *Client) GetStatuses(ctx context.Context, ids []string) (map[string]json.RawMessage, error) {
	body, err := json.Marshal(map[string][]string{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		fmt.Sprintf("%s/v2/devices/status", c.baseUrl),
		bytes.NewBuffer(body),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorizeRequest(req)

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post status batch: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != 200 {
		return nil, fmt.Errorf("unexpected status code: %d", response.StatusCode)
	}

	parsed := statusBatchResponse{}
	if err := json.NewDecoder(response.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse body: %w", err)
	}
	if parsed.Data == nil {
		return nil, errors.New("response has no data")
	}

	return parsed.Data, nil
}

// authorizeRequest adds the cloud auth key to the given request.
func (c *Client) authorizeRequest(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.authKey))
}
