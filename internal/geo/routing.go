package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RouteInfo is a routing provider answer for one origin/destination pair.
type RouteInfo struct {
	Minutes        int
	DistanceMeters int
}

// RoutingClient calls the external routing API for door-to-door ETAs.
type RoutingClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewRoutingClient constructs a routing client. A nil httpClient gets a
// bounded default so a dead provider can never hang lead generation.
func NewRoutingClient(httpClient *http.Client, baseURL, apiKey string) *RoutingClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &RoutingClient{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

// Route returns driving time and distance between two points.
func (c *RoutingClient) Route(ctx context.Context, fromLat, fromLon, toLat, toLon float64) (RouteInfo, error) {
	if c.baseURL == "" || c.apiKey == "" {
		return RouteInfo{}, errors.New("routing: client not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("from", fmt.Sprintf("%f,%f", fromLat, fromLon))
	params.Set("to", fmt.Sprintf("%f,%f", toLat, toLon))
	params.Set("mode", "driving")

	endpoint := fmt.Sprintf("%s/route?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return RouteInfo{}, fmt.Errorf("routing: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return RouteInfo{}, fmt.Errorf("routing: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return RouteInfo{}, fmt.Errorf("routing: http %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	var payload struct {
		Result struct {
			DurationSeconds int `json:"duration_seconds"`
			DistanceMeters  int `json:"distance_meters"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return RouteInfo{}, fmt.Errorf("routing: decode response: %w", err)
	}
	if payload.Result.DurationSeconds <= 0 {
		return RouteInfo{}, errors.New("routing: empty route in response")
	}

	minutes := payload.Result.DurationSeconds / 60
	if payload.Result.DurationSeconds%60 >= 30 {
		minutes++
	}
	if minutes < 1 {
		minutes = 1
	}
	return RouteInfo{Minutes: minutes, DistanceMeters: payload.Result.DistanceMeters}, nil
}
