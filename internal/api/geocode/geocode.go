package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/d8app/d8-backend/app/observability/metrics"
	"github.com/d8app/d8-backend/internal/types"
)

const defaultNominatimURL = "https://nominatim.openstreetmap.org"

// Client resolves coordinates to a human-readable place name via the
// OpenStreetMap Nominatim API. A failed lookup degrades to the
// "Unknown Location" sentinel rather than returning an error; the
// request handlers have a dedicated short-circuit for that value.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL, userAgent string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultNominatimURL
	}
	if userAgent == "" {
		userAgent = "D8-Restaurant-App/1.0"
	}
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     logger,
	}
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		Hamlet  string `json:"hamlet"`
		State   string `json:"state"`
		County  string `json:"county"`
		Country string `json:"country"`
	} `json:"address"`
}

// ReverseGeocode converts coordinates to a "City, State" style label.
func (c *Client) ReverseGeocode(ctx context.Context, latitude, longitude float64) string {
	metrics.Get().GeocodeRequestsTotal.Add(ctx, 1)

	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", fmt.Sprintf("%f", latitude))
	params.Set("lon", fmt.Sprintf("%f", longitude))
	params.Set("zoom", "10")
	params.Set("addressdetails", "1")
	reqURL := fmt.Sprintf("%s/reverse?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to build reverse geocode request", slog.Any("error", err))
		return types.UnknownLocation
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "Reverse geocoding call failed", slog.Any("error", err))
		return types.UnknownLocation
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "Reverse geocoding returned non-200 status", slog.Int("status", resp.StatusCode))
		return types.UnknownLocation
	}

	var data nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		c.logger.WarnContext(ctx, "Failed to decode reverse geocode response", slog.Any("error", err))
		return types.UnknownLocation
	}

	return formatLocation(data)
}

// formatLocation prefers "City, State", then "City, Country", then the
// bare city, then the first segment of the display name.
func formatLocation(data nominatimResponse) string {
	addr := data.Address

	city := addr.City
	if city == "" {
		city = addr.Town
	}
	if city == "" {
		city = addr.Village
	}
	if city == "" {
		city = addr.Hamlet
	}

	state := addr.State
	if state == "" {
		state = addr.County
	}

	switch {
	case city != "" && state != "":
		return fmt.Sprintf("%s, %s", city, state)
	case city != "" && addr.Country != "":
		return fmt.Sprintf("%s, %s", city, addr.Country)
	case city != "":
		return city
	}

	if data.DisplayName != "" {
		return strings.TrimSpace(strings.Split(data.DisplayName, ",")[0])
	}
	return types.UnknownLocation
}
