package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yanqian/dinescout/internal/domain/discovery"
	apperrors "github.com/yanqian/dinescout/pkg/errors"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode"

// Client resolves addresses through the Google Geocoding API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(apiKey, baseURL string) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(base, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Geocode resolves a free text address to coordinates. Zero provider results
// surface as location_not_found with the original input; any other non-OK
// provider status is a geocoding_error.
func (c *Client) Geocode(ctx context.Context, address string) (discovery.Coordinates, error) {
	endpoint := fmt.Sprintf("%s/json?address=%s&key=%s", c.baseURL, url.QueryEscape(address), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return discovery.Coordinates{}, apperrors.Wrap("geocoding_error", "build geocode request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return discovery.Coordinates{}, apperrors.Wrap("geocoding_error", "geocode request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return discovery.Coordinates{}, apperrors.Wrap("geocoding_error",
			fmt.Sprintf("geocode request error: status=%d body=%s", resp.StatusCode, string(payload)), nil)
	}

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return discovery.Coordinates{}, apperrors.Wrap("geocoding_error", "decode geocode response", err)
	}

	switch raw.Status {
	case "OK":
	case "ZERO_RESULTS":
		return discovery.Coordinates{}, apperrors.Wrap("location_not_found",
			fmt.Sprintf("no results for location %q", address), nil)
	default:
		return discovery.Coordinates{}, apperrors.Wrap("geocoding_error",
			fmt.Sprintf("geocode provider status %s: %s", raw.Status, raw.ErrorMessage), nil)
	}
	if len(raw.Results) == 0 {
		return discovery.Coordinates{}, apperrors.Wrap("location_not_found",
			fmt.Sprintf("no results for location %q", address), nil)
	}

	loc := raw.Results[0].Geometry.Location
	return discovery.Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}

type apiResponse struct {
	Status       string   `json:"status"`
	ErrorMessage string   `json:"error_message"`
	Results      []result `json:"results"`
}

type result struct {
	FormattedAddress string   `json:"formatted_address"`
	Geometry         geometry `json:"geometry"`
}

type geometry struct {
	Location location `json:"location"`
}

type location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
