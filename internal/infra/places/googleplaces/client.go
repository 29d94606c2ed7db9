package googleplaces

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

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api/place"
	maxPhotos      = 3
	photoMaxWidth  = 800
)

// Client talks to the Google Places API.
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
			Timeout: 15 * time.Second,
		},
	}
}

// NearbySearch returns restaurant candidates around the origin. A non-OK
// provider status (other than an empty result set) fails the whole search.
func (c *Client) NearbySearch(ctx context.Context, origin discovery.Coordinates, radius, maxPrice int) ([]discovery.Candidate, error) {
	query := url.Values{}
	query.Set("location", fmt.Sprintf("%f,%f", origin.Lat, origin.Lng))
	query.Set("radius", fmt.Sprintf("%d", radius))
	query.Set("type", "restaurant")
	if maxPrice >= 0 && maxPrice < 4 {
		query.Set("maxprice", fmt.Sprintf("%d", maxPrice))
	}
	query.Set("key", c.apiKey)

	var raw nearbyResponse
	if err := c.getJSON(ctx, c.baseURL+"/nearbysearch/json?"+query.Encode(), &raw); err != nil {
		return nil, apperrors.Wrap("places_error", "nearby search failed", err)
	}
	if raw.Status != "OK" && raw.Status != "ZERO_RESULTS" {
		return nil, apperrors.Wrap("places_error",
			fmt.Sprintf("nearby search provider status %s: %s", raw.Status, raw.ErrorMessage), nil)
	}

	candidates := make([]discovery.Candidate, 0, len(raw.Results))
	for _, item := range raw.Results {
		if item.PlaceID == "" {
			continue
		}
		candidates = append(candidates, discovery.Candidate{PlaceID: item.PlaceID, Name: item.Name})
	}
	return candidates, nil
}

// Details fetches the full attribute set for one place. A non-OK provider
// status for this place yields ok=false rather than an error so the caller
// can skip the venue without aborting the batch.
func (c *Client) Details(ctx context.Context, placeID string) (discovery.VenueRecord, bool, error) {
	query := url.Values{}
	query.Set("place_id", placeID)
	query.Set("fields", "place_id,name,rating,price_level,formatted_address,geometry,photos,formatted_phone_number,website,types,reviews")
	query.Set("key", c.apiKey)

	var raw detailsResponse
	if err := c.getJSON(ctx, c.baseURL+"/details/json?"+query.Encode(), &raw); err != nil {
		return discovery.VenueRecord{}, false, apperrors.Wrap("details_unavailable", "details fetch failed", err)
	}
	if raw.Status != "OK" {
		return discovery.VenueRecord{}, false, nil
	}
	return c.toVenueRecord(raw.Result), true, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build places request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("places request error: status=%d body=%s", resp.StatusCode, string(payload))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode places response: %w", err)
	}
	return nil
}

func (c *Client) toVenueRecord(item placeDetails) discovery.VenueRecord {
	record := discovery.VenueRecord{
		PlaceID:    item.PlaceID,
		Name:       item.Name,
		Rating:     item.Rating,
		PriceLevel: item.PriceLevel,
		Address:    item.FormattedAddress,
		Location: discovery.Coordinates{
			Lat: item.Geometry.Location.Lat,
			Lng: item.Geometry.Location.Lng,
		},
		Phone:      item.Phone,
		Website:    item.Website,
		Categories: item.Types,
		PhotoURLs:  c.photoURLs(item.Photos),
	}
	for _, review := range item.Reviews {
		record.Reviews = append(record.Reviews, discovery.Review{
			Text:   review.Text,
			Rating: review.Rating,
			Time:   review.Time,
		})
	}
	return record
}

// photoURLs maps photo references to fully qualified URLs, capped at three.
func (c *Client) photoURLs(photos []photo) []string {
	out := make([]string, 0, maxPhotos)
	for _, p := range photos {
		if p.PhotoReference == "" {
			continue
		}
		out = append(out, fmt.Sprintf("%s/photo?maxwidth=%d&photo_reference=%s&key=%s",
			c.baseURL, photoMaxWidth, url.QueryEscape(p.PhotoReference), url.QueryEscape(c.apiKey)))
		if len(out) == maxPhotos {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

type nearbyResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
	Results      []placeResult `json:"results"`
}

type placeResult struct {
	PlaceID string `json:"place_id"`
	Name    string `json:"name"`
}

type detailsResponse struct {
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message"`
	Result       placeDetails `json:"result"`
}

type placeDetails struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Rating           *float64 `json:"rating,omitempty"`
	PriceLevel       *int     `json:"price_level,omitempty"`
	FormattedAddress string   `json:"formatted_address"`
	Geometry         geometry `json:"geometry"`
	Photos           []photo  `json:"photos"`
	Phone            string   `json:"formatted_phone_number"`
	Website          string   `json:"website"`
	Types            []string `json:"types"`
	Reviews          []review `json:"reviews"`
}

type geometry struct {
	Location location `json:"location"`
}

type location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type photo struct {
	PhotoReference string `json:"photo_reference"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

type review struct {
	Text   string  `json:"text"`
	Rating float64 `json:"rating"`
	Time   int64   `json:"time"`
}
