package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/dinescout/internal/domain/discovery"
	"github.com/yanqian/dinescout/internal/infra/config"
	apperrors "github.com/yanqian/dinescout/pkg/errors"
)

func TestRouter_SearchSuccess(t *testing.T) {
	rating := 4.5
	resp := discovery.Response{
		Restaurants: []discovery.RankedResult{
			{
				VenueRecord: discovery.VenueRecord{PlaceID: "p1", Name: "Annapurna", Rating: &rating},
				TotalScore:  78.5,
			},
		},
		SearchLocation: discovery.Coordinates{Lat: 12.97, Lng: 77.59},
		TotalFound:     1,
	}
	svc := &stubDiscovery{
		searchFn: func(ctx context.Context, req discovery.SearchRequest) (discovery.Response, error) {
			require.Equal(t, "Bangalore", req.Location)
			require.True(t, req.VegOnly)
			return resp, nil
		},
	}

	recorder := performRequest("/api/v1/restaurants/search", `{"location":"Bangalore","veg_only":true}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got discovery.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, resp, got)
}

func TestRouter_SearchInvalidJSON(t *testing.T) {
	svc := &stubDiscovery{}

	recorder := performRequest("/api/v1/restaurants/search", `{"location":123}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	body := decodeErrorBody(t, recorder.Body.Bytes())
	require.NotEmpty(t, body.Error)
	require.Empty(t, body.Restaurants)
	require.Zero(t, body.TotalFound)
}

func TestRouter_SearchInvalidCoordinates(t *testing.T) {
	svc := &stubDiscovery{
		searchFn: func(ctx context.Context, req discovery.SearchRequest) (discovery.Response, error) {
			return discovery.Response{}, apperrors.Wrap("invalid_coordinates", "invalid coordinates: abc,def", nil)
		},
	}

	recorder := performRequest("/api/v1/restaurants/search", `{"location":"abc,def"}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	body := decodeErrorBody(t, recorder.Body.Bytes())
	require.Contains(t, body.Error, "abc,def")
	require.Empty(t, body.Restaurants)
	require.Zero(t, body.TotalFound)
}

func TestRouter_SearchLocationNotFound(t *testing.T) {
	svc := &stubDiscovery{
		searchFn: func(ctx context.Context, req discovery.SearchRequest) (discovery.Response, error) {
			return discovery.Response{}, apperrors.Wrap("location_not_found", "location not found: Atlantis", nil)
		},
	}

	recorder := performRequest("/api/v1/restaurants/search", `{"location":"Atlantis"}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusNotFound, recorder.Code)

	body := decodeErrorBody(t, recorder.Body.Bytes())
	require.Contains(t, body.Error, "Atlantis")
}

func TestRouter_SearchProviderFailure(t *testing.T) {
	svc := &stubDiscovery{
		searchFn: func(ctx context.Context, req discovery.SearchRequest) (discovery.Response, error) {
			return discovery.Response{}, apperrors.Wrap("places_error", "nearby search failed", nil)
		},
	}

	recorder := performRequest("/api/v1/restaurants/search", `{"location":"Bangalore"}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadGateway, recorder.Code)

	body := decodeErrorBody(t, recorder.Body.Bytes())
	require.Contains(t, body.Error, "nearby search failed")
	require.Empty(t, body.Restaurants)
	require.Zero(t, body.TotalFound)
}

func TestRouter_Healthz(t *testing.T) {
	server := newRouterUnderTest(t, &stubDiscovery{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_RateLimitDenialHasBody(t *testing.T) {
	handler := NewHandler(&stubDiscovery{}, newTestLogger())
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			RateLimit: config.RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 1,
				Burst:             1,
			},
		},
	}
	server := NewRouter(cfg, handler)

	first := httptest.NewRecorder()
	server.Handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	server.Handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusTooManyRequests, second.Code)

	body := decodeErrorBody(t, second.Body.Bytes())
	require.Contains(t, body.Error, "too many requests")
	require.Empty(t, body.Restaurants)
	require.Zero(t, body.TotalFound)
}

func TestRouter_RequestIDEchoed(t *testing.T) {
	server := newRouterUnderTest(t, &stubDiscovery{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}

func performRequest(path, body string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, svc discovery.Service) *http.Server {
	t.Helper()
	handler := NewHandler(svc, newTestLogger())
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubDiscovery struct {
	searchFn func(ctx context.Context, req discovery.SearchRequest) (discovery.Response, error)
}

func (s *stubDiscovery) Search(ctx context.Context, req discovery.SearchRequest) (discovery.Response, error) {
	if s.searchFn != nil {
		return s.searchFn(ctx, req)
	}
	return discovery.Response{}, nil
}

type errorBody struct {
	Error       string                   `json:"error"`
	Restaurants []discovery.RankedResult `json:"restaurants"`
	TotalFound  int                      `json:"total_found"`
}

func decodeErrorBody(t *testing.T, raw []byte) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
