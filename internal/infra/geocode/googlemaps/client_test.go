package googlemaps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/dinescout/pkg/errors"
)

func TestGeocodeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/json", r.URL.Path)
		require.Equal(t, "Bangalore", r.URL.Query().Get("address"))
		require.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Write([]byte(`{"status":"OK","results":[{"formatted_address":"Bengaluru, India","geometry":{"location":{"lat":12.9716,"lng":77.5946}}}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	coords, err := client.Geocode(context.Background(), "Bangalore")
	require.NoError(t, err)
	require.Equal(t, 12.9716, coords.Lat)
	require.Equal(t, 77.5946, coords.Lng)
}

func TestGeocodeZeroResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	_, err := client.Geocode(context.Background(), "nowhere at all zzz")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "location_not_found"))
	require.Contains(t, err.Error(), "nowhere at all zzz")
}

func TestGeocodeProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid."}`))
	}))
	defer server.Close()

	client := NewClient("bad-key", server.URL)
	_, err := client.Geocode(context.Background(), "Bangalore")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "geocoding_error"))
	require.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestGeocodeHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	_, err := client.Geocode(context.Background(), "Bangalore")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "geocoding_error"))
}
