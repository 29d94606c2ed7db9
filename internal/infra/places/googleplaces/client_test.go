package googleplaces

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/dinescout/internal/domain/discovery"
	apperrors "github.com/yanqian/dinescout/pkg/errors"
)

func TestNearbySearchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/nearbysearch/json", r.URL.Path)
		require.Equal(t, "restaurant", r.URL.Query().Get("type"))
		require.Equal(t, "2", r.URL.Query().Get("maxprice"))
		w.Write([]byte(`{"status":"OK","results":[{"place_id":"p1","name":"One"},{"place_id":"p2","name":"Two"},{"name":"no id"}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	candidates, err := client.NearbySearch(context.Background(), discovery.Coordinates{Lat: 1, Lng: 2}, 5000, 2)
	require.NoError(t, err)
	require.Equal(t, []discovery.Candidate{{PlaceID: "p1", Name: "One"}, {PlaceID: "p2", Name: "Two"}}, candidates)
}

func TestNearbySearchOmitsMaxPriceAtCeiling(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.URL.Query().Get("maxprice"))
		w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	candidates, err := client.NearbySearch(context.Background(), discovery.Coordinates{}, 5000, 4)
	require.NoError(t, err)
	require.Empty(t, candidates)
}

func TestNearbySearchProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OVER_QUERY_LIMIT","error_message":"quota exceeded"}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	_, err := client.NearbySearch(context.Background(), discovery.Coordinates{}, 5000, 4)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "places_error"))
}

func TestDetailsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/details/json", r.URL.Path)
		require.Equal(t, "p1", r.URL.Query().Get("place_id"))
		w.Write([]byte(`{"status":"OK","result":{
			"place_id":"p1","name":"Dosa Corner","rating":4.4,"price_level":2,
			"formatted_address":"12 Main Street","geometry":{"location":{"lat":12.9,"lng":77.5}},
			"photos":[{"photo_reference":"r1"},{"photo_reference":"r2"},{"photo_reference":"r3"},{"photo_reference":"r4"}],
			"formatted_phone_number":"+91 1234","website":"https://example.com",
			"types":["restaurant","food"],
			"reviews":[{"text":"great","rating":5,"time":1700000000}]}}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	venue, ok, err := client.Details(context.Background(), "p1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Dosa Corner", venue.Name)
	require.NotNil(t, venue.Rating)
	require.Equal(t, 4.4, *venue.Rating)
	require.NotNil(t, venue.PriceLevel)
	require.Equal(t, 2, *venue.PriceLevel)
	require.Equal(t, 12.9, venue.Location.Lat)
	require.Len(t, venue.PhotoURLs, 3)
	require.Contains(t, venue.PhotoURLs[0], "photo_reference=r1")
	require.Contains(t, venue.PhotoURLs[0], "maxwidth=800")
	require.Len(t, venue.Reviews, 1)
	require.Equal(t, int64(1700000000), venue.Reviews[0].Time)
}

func TestDetailsNotFoundIsSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"NOT_FOUND"}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	_, ok, err := client.Details(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDetailsMissingOptionalFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","result":{"place_id":"p2","name":"No Frills","geometry":{"location":{"lat":1,"lng":2}}}}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	venue, ok, err := client.Details(context.Background(), "p2")
	require.NoError(t, err)
	require.True(t, ok)
	require.Nil(t, venue.Rating)
	require.Nil(t, venue.PriceLevel)
	require.Nil(t, venue.PhotoURLs)
	require.Empty(t, venue.Reviews)
}
