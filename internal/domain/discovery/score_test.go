package discovery

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTotalScoreAllSignals(t *testing.T) {
	rating := 5.0
	price := 2
	venue := VenueRecord{Rating: &rating, PriceLevel: &price}
	summary := &AISummary{RankScore: 80}

	require.InDelta(t, 94.0, totalScore(venue, summary, 2), 1e-9)
}

func TestTotalScoreMissingSummary(t *testing.T) {
	rating := 3.0
	price := 4
	venue := VenueRecord{Rating: &rating, PriceLevel: &price}

	require.InDelta(t, 35.0, totalScore(venue, nil, 1), 1e-9)
}

func TestTotalScoreNoSignals(t *testing.T) {
	require.Zero(t, totalScore(VenueRecord{}, nil, 4))
}

func TestPriceFit(t *testing.T) {
	require.InDelta(t, 1.0, priceFit(2, 2), 1e-9)
	require.InDelta(t, 0.75, priceFit(1, 2), 1e-9)
	require.InDelta(t, 0.0, priceFit(0, 4), 1e-9)
}

func TestSortByScoreStable(t *testing.T) {
	results := []RankedResult{
		{VenueRecord: VenueRecord{PlaceID: "a"}, TotalScore: 50},
		{VenueRecord: VenueRecord{PlaceID: "b"}, TotalScore: 70},
		{VenueRecord: VenueRecord{PlaceID: "c"}, TotalScore: 50},
		{VenueRecord: VenueRecord{PlaceID: "d"}, TotalScore: 90},
	}

	sortByScore(results)

	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.PlaceID)
	}
	// Equal scores keep their original relative order.
	require.Equal(t, []string{"d", "b", "a", "c"}, ids)
}

func TestClamp(t *testing.T) {
	require.Equal(t, 100.0, clamp(150, 0, 100))
	require.Equal(t, 0.0, clamp(-3, 0, 100))
	require.Equal(t, 42.0, clamp(42, 0, 100))
}
