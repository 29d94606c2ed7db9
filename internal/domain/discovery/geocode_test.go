package discovery

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/dinescout/pkg/errors"
)

func TestParseCoordinatesLiteral(t *testing.T) {
	cases := []struct {
		name  string
		input string
		lat   float64
		lng   float64
	}{
		{name: "plain", input: "12.9716,77.5946", lat: 12.9716, lng: 77.5946},
		{name: "negative", input: "-33.8688,151.2093", lat: -33.8688, lng: 151.2093},
		{name: "integers", input: "12,77", lat: 12, lng: 77},
		{name: "surrounding whitespace", input: "  1.35,103.82  ", lat: 1.35, lng: 103.82},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			coords, attempted, err := parseCoordinates(tc.input)
			require.True(t, attempted)
			require.NoError(t, err)
			require.Equal(t, tc.lat, coords.Lat)
			require.Equal(t, tc.lng, coords.Lng)
		})
	}
}

func TestParseCoordinatesMalformed(t *testing.T) {
	for _, input := range []string{"abc,def", "12.5,xyz", "NaN,77", "Inf,77"} {
		t.Run(input, func(t *testing.T) {
			_, attempted, err := parseCoordinates(input)
			require.True(t, attempted)
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, "invalid_coordinates"))
			require.Contains(t, err.Error(), input)
		})
	}
}

func TestParseCoordinatesFreeText(t *testing.T) {
	for _, input := range []string{"Bangalore", "Paris, France", "1,2,3", "12.5 , 77.6"} {
		t.Run(input, func(t *testing.T) {
			_, attempted, err := parseCoordinates(input)
			require.False(t, attempted)
			require.NoError(t, err)
		})
	}
}
