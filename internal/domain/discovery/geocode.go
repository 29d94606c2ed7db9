package discovery

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/yanqian/dinescout/pkg/errors"
)

// parseCoordinates treats the input as a literal "lat,lng" pair when it has
// exactly two comma separated tokens with no interior whitespace. Free text
// such as "Paris, France" falls through to the geocoding provider.
//
// attempted reports whether the input looked like a coordinate pair at all;
// when it did but either component is not a finite number, the returned
// error carries the original input so the caller can correct it.
func parseCoordinates(input string) (coords Coordinates, attempted bool, err error) {
	parts := strings.Split(strings.TrimSpace(input), ",")
	if len(parts) != 2 {
		return Coordinates{}, false, nil
	}
	for _, part := range parts {
		if part == "" || strings.ContainsAny(part, " \t") {
			return Coordinates{}, false, nil
		}
	}

	lat, latErr := strconv.ParseFloat(parts[0], 64)
	lng, lngErr := strconv.ParseFloat(parts[1], 64)
	if latErr != nil || lngErr != nil || !isFinite(lat) || !isFinite(lng) {
		return Coordinates{}, true, apperrors.Wrap("invalid_coordinates",
			fmt.Sprintf("location %q looks like coordinates but could not be parsed", input), nil)
	}
	return Coordinates{Lat: lat, Lng: lng}, true, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
