package geo

import (
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"
)

// FormatCoordinates renders a point as "lat,lon" using the shortest exact decimal form.
// Non-finite input renders as the empty string
func FormatCoordinates(lat, lon float64) string {
	if !finite(lat) || !finite(lon) {
		return ""
	}
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
}

// ParseCoordinates decodes "lat,lon". Surrounding parentheses and whitespace around
// either number are tolerated. ok is false unless exactly two finite numbers are present
func ParseCoordinates(s string) (lat, lon float64, ok bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || !finite(lat) {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || !finite(lon) {
		return 0, 0, false
	}
	return lat, lon, true
}

// ValidLatLng reports whether lat is within [-90, 90] and lon within [-180, 180]
func ValidLatLng(lat, lon float64) bool {
	return s2.LatLngFromDegrees(lat, lon).IsValid()
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
