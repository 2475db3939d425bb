// Package geo holds the great-circle distance and the canonical "lat,lon" coordinate text form
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by Distance
const EarthRadiusKm = 6371.0

// Distance returns the haversine distance in kilometers between two points given in degrees.
// NaN inputs yield NaN
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
