package models

// AddressComponent is one tagged piece of a geocoder result
type AddressComponent struct {
	Types     []string `json:"types"`
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
}

// LatLng is a point in degrees
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlaceResult is a geocoder result, either from an autocomplete selection or a reverse lookup
type PlaceResult struct {
	Components       []AddressComponent `json:"address_components"`
	FormattedAddress string             `json:"formatted_address"`
	Location         *LatLng            `json:"location,omitempty"`
}
