package address

import (
	"slices"

	"address-resolver/internal/models"
	"address-resolver/internal/region"
)

// ParseReverse builds an AddressRecord from a reverse-geocode result. Reverse results
// tag components less predictably, so a component counts when ANY of its labels
// matches, not just the first
func ParseReverse(place *models.PlaceResult) models.AddressRecord {
	if place == nil {
		return models.AddressRecord{}
	}

	var city, state, postalCode string
	for _, c := range place.Components {
		if slices.Contains(c.Types, "locality") {
			city = c.LongName
		}
		if slices.Contains(c.Types, "administrative_area_level_1") {
			state = c.ShortName
			if state == "" {
				state = c.LongName
			}
		}
		if slices.Contains(c.Types, "postal_code") {
			postalCode = c.LongName
		}
	}

	return models.AddressRecord{
		FullAddress: place.FormattedAddress,
		City:        city,
		State:       region.Abbreviate(state),
		PostalCode:  postalCode,
		Coordinates: coordinates(place.Location),
	}
}
