// Package address turns geocoder results into AddressRecords
package address

import (
	"address-resolver/internal/geo"
	"address-resolver/internal/models"
	"address-resolver/internal/region"
)

type field int

const (
	fieldStreetNumber field = iota + 1
	fieldRoute
	fieldCity
	fieldState
	fieldCountry
	fieldPostalCode
)

// componentFields classifies a forward-selection component by its FIRST type label.
// When a component carries several labels that appear here, the component's own
// tag order decides; the order of this table never does
var componentFields = map[string]field{
	"street_number":               fieldStreetNumber,
	"route":                       fieldRoute,
	"locality":                    fieldCity,
	"political":                   fieldCity,
	"postal_town":                 fieldCity,
	"sublocality":                 fieldCity,
	"neighborhood":                fieldCity,
	"colloquial_area":             fieldCity,
	"administrative_area_level_1": fieldState,
	"country":                     fieldCountry,
	"postal_code":                 fieldPostalCode,
}

type parsed struct {
	streetNumber string
	street       string
	city         string
	state        string
	country      string
	postalCode   string
}

// Parse builds an AddressRecord from an autocomplete selection. A nil place, or one
// without components, yields the empty record. Later city-like components overwrite
// earlier ones
func Parse(place *models.PlaceResult) models.AddressRecord {
	if place == nil || place.Components == nil {
		return models.AddressRecord{}
	}

	var p parsed
	for _, c := range place.Components {
		if len(c.Types) == 0 {
			continue
		}
		switch componentFields[c.Types[0]] {
		case fieldStreetNumber:
			p.streetNumber = c.LongName
		case fieldRoute:
			p.street = p.streetNumber + " " + c.LongName
		case fieldCity:
			p.city = c.LongName
		case fieldState:
			p.state = c.LongName
		case fieldCountry:
			p.country = c.LongName
		case fieldPostalCode:
			p.postalCode = c.LongName
		}
	}

	return models.AddressRecord{
		FullAddress: place.FormattedAddress,
		City:        p.city,
		State:       region.Abbreviate(p.state),
		PostalCode:  p.postalCode,
		Coordinates: coordinates(place.Location),
		Street:      p.street,
	}
}

func coordinates(loc *models.LatLng) string {
	if loc == nil {
		return ""
	}
	return geo.FormatCoordinates(loc.Lat, loc.Lng)
}
