// Package label composes the visible label for an AddressRecord
package label

import (
	"address-resolver/internal/models"
)

// Match is the result of looking a record's full address up in the facility directories
type Match struct {
	Depot *models.Facility
	Rail  *models.Facility
}

// Lookup finds facilities by exact address
type Lookup interface {
	LookupByAddress(directory, address string) (models.Facility, bool)
}

// MatchFor looks record.FullAddress up in both facility directories
func MatchFor(dir Lookup, record models.AddressRecord) Match {
	var m Match
	if f, ok := dir.LookupByAddress(models.DirectoryDepots, record.FullAddress); ok {
		m.Depot = &f
	}
	if f, ok := dir.LookupByAddress(models.DirectoryRailTerminals, record.FullAddress); ok {
		m.Rail = &f
	}
	return m
}

// Synthesize returns the label for record under mode. Unrecognised modes behave as
// DisplayDefault: a facility name when the address is a known facility, otherwise
// the header form
func Synthesize(record models.AddressRecord, mode models.DisplayMode, match Match) string {
	switch mode {
	case models.DisplayFull:
		return record.FullAddress
	case models.DisplayHeader:
		return header(record)
	}

	switch {
	case match.Depot != nil:
		return match.Depot.Name
	case match.Rail != nil:
		return match.Rail.Name
	default:
		return header(record)
	}
}

// header renders "City, STATE 1234", dropping the state and postcode segments
// independently when empty. A record without a full address has no header
func header(record models.AddressRecord) string {
	if record.FullAddress == "" {
		return ""
	}
	s := record.City
	if record.State != "" {
		s += ", " + record.State
	}
	if record.PostalCode != "" {
		s += " " + record.PostalCode
	}
	return s
}
