package service

import (
	"address-resolver/internal/label"
	"address-resolver/internal/models"
)

// FacilityDirectory is the read-only facility registry the projection depends on
type FacilityDirectory interface {
	LookupByAddress(directory, address string) (models.Facility, bool)
	NearestDepot(coordinates, division string) (string, bool)
	NearestRail(state string) string
}

// AddressService turns AddressRecords into labels and host-facing outputs
type AddressService struct {
	directory FacilityDirectory
	divisions []string
}

// NewAddressService creates an address service reporting the closest depot for each division
func NewAddressService(directory FacilityDirectory, divisions []string) *AddressService {
	return &AddressService{
		directory: directory,
		divisions: append([]string(nil), divisions...),
	}
}

// Label synthesizes the display label for record under mode
func (s *AddressService) Label(record models.AddressRecord, mode models.DisplayMode) string {
	return label.Synthesize(record, mode, label.MatchFor(s.directory, record))
}

// Project computes every output field for record. Depot proximity is only reported
// once a full address is known; the rail terminal follows the state alone
func (s *AddressService) Project(record models.AddressRecord, mode models.DisplayMode) models.Outputs {
	out := models.Outputs{
		FullAddress:         record.FullAddress,
		Label:               s.Label(record, mode),
		State:               record.State,
		Coordinates:         record.Coordinates,
		ClosestDepot:        make(map[string]string, len(s.divisions)),
		NearestRailTerminal: s.directory.NearestRail(record.State),
	}
	for _, division := range s.divisions {
		out.ClosestDepot[division] = ""
		if record.FullAddress == "" {
			continue
		}
		if depot, ok := s.directory.NearestDepot(record.Coordinates, division); ok {
			out.ClosestDepot[division] = depot
		}
	}
	return out
}
