// Package facility holds the read-only registry of depots and rail terminals and the
// proximity queries over it
package facility

import (
	"errors"
	"fmt"
	"math"

	"address-resolver/internal/geo"
	"address-resolver/internal/models"
)

// Directory is an immutable registry of depots and rail terminals. It is safe for
// concurrent use because nothing mutates it after New returns
type Directory struct {
	depots []models.Facility
	rail   []models.Facility
}

// New validates the table and copies it into a Directory
func New(table models.FacilityTable) (*Directory, error) {
	for name := range table {
		if name != models.DirectoryDepots && name != models.DirectoryRailTerminals {
			return nil, fmt.Errorf("facility: unknown directory %q", name)
		}
	}

	depots := append([]models.Facility(nil), table[models.DirectoryDepots]...)
	for i, f := range depots {
		if err := validate(f); err != nil {
			return nil, fmt.Errorf("facility: depot %d: %w", i, err)
		}
		if f.Division == "" {
			return nil, fmt.Errorf("facility: depot %d (%s): missing division", i, f.Name)
		}
	}

	rail := append([]models.Facility(nil), table[models.DirectoryRailTerminals]...)
	for i, f := range rail {
		if err := validate(f); err != nil {
			return nil, fmt.Errorf("facility: rail terminal %d: %w", i, err)
		}
		if f.State == "" {
			return nil, fmt.Errorf("facility: rail terminal %d (%s): missing state", i, f.Name)
		}
	}

	return &Directory{depots: depots, rail: rail}, nil
}

func validate(f models.Facility) error {
	if f.Name == "" {
		return errors.New("missing name")
	}
	if !geo.ValidLatLng(f.Latitude, f.Longitude) || geo.FormatCoordinates(f.Latitude, f.Longitude) == "" {
		return fmt.Errorf("%s: invalid coordinates %v,%v", f.Name, f.Latitude, f.Longitude)
	}
	return nil
}

// Depots returns a copy of the depot list
func (d *Directory) Depots() []models.Facility {
	return append([]models.Facility(nil), d.depots...)
}

// RailTerminals returns a copy of the rail terminal list
func (d *Directory) RailTerminals() []models.Facility {
	return append([]models.Facility(nil), d.rail...)
}

// LookupByAddress returns the first facility in the named directory whose address
// equals address exactly. An empty address never matches
func (d *Directory) LookupByAddress(directory, address string) (models.Facility, bool) {
	if address == "" {
		return models.Facility{}, false
	}

	var list []models.Facility
	switch directory {
	case models.DirectoryDepots:
		list = d.depots
	case models.DirectoryRailTerminals:
		list = d.rail
	default:
		return models.Facility{}, false
	}

	for _, f := range list {
		if f.Address == address {
			return f, true
		}
	}
	return models.Facility{}, false
}

// NearestDepot returns the "lat,lon" of the depot closest to coordinates among those
// serving division (or all divisions). On equal distances the earlier depot wins
func (d *Directory) NearestDepot(coordinates, division string) (string, bool) {
	lat, lon, ok := geo.ParseCoordinates(coordinates)
	if !ok {
		return "", false
	}

	var nearest *models.Facility
	minDistance := math.Inf(1)
	for i := range d.depots {
		depot := &d.depots[i]
		if depot.Division != division && depot.Division != models.DivisionAll {
			continue
		}
		if dist := geo.Distance(lat, lon, depot.Latitude, depot.Longitude); dist < minDistance {
			minDistance = dist
			nearest = depot
		}
	}

	if nearest == nil {
		return "", false
	}
	return geo.FormatCoordinates(nearest.Latitude, nearest.Longitude), true
}

// NearestRail returns the "lat,lon" of the first rail terminal in state, or "".
// State is a categorical key here; no distance is computed
func (d *Directory) NearestRail(state string) string {
	if state == "" {
		return ""
	}
	for _, f := range d.rail {
		if f.State == state {
			return geo.FormatCoordinates(f.Latitude, f.Longitude)
		}
	}
	return ""
}
