package models

// Directory names used in a FacilityTable
const (
	DirectoryDepots        = "depots"
	DirectoryRailTerminals = "rail_terminals"
)

// DivisionAll marks a depot that serves every division
const DivisionAll = "All"

// Facility is a depot or rail terminal. Depots carry a Division, rail terminals a State
type Facility struct {
	Name      string  `json:"name" yaml:"name"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Address   string  `json:"address" yaml:"address"`
	Division  string  `json:"division,omitempty" yaml:"division,omitempty"`
	State     string  `json:"state,omitempty" yaml:"state,omitempty"`
}

// FacilityTable maps a directory name to its facilities, in declaration order
type FacilityTable map[string][]Facility
