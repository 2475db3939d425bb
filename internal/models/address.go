package models

// AddressRecord is the canonical, normalized address produced by the resolution pipeline.
// Absent values are empty strings
type AddressRecord struct {
	FullAddress string `json:"fullAddress"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	Coordinates string `json:"coordinates"`

	// Street holds "<street_number> <route>". Reserved: nothing downstream reads it yet
	Street string `json:"-"`
}

// IsZero reports whether every field of the record is empty
func (r AddressRecord) IsZero() bool {
	return r == AddressRecord{}
}

// DisplayMode selects how the label is composed from an AddressRecord
type DisplayMode string

const (
	DisplayFull    DisplayMode = "Full"
	DisplayHeader  DisplayMode = "Header"
	DisplayDefault DisplayMode = "Default"
)
