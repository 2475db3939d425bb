package models

// Outputs is the projection of a session's AddressRecord that the host application reads
type Outputs struct {
	FullAddress         string            `json:"fullAddress"`
	Label               string            `json:"label"`
	State               string            `json:"state"`
	Coordinates         string            `json:"coordinates"`
	ClosestDepot        map[string]string `json:"closestDepot"`
	NearestRailTerminal string            `json:"nearestRailTerminal"`
}
