package catalog

import "github.com/andrescamacho/cargoplanner-go/internal/domain/shared"

// Port is a seeded port as served by GET /ports. Read-only for the session.
type Port struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	BunkerPrice float64  `json:"bunker_price"`
	PortFee     *float64 `json:"port_fee,omitempty"`
}

// Location copies the port position into a Coordinate
func (p Port) Location() shared.Coordinate {
	return shared.Coordinate{Lat: p.Lat, Lon: p.Lon}
}
