package overlay

import "github.com/andrescamacho/cargoplanner-go/internal/domain/shared"

// MarkerKind tells a front-end which icon to draw
type MarkerKind string

const (
	MarkerPort        MarkerKind = "port"
	MarkerOrigin      MarkerKind = "origin"
	MarkerDestination MarkerKind = "destination"
	MarkerFuelStop    MarkerKind = "fuel_stop"
)

// Marker is a labelled point
type Marker struct {
	Kind     MarkerKind
	Position shared.Coordinate
	Label    string
	Detail   string
}

// Polyline is a path segment; multi-leg plans draw one per leg
type Polyline struct {
	Points   []shared.Coordinate
	LegIndex int
}

// Overlay is everything drawn on top of the map tiles
type Overlay struct {
	Markers   []Marker
	Polylines []Polyline
}

// MarkersOf filters markers by kind
func (o Overlay) MarkersOf(kind MarkerKind) []Marker {
	var out []Marker
	for _, m := range o.Markers {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// Viewport is the map camera
type Viewport struct {
	Center shared.Coordinate
	Zoom   int
}

// DefaultViewport is used until the port catalog arrives
func DefaultViewport() Viewport {
	return Viewport{Center: shared.Coordinate{Lat: 20, Lon: 0}, Zoom: 3}
}
