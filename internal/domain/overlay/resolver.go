package overlay

import (
	"fmt"

	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/planning"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/shared"
)

// Input is the state an overlay is derived from
type Input struct {
	Ports       []catalog.Port
	Origin      *shared.Coordinate
	Destination *shared.Coordinate
	Plan        *planning.PlanResult
	Refuel      *planning.RefuelResult
}

// Resolve derives drawable primitives from the current state. It never fails:
// a refuel stop whose node name has no port in the catalog is left off the map.
func Resolve(in Input) Overlay {
	var out Overlay

	for _, p := range in.Ports {
		out.Markers = append(out.Markers, Marker{
			Kind:     MarkerPort,
			Position: p.Location(),
			Label:    p.Name,
			Detail:   fmt.Sprintf("$%g/t", p.BunkerPrice),
		})
	}

	if in.Origin != nil {
		out.Markers = append(out.Markers, Marker{Kind: MarkerOrigin, Position: *in.Origin, Label: "Origin"})
	}
	if in.Destination != nil {
		out.Markers = append(out.Markers, Marker{Kind: MarkerDestination, Position: *in.Destination, Label: "Destination"})
	}

	if in.Plan != nil {
		out.Polylines = append(out.Polylines, legPolylines(in.Plan.LegDetails)...)
	}

	if in.Refuel != nil && !in.Refuel.Infeasible() {
		out.Markers = append(out.Markers, fuelStopMarkers(in.Refuel.FuelPlan, in.Ports)...)
	}

	return out
}

func legPolylines(legs []planning.LegDetail) []Polyline {
	lines := make([]Polyline, 0, len(legs))
	for i, leg := range legs {
		lines = append(lines, Polyline{
			Points:   []shared.Coordinate{leg.FromCoord, leg.ToCoord},
			LegIndex: i,
		})
	}
	return lines
}

func fuelStopMarkers(stops []planning.RefuelStop, ports []catalog.Port) []Marker {
	index := portsByName(ports)

	markers := make([]Marker, 0, len(stops))
	for _, stop := range stops {
		port, ok := index[stop.Node]
		if !ok {
			// synthetic optimizer nodes have no catalog entry
			continue
		}
		markers = append(markers, Marker{
			Kind:     MarkerFuelStop,
			Position: port.Location(),
			Label:    stop.Node,
			Detail:   fmt.Sprintf("+%g", stop.AddedAmount),
		})
	}
	return markers
}

// portsByName indexes ports by exact name; the first port wins on duplicates
func portsByName(ports []catalog.Port) map[string]catalog.Port {
	index := make(map[string]catalog.Port, len(ports))
	for _, p := range ports {
		if _, exists := index[p.Name]; !exists {
			index[p.Name] = p
		}
	}
	return index
}
