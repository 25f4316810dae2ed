package overlay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/overlay"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/planning"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/shared"
)

var rotterdam = catalog.Port{ID: 1, Name: "Rotterdam", Lat: 51.9, Lon: 4.5, BunkerPrice: 610}

func TestResolve_PortsAlwaysDrawn(t *testing.T) {
	out := overlay.Resolve(overlay.Input{Ports: []catalog.Port{rotterdam}})

	ports := out.MarkersOf(overlay.MarkerPort)
	require.Len(t, ports, 1)
	assert.Equal(t, "Rotterdam", ports[0].Label)
	assert.Equal(t, "$610/t", ports[0].Detail)
	assert.Empty(t, out.Polylines)
}

func TestResolve_SelectionMarkers(t *testing.T) {
	origin := shared.Coordinate{Lat: 10, Lon: 10}

	out := overlay.Resolve(overlay.Input{Origin: &origin})

	assert.Len(t, out.MarkersOf(overlay.MarkerOrigin), 1)
	assert.Empty(t, out.MarkersOf(overlay.MarkerDestination))
}

func TestResolve_RefuelStopResolvedByName(t *testing.T) {
	refuel := &planning.RefuelResult{FuelPlan: []planning.RefuelStop{{Node: "Rotterdam", AddedAmount: 50, Cost: 200}}}

	out := overlay.Resolve(overlay.Input{Ports: []catalog.Port{rotterdam}, Refuel: refuel})

	stops := out.MarkersOf(overlay.MarkerFuelStop)
	require.Len(t, stops, 1)
	assert.Equal(t, shared.Coordinate{Lat: 51.9, Lon: 4.5}, stops[0].Position)
	assert.Equal(t, "+50", stops[0].Detail)
}

func TestResolve_UnknownRefuelNodeOmitted(t *testing.T) {
	refuel := &planning.RefuelResult{FuelPlan: []planning.RefuelStop{
		{Node: "Node-X", AddedAmount: 10},
		{Node: "Rotterdam", AddedAmount: 5},
	}}

	out := overlay.Resolve(overlay.Input{Ports: []catalog.Port{rotterdam}, Refuel: refuel})

	stops := out.MarkersOf(overlay.MarkerFuelStop)
	require.Len(t, stops, 1)
	assert.Equal(t, "Rotterdam", stops[0].Label)
}

func TestResolve_InfeasibleRefuelDrawsNoStops(t *testing.T) {
	refuel := &planning.RefuelResult{
		Error:    "No feasible route found with given capacity/step/reserve.",
		FuelPlan: []planning.RefuelStop{{Node: "Rotterdam"}},
	}

	out := overlay.Resolve(overlay.Input{Ports: []catalog.Port{rotterdam}, Refuel: refuel})

	assert.Empty(t, out.MarkersOf(overlay.MarkerFuelStop))
}

func TestResolve_OneLinePerLeg(t *testing.T) {
	plan := &planning.PlanResult{LegDetails: []planning.LegDetail{
		{FromCoord: shared.Coordinate{Lat: 10, Lon: 10}, ToCoord: shared.Coordinate{Lat: 15, Lon: 12}},
		{FromCoord: shared.Coordinate{Lat: 15, Lon: 12}, ToCoord: shared.Coordinate{Lat: 20, Lon: 20}},
	}}

	out := overlay.Resolve(overlay.Input{Plan: plan})

	require.Len(t, out.Polylines, 2)
	assert.Equal(t, []shared.Coordinate{{Lat: 15, Lon: 12}, {Lat: 20, Lon: 20}}, out.Polylines[1].Points)
	assert.Equal(t, 1, out.Polylines[1].LegIndex)
}

func TestDefaultViewport(t *testing.T) {
	vp := overlay.DefaultViewport()

	assert.Equal(t, shared.Coordinate{Lat: 20, Lon: 0}, vp.Center)
	assert.Equal(t, 3, vp.Zoom)
}
