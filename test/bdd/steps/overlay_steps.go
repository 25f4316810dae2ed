package steps

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/overlay"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/planning"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/shared"
	"github.com/cucumber/godog"
)

type overlayContext struct {
	input  overlay.Input
	result overlay.Overlay
}

func (oc *overlayContext) reset() {
	oc.input = overlay.Input{}
	oc.result = overlay.Overlay{}
}

// Given steps

func (oc *overlayContext) theCatalogPorts(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		oc.input.Ports = append(oc.input.Ports, catalog.Port{
			ID:          i,
			Name:        getCellValue(table, row, "name"),
			Lat:         parseFloat(getCellValue(table, row, "lat")),
			Lon:         parseFloat(getCellValue(table, row, "lon")),
			BunkerPrice: parseFloat(getCellValue(table, row, "bunker_price")),
		})
	}
	return nil
}

func (oc *overlayContext) theOriginIsAt(coord string) error {
	c, err := parseCoord(coord)
	if err != nil {
		return err
	}
	oc.input.Origin = &c
	return nil
}

func (oc *overlayContext) theDestinationIsAt(coord string) error {
	c, err := parseCoord(coord)
	if err != nil {
		return err
	}
	oc.input.Destination = &c
	return nil
}

func (oc *overlayContext) aPlanWithLegs(table *godog.Table) error {
	plan := &planning.PlanResult{RouteID: "route-1"}
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		from, err := parseCoord(getCellValue(table, row, "from"))
		if err != nil {
			return err
		}
		to, err := parseCoord(getCellValue(table, row, "to"))
		if err != nil {
			return err
		}
		plan.LegDetails = append(plan.LegDetails, planning.LegDetail{FromCoord: from, ToCoord: to})
	}
	oc.input.Plan = plan
	return nil
}

func (oc *overlayContext) aRefuelResultWithFuelStops(table *godog.Table) error {
	result := &planning.RefuelResult{}
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		result.FuelPlan = append(result.FuelPlan, planning.RefuelStop{
			Node:        getCellValue(table, row, "node"),
			AddedAmount: parseFloat(getCellValue(table, row, "added")),
		})
	}
	oc.input.Refuel = result
	return nil
}

func (oc *overlayContext) theRefuelResultIsInfeasible(message string) error {
	if oc.input.Refuel == nil {
		oc.input.Refuel = &planning.RefuelResult{}
	}
	oc.input.Refuel.Error = message
	return nil
}

// When steps

func (oc *overlayContext) iResolveTheOverlay() error {
	oc.result = overlay.Resolve(oc.input)
	return nil
}

// Then steps

func (oc *overlayContext) theOverlayShouldHaveMarkers(count int, kind string) error {
	got := len(oc.result.MarkersOf(overlay.MarkerKind(kind)))
	if got != count {
		return fmt.Errorf("expected %d %s markers, got %d", count, kind, got)
	}
	return nil
}

func (oc *overlayContext) theOverlayShouldHavePolylines(count int) error {
	if len(oc.result.Polylines) != count {
		return fmt.Errorf("expected %d polylines, got %d", count, len(oc.result.Polylines))
	}
	return nil
}

func (oc *overlayContext) theMarkerLabelledShouldBeAt(kind, label, coord string) error {
	expected, err := parseCoord(coord)
	if err != nil {
		return err
	}
	for _, m := range oc.result.MarkersOf(overlay.MarkerKind(kind)) {
		if m.Label == label {
			if m.Position != expected {
				return fmt.Errorf("expected %s marker %q at %s, got %s", kind, label, expected, m.Position)
			}
			return nil
		}
	}
	return fmt.Errorf("no %s marker labelled %q", kind, label)
}

func (oc *overlayContext) polylineShouldRunFromTo(index int, from, to string) error {
	if index >= len(oc.result.Polylines) {
		return fmt.Errorf("polyline %d does not exist (%d polylines)", index, len(oc.result.Polylines))
	}
	start, err := parseCoord(from)
	if err != nil {
		return err
	}
	end, err := parseCoord(to)
	if err != nil {
		return err
	}
	line := oc.result.Polylines[index]
	expected := []shared.Coordinate{start, end}
	if len(line.Points) != 2 || line.Points[0] != expected[0] || line.Points[1] != expected[1] {
		return fmt.Errorf("expected polyline %d from %s to %s, got %v", index, start, end, line.Points)
	}
	if line.LegIndex != index {
		return fmt.Errorf("expected leg index %d, got %d", index, line.LegIndex)
	}
	return nil
}

func InitializeOverlayScenario(ctx *godog.ScenarioContext) {
	oc := &overlayContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		oc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the catalog ports:$`, oc.theCatalogPorts)
	ctx.Step(`^the origin is at "([^"]*)"$`, oc.theOriginIsAt)
	ctx.Step(`^the destination is at "([^"]*)"$`, oc.theDestinationIsAt)
	ctx.Step(`^a plan with legs:$`, oc.aPlanWithLegs)
	ctx.Step(`^a refuel result with fuel stops:$`, oc.aRefuelResultWithFuelStops)
	ctx.Step(`^the refuel result is infeasible with "([^"]*)"$`, oc.theRefuelResultIsInfeasible)

	// When steps
	ctx.Step(`^I resolve the overlay$`, oc.iResolveTheOverlay)

	// Then steps
	ctx.Step(`^the overlay should have (\d+) "([^"]*)" markers?$`, oc.theOverlayShouldHaveMarkers)
	ctx.Step(`^the overlay should have (\d+) polylines?$`, oc.theOverlayShouldHavePolylines)
	ctx.Step(`^the "([^"]*)" marker labelled "([^"]*)" should be at "([^"]*)"$`, oc.theMarkerLabelledShouldBeAt)
	ctx.Step(`^polyline (\d+) should run from "([^"]*)" to "([^"]*)"$`, oc.polylineShouldRunFromTo)
}
