package planner

import (
	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/planning"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/shared"
)

// Event is anything the Loop reacts to
type Event interface {
	isEvent()
}

// User events

// MapClicked is a bare click on the map
type MapClicked struct{ Coord shared.Coordinate }

// PortChosenAsOrigin is the "use as origin" action on a port marker
type PortChosenAsOrigin struct{ Name string }

// PortChosenAsDestination is the "use as destination" action on a port marker
type PortChosenAsDestination struct{ Name string }

// CoordChosenAsOrigin and CoordChosenAsDestination set an endpoint to a typed-in coordinate
type CoordChosenAsOrigin struct{ Coord shared.Coordinate }
type CoordChosenAsDestination struct{ Coord shared.Coordinate }

type PicksCleared struct{}
type ModeSelected struct{ Mode catalog.TransportMode }
type CarrierSelected struct{ CarrierID string }
type CargoTypeSelected struct{ CargoType catalog.CargoType }
type PlanRequested struct{}
type RefuelRequested struct{}
type CatalogRequested struct{}

// Completions posted by workers

type catalogLoaded struct {
	catalog  *catalog.Catalog
	warnings []string
}

type planCompleted struct {
	requestID string
	result    *planning.PlanResult
	err       error
}

type refuelCompleted struct {
	requestID string
	result    *planning.RefuelResult
	err       error
}

func (MapClicked) isEvent()               {}
func (PortChosenAsOrigin) isEvent()       {}
func (PortChosenAsDestination) isEvent()  {}
func (CoordChosenAsOrigin) isEvent()      {}
func (CoordChosenAsDestination) isEvent() {}
func (PicksCleared) isEvent()             {}
func (ModeSelected) isEvent()             {}
func (CarrierSelected) isEvent()          {}
func (CargoTypeSelected) isEvent()        {}
func (PlanRequested) isEvent()            {}
func (RefuelRequested) isEvent()          {}
func (CatalogRequested) isEvent()         {}
func (catalogLoaded) isEvent()            {}
func (planCompleted) isEvent()            {}
func (refuelCompleted) isEvent()          {}
