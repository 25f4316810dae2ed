package planning

import (
	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/shared"
)

const (
	// DefaultCargoQuantity is sent with every multi-leg plan; quantity is not a user input
	DefaultCargoQuantity = 100.0
	DefaultCargoUnit     = "tons"
	PreferenceCheapest   = "cheapest"

	// DefaultFuelReserve is the fraction of capacity the optimizer must never plan away
	DefaultFuelReserve = 0.1

	oceanStepSize   = 1.0
	defaultStepSize = 50.0
)

// DestinationSpec is one entry of the destinations list
type DestinationSpec struct {
	Coord shared.Coordinate     `json:"coord"`
	Mode  catalog.TransportMode `json:"mode" validate:"required,oneof=ocean air road rail"`
}

// PlanRequest is the POST /plan body. Built fresh per call, never persisted.
type PlanRequest struct {
	TransportMedium catalog.TransportMode `json:"transport_medium" validate:"required,oneof=ocean air road rail"`
	CargoType       catalog.CargoType     `json:"cargo_type" validate:"required"`
	CargoQuantity   float64               `json:"cargo_quantity" validate:"gt=0"`
	Unit            string                `json:"unit" validate:"required"`
	CarrierModel    *string               `json:"carrier_model,omitempty"`
	Origin          shared.Coordinate     `json:"origin"`
	Destinations    []DestinationSpec     `json:"destinations" validate:"min=1,dive"`
	Preferences     string                `json:"preferences"`
}

// NewPlanRequest builds a single-destination plan request. An empty carrierID
// leaves carrier_model absent so the service picks one.
func NewPlanRequest(
	origin, destination shared.Coordinate,
	mode catalog.TransportMode,
	cargo catalog.CargoType,
	carrierID string,
) *PlanRequest {
	var carrier *string
	if carrierID != "" {
		id := carrierID
		carrier = &id
	}

	return &PlanRequest{
		TransportMedium: mode,
		CargoType:       cargo,
		CargoQuantity:   DefaultCargoQuantity,
		Unit:            DefaultCargoUnit,
		CarrierModel:    carrier,
		Origin:          origin,
		Destinations:    []DestinationSpec{{Coord: destination, Mode: mode}},
		Preferences:     PreferenceCheapest,
	}
}

// RefuelRequest is the POST /refuel-plan body
type RefuelRequest struct {
	Mode         catalog.TransportMode `json:"mode" validate:"required,oneof=ocean air road rail"`
	CarrierModel string                `json:"carrier_model" validate:"required"`
	Origin       shared.Coordinate     `json:"origin"`
	Destination  shared.Coordinate     `json:"destination"`
	StepSize     float64               `json:"step_size" validate:"gt=0"`
	Reserve      float64               `json:"reserve" validate:"gte=0,lt=1"`
}

// NewRefuelRequest builds a single-leg fuel optimization request
func NewRefuelRequest(
	origin, destination shared.Coordinate,
	mode catalog.TransportMode,
	carrierID string,
) *RefuelRequest {
	return &RefuelRequest{
		Mode:         mode,
		CarrierModel: carrierID,
		Origin:       origin,
		Destination:  destination,
		StepSize:     StepSizeFor(mode),
		Reserve:      DefaultFuelReserve,
	}
}

// StepSizeFor returns the optimizer's fuel discretization step. Ocean legs are
// planned in tons, everything else in liters, hence the different granularity.
func StepSizeFor(mode catalog.TransportMode) float64 {
	if mode == catalog.ModeOcean {
		return oceanStepSize
	}
	return defaultStepSize
}
