package planner

import (
	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/overlay"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/planning"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/selection"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/shared"
)

// Snapshot is a read-only view of a session after one handled event.
// Result and catalog values are shared with the session and must not be modified.
type Snapshot struct {
	Seq           uint64
	State         selection.State
	Origin        *shared.Coordinate
	Destination   *shared.Coordinate
	Mode          catalog.TransportMode
	CargoType     catalog.CargoType
	CarrierID     string
	Carriers      []catalog.Carrier
	Ports         []catalog.Port
	Plan          *planning.PlanResult
	Refuel        *planning.RefuelResult
	Busy          bool
	Notice        *Notice
	LastRequestID string
	Viewport      overlay.Viewport
	Overlay       overlay.Overlay
}

// CarrierLabel renders the carrier selector value
func (s Snapshot) CarrierLabel() string {
	if s.CarrierID == "" {
		return "(auto)"
	}
	return s.CarrierID
}
