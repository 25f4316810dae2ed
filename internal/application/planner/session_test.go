package planner_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/cargoplanner-go/internal/application/planner"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/overlay"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/planning"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/selection"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/shared"
)

var (
	origin = shared.Coordinate{Lat: 10, Lon: 10}
	dest   = shared.Coordinate{Lat: 20, Lon: 20}
)

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Ports: []catalog.Port{
			{ID: 1, Name: "Rotterdam", Lat: 51.9, Lon: 4.5, BunkerPrice: 610},
			{ID: 2, Name: "Singapore", Lat: 1.26, Lon: 103.84, BunkerPrice: 560},
		},
		Carriers: []catalog.Carrier{
			{ID: "feeder_1000", Type: catalog.ModeOcean},
			{ID: "b747f", Type: catalog.ModeAir},
		},
	}
}

func completeSession(t *testing.T) *planner.Session {
	t.Helper()
	s := planner.NewSession(planner.SessionDefaults{})
	s.SetCatalog(testCatalog())
	s.Pick(origin)
	s.Pick(dest)
	require.Equal(t, selection.StateComplete, s.SelectionState())
	return s
}

func TestNewSession_Defaults(t *testing.T) {
	s := planner.NewSession(planner.SessionDefaults{})

	assert.Equal(t, catalog.ModeOcean, s.Mode())
	assert.Equal(t, catalog.CargoGeneral, s.CargoType())
	assert.Equal(t, "", s.CarrierID())
	assert.False(t, s.Busy())
	assert.Equal(t, overlay.DefaultViewport(), s.Viewport())
}

func TestSession_SetCatalogCentersOnFirstPort(t *testing.T) {
	s := planner.NewSession(planner.SessionDefaults{})

	s.SetCatalog(testCatalog())

	assert.Equal(t, shared.Coordinate{Lat: 51.9, Lon: 4.5}, s.Viewport().Center)
}

func TestSession_SetCatalogEmptyKeepsDefaultViewport(t *testing.T) {
	s := planner.NewSession(planner.SessionDefaults{})

	s.SetCatalog(&catalog.Catalog{})

	assert.Equal(t, overlay.DefaultViewport(), s.Viewport())
}

func TestSession_BeginPlanRequiresCompleteSelection(t *testing.T) {
	// Arrange
	s := planner.NewSession(planner.SessionDefaults{})
	s.Pick(origin)

	// Act
	cmd, err := s.BeginPlan()

	// Assert
	assert.Nil(t, cmd)
	var incomplete *shared.SelectionIncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.False(t, s.Busy())
	require.NotNil(t, s.Notice())
	assert.Equal(t, planner.MsgPlanSelectionIncomplete, s.Notice().Message)
}

func TestSession_BeginPlanBuildsCommandAndSetsBusy(t *testing.T) {
	// Arrange
	s := completeSession(t)

	// Act
	cmd, err := s.BeginPlan()

	// Assert
	require.NoError(t, err)
	assert.True(t, s.Busy())
	assert.Equal(t, origin, cmd.Origin)
	assert.Equal(t, dest, cmd.Destination)
	assert.Equal(t, catalog.ModeOcean, cmd.Mode)
	assert.Equal(t, "", cmd.CarrierID)
	assert.Contains(t, cmd.RequestID, "plan-ocean-")
}

func TestSession_BusyRejectsBothTriggers(t *testing.T) {
	// Arrange
	s := completeSession(t)
	require.NoError(t, s.SelectCarrier("feeder_1000"))
	_, err := s.BeginPlan()
	require.NoError(t, err)

	// Act
	_, planErr := s.BeginPlan()
	_, refuelErr := s.BeginRefuel()

	// Assert
	var busy *shared.BusyError
	assert.True(t, errors.As(planErr, &busy))
	assert.True(t, errors.As(refuelErr, &busy))
	assert.True(t, s.Busy())
}

func TestSession_BeginRefuelRequiresCarrier(t *testing.T) {
	// Arrange
	s := completeSession(t)

	// Act
	cmd, err := s.BeginRefuel()

	// Assert
	assert.Nil(t, cmd)
	var carrierErr *shared.CarrierRequiredError
	require.True(t, errors.As(err, &carrierErr))
	assert.False(t, s.Busy())
	assert.Equal(t, planner.MsgCarrierRequired, s.Notice().Message)
}

func TestSession_BeginRefuelRequiresCompleteSelection(t *testing.T) {
	s := planner.NewSession(planner.SessionDefaults{CarrierID: "feeder_1000"})

	_, err := s.BeginRefuel()

	var incomplete *shared.SelectionIncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, planner.MsgRefuelSelectionIncomplete, s.Notice().Message)
}

func TestSession_CompletePlanClearsRefuelAndRecenters(t *testing.T) {
	// Arrange
	s := completeSession(t)
	require.NoError(t, s.SelectCarrier("feeder_1000"))
	refuelCmd, err := s.BeginRefuel()
	require.NoError(t, err)
	s.CompleteRefuel(refuelCmd.RequestID, &planning.RefuelResult{TotalCost: 10}, nil)
	require.NotNil(t, s.RefuelResult())

	planCmd, err := s.BeginPlan()
	require.NoError(t, err)

	// Act
	s.CompletePlan(planCmd.RequestID, &planning.PlanResult{RouteID: "r-1"}, nil)

	// Assert
	assert.False(t, s.Busy())
	assert.NotNil(t, s.PlanResult())
	assert.Nil(t, s.RefuelResult())
	assert.Equal(t, origin, s.Viewport().Center)
}

func TestSession_CompleteRefuelClearsPlan(t *testing.T) {
	// Arrange
	s := completeSession(t)
	planCmd, _ := s.BeginPlan()
	s.CompletePlan(planCmd.RequestID, &planning.PlanResult{RouteID: "r-1"}, nil)
	require.NoError(t, s.SelectCarrier("feeder_1000"))
	refuelCmd, _ := s.BeginRefuel()

	// Act
	s.CompleteRefuel(refuelCmd.RequestID, &planning.RefuelResult{TotalCost: 5}, nil)

	// Assert
	assert.Nil(t, s.PlanResult())
	assert.NotNil(t, s.RefuelResult())
	assert.Nil(t, s.Notice())
}

func TestSession_TransportFailureKeepsPriorResult(t *testing.T) {
	// Arrange
	s := completeSession(t)
	prior := &planning.PlanResult{RouteID: "prior"}
	cmd, _ := s.BeginPlan()
	s.CompletePlan(cmd.RequestID, prior, nil)
	cmd, _ = s.BeginPlan()

	// Act
	s.CompletePlan(cmd.RequestID, nil, errors.New("connection refused"))

	// Assert
	assert.False(t, s.Busy())
	assert.Same(t, prior, s.PlanResult())
	require.NotNil(t, s.Notice())
	assert.Equal(t, planner.NoticeError, s.Notice().Level)
	assert.Equal(t, planner.MsgTransportFailure, s.Notice().Message)
}

func TestSession_InfeasibleRefuelIsStoredAsWarning(t *testing.T) {
	// Arrange
	s := completeSession(t)
	planCmd, _ := s.BeginPlan()
	s.CompletePlan(planCmd.RequestID, &planning.PlanResult{}, nil)
	require.NoError(t, s.SelectCarrier("feeder_1000"))
	cmd, _ := s.BeginRefuel()
	infeasible := &planning.RefuelResult{Error: "No feasible route found with given capacity/step/reserve."}

	// Act
	s.CompleteRefuel(cmd.RequestID, infeasible, nil)

	// Assert
	assert.Same(t, infeasible, s.RefuelResult())
	assert.Nil(t, s.PlanResult())
	require.NotNil(t, s.Notice())
	assert.Equal(t, planner.NoticeWarning, s.Notice().Level)
	assert.Equal(t, infeasible.Error, s.Notice().Message)
}

func TestSession_ClearPicksDropsResults(t *testing.T) {
	// Arrange
	s := completeSession(t)
	cmd, _ := s.BeginPlan()
	s.CompletePlan(cmd.RequestID, &planning.PlanResult{}, nil)

	// Act
	state := s.ClearPicks()

	// Assert
	assert.Equal(t, selection.StateEmpty, state)
	assert.Nil(t, s.PlanResult())
	assert.Nil(t, s.RefuelResult())
}

func TestSession_StaleResponseStillLands(t *testing.T) {
	// Arrange
	s := completeSession(t)
	cmd, _ := s.BeginPlan()
	s.ClearPicks()
	s.Pick(shared.Coordinate{Lat: 1, Lon: 1})

	// Act
	s.CompletePlan(cmd.RequestID, &planning.PlanResult{RouteID: "stale"}, nil)

	// Assert
	require.NotNil(t, s.PlanResult())
	assert.Equal(t, "stale", s.PlanResult().RouteID)
	assert.False(t, s.Busy())
}

func TestSession_UsePortActions(t *testing.T) {
	// Arrange
	s := planner.NewSession(planner.SessionDefaults{})
	s.SetCatalog(testCatalog())

	// Act - destination before origin is rejected
	_, err := s.UsePortAsDestination("Singapore")

	// Assert
	require.Error(t, err)
	assert.Equal(t, selection.StateEmpty, s.SelectionState())

	// Act
	_, err = s.UsePortAsOrigin("Rotterdam")
	require.NoError(t, err)
	state, err := s.UsePortAsDestination("Singapore")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, selection.StateComplete, state)
	snap := s.Snapshot()
	assert.Equal(t, shared.Coordinate{Lat: 51.9, Lon: 4.5}, *snap.Origin)
	assert.Equal(t, shared.Coordinate{Lat: 1.26, Lon: 103.84}, *snap.Destination)
}

func TestSession_UnknownPortIsValidationError(t *testing.T) {
	s := planner.NewSession(planner.SessionDefaults{})
	s.SetCatalog(testCatalog())

	_, err := s.UsePortAsOrigin("Atlantis")

	var validation *shared.ValidationError
	assert.True(t, errors.As(err, &validation))
	assert.Equal(t, selection.StateEmpty, s.SelectionState())
}

func TestSession_SelectCarrierMustMatchMode(t *testing.T) {
	s := planner.NewSession(planner.SessionDefaults{})
	s.SetCatalog(testCatalog())

	err := s.SelectCarrier("b747f")

	assert.Error(t, err)
	assert.Equal(t, "", s.CarrierID())
}

func TestSession_SelectModeDropsForeignCarrier(t *testing.T) {
	// Arrange
	s := planner.NewSession(planner.SessionDefaults{})
	s.SetCatalog(testCatalog())
	require.NoError(t, s.SelectCarrier("feeder_1000"))

	// Act
	s.SelectMode(catalog.ModeAir)

	// Assert
	assert.Equal(t, "", s.CarrierID())
	snap := s.Snapshot()
	require.Len(t, snap.Carriers, 1)
	assert.Equal(t, "b747f", snap.Carriers[0].ID)
}

func TestSession_SetCatalogDropsDefaultCarrierOfAnotherMode(t *testing.T) {
	// Arrange
	s := planner.NewSession(planner.SessionDefaults{Mode: catalog.ModeOcean, CarrierID: "b747f"})

	// Act
	s.SetCatalog(testCatalog())
	s.Pick(origin)
	s.Pick(dest)
	cmd, err := s.BeginRefuel()

	// Assert
	assert.Equal(t, "", s.CarrierID())
	assert.Nil(t, cmd)
	var carrierErr *shared.CarrierRequiredError
	assert.True(t, errors.As(err, &carrierErr))
}

func TestSession_SetCatalogKeepsDefaultCarrierOfSameMode(t *testing.T) {
	s := planner.NewSession(planner.SessionDefaults{Mode: catalog.ModeAir, CarrierID: "b747f"})

	s.SetCatalog(testCatalog())

	assert.Equal(t, "b747f", s.CarrierID())
}

func TestSession_SnapshotOverlay(t *testing.T) {
	// Arrange
	s := completeSession(t)
	cmd, _ := s.BeginPlan()
	s.CompletePlan(cmd.RequestID, &planning.PlanResult{LegDetails: []planning.LegDetail{
		{FromCoord: origin, ToCoord: dest},
	}}, nil)

	// Act
	snap := s.Snapshot()

	// Assert
	assert.Len(t, snap.Overlay.MarkersOf(overlay.MarkerPort), 2)
	assert.Len(t, snap.Overlay.MarkersOf(overlay.MarkerOrigin), 1)
	assert.Len(t, snap.Overlay.MarkersOf(overlay.MarkerDestination), 1)
	require.Len(t, snap.Overlay.Polylines, 1)
	assert.Equal(t, []shared.Coordinate{origin, dest}, snap.Overlay.Polylines[0].Points)
	assert.Equal(t, "(auto)", snap.CarrierLabel())
}
