package planner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/cargoplanner-go/internal/application/common"
	"github.com/andrescamacho/cargoplanner-go/internal/application/planner"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/overlay"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/planning"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/selection"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/shared"
	"github.com/andrescamacho/cargoplanner-go/test/helpers"
)

func startLoop(t *testing.T, service *helpers.MockPlanningService) (*planner.Loop, context.Context) {
	t.Helper()
	m := common.NewMediator()
	require.NoError(t, planner.RegisterHandlers(m, planner.Dependencies{Service: service}))

	loop := planner.NewLoop(planner.NewSession(planner.SessionDefaults{}), m)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return loop, ctx
}

func do(t *testing.T, ctx context.Context, loop *planner.Loop, ev planner.Event) planner.Snapshot {
	t.Helper()
	snap, err := loop.Do(ctx, ev)
	require.NoError(t, err)
	return snap
}

func TestLoop_CatalogLoadCentersViewport(t *testing.T) {
	// Arrange
	service := helpers.NewMockPlanningService()
	service.SetPorts(testCatalog().Ports)
	service.SetCarriers(testCatalog().Carriers)
	loop, ctx := startLoop(t, service)

	// Act
	do(t, ctx, loop, planner.CatalogRequested{})
	snap, err := loop.Await(ctx, func(s planner.Snapshot) bool { return len(s.Ports) > 0 })

	// Assert
	require.NoError(t, err)
	assert.Equal(t, shared.Coordinate{Lat: 51.9, Lon: 4.5}, snap.Viewport.Center)
	assert.Len(t, snap.Overlay.MarkersOf(overlay.MarkerPort), 2)
}

func TestLoop_CatalogFailureLeavesSessionUsable(t *testing.T) {
	// Arrange
	service := helpers.NewMockPlanningService()
	service.SetCatalogError(errors.New("down"))
	loop, ctx := startLoop(t, service)

	// Act
	first := do(t, ctx, loop, planner.CatalogRequested{})
	_, err := loop.Await(ctx, func(s planner.Snapshot) bool { return s.Seq > first.Seq })
	require.NoError(t, err)
	snap := do(t, ctx, loop, planner.MapClicked{Coord: origin})

	// Assert
	assert.Empty(t, snap.Ports)
	assert.Equal(t, overlay.DefaultViewport(), snap.Viewport)
	assert.Equal(t, selection.StateOriginSet, snap.State)
}

func TestLoop_PlanEndToEnd(t *testing.T) {
	// Arrange
	service := helpers.NewMockPlanningService()
	service.SetPlanResult(&planning.PlanResult{
		LegDetails: []planning.LegDetail{{FromCoord: origin, ToCoord: dest}},
	})
	loop, ctx := startLoop(t, service)
	do(t, ctx, loop, planner.MapClicked{Coord: origin})
	do(t, ctx, loop, planner.MapClicked{Coord: dest})

	// Act
	started := do(t, ctx, loop, planner.PlanRequested{})
	snap, err := loop.AwaitIdle(ctx)

	// Assert
	require.NoError(t, err)
	assert.True(t, started.Busy)
	assert.False(t, snap.Busy)
	require.NotNil(t, snap.Plan)
	assert.Nil(t, snap.Refuel)
	require.Len(t, snap.Overlay.Polylines, 1)
	assert.Equal(t, []shared.Coordinate{origin, dest}, snap.Overlay.Polylines[0].Points)
	assert.Equal(t, origin, snap.Viewport.Center)
	assert.Nil(t, service.LastPlanRequest().CarrierModel)
}

func TestLoop_BusySuppressesSecondCall(t *testing.T) {
	// Arrange
	service := helpers.NewMockPlanningService()
	release := service.Hold()
	defer release()
	loop, ctx := startLoop(t, service)
	do(t, ctx, loop, planner.MapClicked{Coord: origin})
	do(t, ctx, loop, planner.MapClicked{Coord: dest})
	do(t, ctx, loop, planner.CarrierSelected{CarrierID: "feeder_1000"})
	do(t, ctx, loop, planner.PlanRequested{})
	<-service.Entered()

	// Act
	planAgain := do(t, ctx, loop, planner.PlanRequested{})
	refuel := do(t, ctx, loop, planner.RefuelRequested{})
	release()
	idle, err := loop.AwaitIdle(ctx)

	// Assert
	require.NoError(t, err)
	assert.True(t, planAgain.Busy)
	assert.True(t, refuel.Busy)
	require.NotNil(t, refuel.Notice)
	assert.Equal(t, planner.MsgBusy, refuel.Notice.Message)
	assert.Equal(t, 1, service.TotalPlanningCalls())
	assert.False(t, idle.Busy)
}

func TestLoop_ValidationShortCircuitIssuesNoCall(t *testing.T) {
	// Arrange
	service := helpers.NewMockPlanningService()
	loop, ctx := startLoop(t, service)
	do(t, ctx, loop, planner.MapClicked{Coord: origin})

	// Act
	planSnap := do(t, ctx, loop, planner.PlanRequested{})
	do(t, ctx, loop, planner.MapClicked{Coord: dest})
	refuelSnap := do(t, ctx, loop, planner.RefuelRequested{})

	// Assert
	assert.False(t, planSnap.Busy)
	assert.Equal(t, planner.MsgPlanSelectionIncomplete, planSnap.Notice.Message)
	assert.False(t, refuelSnap.Busy)
	assert.Equal(t, planner.MsgCarrierRequired, refuelSnap.Notice.Message)
	assert.Equal(t, 0, service.TotalPlanningCalls())
}

func TestLoop_TransportFailureSurfacesGenericNotice(t *testing.T) {
	// Arrange
	service := helpers.NewMockPlanningService()
	service.SetPlanError(errors.New("502 bad gateway"))
	loop, ctx := startLoop(t, service)
	do(t, ctx, loop, planner.MapClicked{Coord: origin})
	do(t, ctx, loop, planner.MapClicked{Coord: dest})

	// Act
	do(t, ctx, loop, planner.PlanRequested{})
	snap, err := loop.AwaitIdle(ctx)

	// Assert
	require.NoError(t, err)
	assert.Nil(t, snap.Plan)
	require.NotNil(t, snap.Notice)
	assert.Equal(t, planner.MsgTransportFailure, snap.Notice.Message)
}

func TestLoop_RefuelOverlayJoinsByPortName(t *testing.T) {
	// Arrange
	service := helpers.NewMockPlanningService()
	service.SetPorts(testCatalog().Ports)
	service.SetCarriers(testCatalog().Carriers)
	service.SetRefuelResult(&planning.RefuelResult{
		TotalCost: 200,
		FuelPlan: []planning.RefuelStop{
			{Node: "Rotterdam", AddedAmount: 50, Cost: 200},
			{Node: "Node-X", AddedAmount: 10, Cost: 40},
		},
	})
	loop, ctx := startLoop(t, service)
	do(t, ctx, loop, planner.CatalogRequested{})
	_, err := loop.Await(ctx, func(s planner.Snapshot) bool { return len(s.Ports) > 0 })
	require.NoError(t, err)
	do(t, ctx, loop, planner.PortChosenAsOrigin{Name: "Rotterdam"})
	do(t, ctx, loop, planner.PortChosenAsDestination{Name: "Singapore"})
	do(t, ctx, loop, planner.CarrierSelected{CarrierID: "feeder_1000"})

	// Act
	do(t, ctx, loop, planner.RefuelRequested{})
	snap, err := loop.AwaitIdle(ctx)

	// Assert
	require.NoError(t, err)
	stops := snap.Overlay.MarkersOf(overlay.MarkerFuelStop)
	require.Len(t, stops, 1)
	assert.Equal(t, shared.Coordinate{Lat: 51.9, Lon: 4.5}, stops[0].Position)
}

func TestLoop_ObserversReceiveEverySnapshot(t *testing.T) {
	// Arrange
	service := helpers.NewMockPlanningService()
	loop, ctx := startLoop(t, service)
	var seen []uint64
	unsubscribe := loop.Subscribe(func(s planner.Snapshot) { seen = append(seen, s.Seq) })

	// Act
	do(t, ctx, loop, planner.MapClicked{Coord: origin})
	do(t, ctx, loop, planner.PicksCleared{})
	unsubscribe()
	last := do(t, ctx, loop, planner.MapClicked{Coord: dest})

	// Assert
	assert.Equal(t, []uint64{1, 2}, seen)
	assert.Equal(t, uint64(3), last.Seq)
	assert.Equal(t, last.Seq, loop.Latest().Seq)
}

func TestLoop_StoppedLoopRejectsEvents(t *testing.T) {
	// Arrange
	m := common.NewMediator()
	loop := planner.NewLoop(planner.NewSession(planner.SessionDefaults{}), m)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(ctx)
	}()
	cancel()
	<-done

	// Act
	_, err := loop.Do(context.Background(), planner.PicksCleared{})

	// Assert
	assert.ErrorIs(t, err, planner.ErrLoopStopped)
}
