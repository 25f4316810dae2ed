package planner_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/cargoplanner-go/internal/application/planner"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/planning"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/ports"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/shared"
	"github.com/andrescamacho/cargoplanner-go/test/helpers"
)

func TestComputePlanHandler_BuildsRequestWithoutCarrier(t *testing.T) {
	// Arrange
	service := helpers.NewMockPlanningService()
	service.SetPlanResult(&planning.PlanResult{
		RouteID:    "r-1",
		LegDetails: []planning.LegDetail{{FromCoord: origin, ToCoord: dest}},
	})
	handler := planner.NewComputePlanHandler(service, nil, nil)

	// Act
	resp, err := handler.Handle(context.Background(), &planner.ComputePlanCommand{
		RequestID:   "plan-ocean-1",
		Origin:      origin,
		Destination: dest,
		Mode:        catalog.ModeOcean,
		CargoType:   catalog.CargoGeneral,
	})

	// Assert
	require.NoError(t, err)
	planResp := resp.(*planner.ComputePlanResponse)
	assert.Equal(t, "r-1", planResp.Result.RouteID)

	sent := service.LastPlanRequest()
	require.NotNil(t, sent)
	assert.Nil(t, sent.CarrierModel)
	require.Len(t, sent.Destinations, 1)
	assert.Equal(t, dest, sent.Destinations[0].Coord)
	assert.Equal(t, catalog.ModeOcean, sent.Destinations[0].Mode)

	body, err := json.Marshal(sent)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "carrier_model")
	assert.Contains(t, string(body), `"destinations":[{"coord":{"lat":20,"lon":20},"mode":"ocean"}]`)
}

func TestComputePlanHandler_RejectsOutOfRangeCoordinate(t *testing.T) {
	// Arrange
	service := helpers.NewMockPlanningService()
	handler := planner.NewComputePlanHandler(service, nil, nil)

	// Act
	_, err := handler.Handle(context.Background(), &planner.ComputePlanCommand{
		Origin:      shared.Coordinate{Lat: 95, Lon: 0},
		Destination: dest,
		Mode:        catalog.ModeOcean,
		CargoType:   catalog.CargoGeneral,
	})

	// Assert
	var validation *shared.ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Contains(t, validation.Field, "Lat")
	assert.Equal(t, 0, service.PlanCalls())
}

func TestComputePlanHandler_PropagatesServiceError(t *testing.T) {
	service := helpers.NewMockPlanningService()
	service.SetPlanError(errors.New("boom"))
	handler := planner.NewComputePlanHandler(service, nil, nil)

	_, err := handler.Handle(context.Background(), &planner.ComputePlanCommand{
		Origin: origin, Destination: dest, Mode: catalog.ModeAir, CargoType: catalog.CargoBulk,
	})

	assert.EqualError(t, err, "boom")
}

func TestComputePlanHandler_RecordsHistory(t *testing.T) {
	// Arrange
	service := helpers.NewMockPlanningService()
	service.SetPlanResult(&planning.PlanResult{RouteID: "r-9", TotalCostUSD: 4200})
	history := helpers.NewMockPlanHistory()
	clock := shared.NewMockClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	handler := planner.NewComputePlanHandler(service, history, clock)

	// Act
	_, err := handler.Handle(context.Background(), &planner.ComputePlanCommand{
		RequestID: "plan-rail-abc", Origin: origin, Destination: dest,
		Mode: catalog.ModeRail, CargoType: catalog.CargoGeneral, CarrierID: "freight_a",
	})

	// Assert
	require.NoError(t, err)
	records := history.Records()
	require.Len(t, records, 1)
	rec := records[0]
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "plan-rail-abc", rec.RequestID)
	assert.Equal(t, ports.PlanKindMultiLeg, rec.Kind)
	assert.Equal(t, catalog.ModeRail, rec.Mode)
	assert.Equal(t, "freight_a", rec.CarrierID)
	assert.Equal(t, 4200.0, rec.TotalCost)
	assert.Equal(t, clock.Now(), rec.RecordedAt)
	assert.Contains(t, string(rec.Payload), `"route_id":"r-9"`)
}

func TestComputePlanHandler_HistoryFailureDoesNotFailCall(t *testing.T) {
	service := helpers.NewMockPlanningService()
	history := helpers.NewMockPlanHistory()
	history.SetRecordError(errors.New("disk full"))
	handler := planner.NewComputePlanHandler(service, history, nil)

	_, err := handler.Handle(context.Background(), &planner.ComputePlanCommand{
		Origin: origin, Destination: dest, Mode: catalog.ModeOcean, CargoType: catalog.CargoGeneral,
	})

	assert.NoError(t, err)
}

func TestComputeRefuelHandler_StepSizePerMode(t *testing.T) {
	tests := []struct {
		mode catalog.TransportMode
		step float64
	}{
		{catalog.ModeOcean, 1.0},
		{catalog.ModeAir, 50.0},
		{catalog.ModeRoad, 50.0},
		{catalog.ModeRail, 50.0},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			service := helpers.NewMockPlanningService()
			handler := planner.NewComputeRefuelHandler(service, nil, nil)

			_, err := handler.Handle(context.Background(), &planner.ComputeRefuelCommand{
				Origin: origin, Destination: dest, Mode: tt.mode, CarrierID: "c1",
			})

			require.NoError(t, err)
			sent := service.LastRefuelRequest()
			assert.Equal(t, tt.step, sent.StepSize)
			assert.Equal(t, 0.1, sent.Reserve)
			assert.Equal(t, "c1", sent.CarrierModel)
		})
	}
}

func TestComputeRefuelHandler_RequiresCarrier(t *testing.T) {
	service := helpers.NewMockPlanningService()
	handler := planner.NewComputeRefuelHandler(service, nil, nil)

	_, err := handler.Handle(context.Background(), &planner.ComputeRefuelCommand{
		Origin: origin, Destination: dest, Mode: catalog.ModeOcean,
	})

	var carrierErr *shared.CarrierRequiredError
	assert.True(t, errors.As(err, &carrierErr))
	assert.Equal(t, 0, service.RefuelCalls())
}

func TestComputeRefuelHandler_InfeasibleIsRecorded(t *testing.T) {
	// Arrange
	service := helpers.NewMockPlanningService()
	service.SetRefuelResult(&planning.RefuelResult{Error: "No feasible route found with given capacity/step/reserve."})
	history := helpers.NewMockPlanHistory()
	handler := planner.NewComputeRefuelHandler(service, history, nil)

	// Act
	resp, err := handler.Handle(context.Background(), &planner.ComputeRefuelCommand{
		Origin: origin, Destination: dest, Mode: catalog.ModeOcean, CarrierID: "feeder_1000",
	})

	// Assert
	require.NoError(t, err)
	assert.True(t, resp.(*planner.ComputeRefuelResponse).Result.Infeasible())
	records := history.Records()
	require.Len(t, records, 1)
	assert.Equal(t, ports.PlanKindRefuel, records[0].Kind)
	assert.NotEmpty(t, records[0].Infeasible)
}

func TestHandlers_RejectWrongRequestType(t *testing.T) {
	service := helpers.NewMockPlanningService()

	_, err := planner.NewComputePlanHandler(service, nil, nil).Handle(context.Background(), &planner.ComputeRefuelCommand{})
	assert.Error(t, err)

	_, err = planner.NewComputeRefuelHandler(service, nil, nil).Handle(context.Background(), &planner.ComputePlanCommand{})
	assert.Error(t, err)

	_, err = planner.NewLoadCatalogHandler(service, nil).Handle(context.Background(), &planner.ListPlanHistoryQuery{})
	assert.Error(t, err)
}
