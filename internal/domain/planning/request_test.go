package planning_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/planning"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/shared"
)

func TestNewPlanRequest_AutoCarrierOmitsField(t *testing.T) {
	req := planning.NewPlanRequest(
		shared.Coordinate{Lat: 10, Lon: 10},
		shared.Coordinate{Lat: 20, Lon: 20},
		catalog.ModeOcean,
		catalog.CargoGeneral,
		"",
	)

	data, err := json.Marshal(req)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"transport_medium": "ocean",
		"cargo_type": "general",
		"cargo_quantity": 100,
		"unit": "tons",
		"origin": {"lat": 10, "lon": 10},
		"destinations": [{"coord": {"lat": 20, "lon": 20}, "mode": "ocean"}],
		"preferences": "cheapest"
	}`, string(data))
}

func TestNewPlanRequest_CarrierOverride(t *testing.T) {
	req := planning.NewPlanRequest(shared.Coordinate{}, shared.Coordinate{Lat: 1}, catalog.ModeAir, catalog.CargoPerishable, "b777f")

	require.NotNil(t, req.CarrierModel)
	assert.Equal(t, "b777f", *req.CarrierModel)
	assert.Equal(t, catalog.ModeAir, req.Destinations[0].Mode)
}

func TestNewRefuelRequest_StepSizeByMode(t *testing.T) {
	origin := shared.Coordinate{Lat: 10, Lon: 10}
	dest := shared.Coordinate{Lat: 20, Lon: 20}

	ocean := planning.NewRefuelRequest(origin, dest, catalog.ModeOcean, "bulkcarrier-75000DWT")
	assert.Equal(t, 1.0, ocean.StepSize)
	assert.Equal(t, 0.1, ocean.Reserve)

	for _, mode := range []catalog.TransportMode{catalog.ModeAir, catalog.ModeRoad, catalog.ModeRail} {
		req := planning.NewRefuelRequest(origin, dest, mode, "x")
		assert.Equal(t, 50.0, req.StepSize, "mode %s", mode)
	}
}

func TestRefuelResult_Infeasible(t *testing.T) {
	var result planning.RefuelResult
	require.NoError(t, json.Unmarshal([]byte(`{"error":"No feasible route found with given capacity/step/reserve."}`), &result))

	assert.True(t, result.Infeasible())
	assert.False(t, (&planning.RefuelResult{TotalCost: 10}).Infeasible())
	assert.False(t, (*planning.RefuelResult)(nil).Infeasible())
}
