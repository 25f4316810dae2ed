package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/andrescamacho/cargoplanner-go/internal/application/common"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/planning"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/ports"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/shared"
)

// ComputePlanCommand asks the planning service for a multi-leg route
type ComputePlanCommand struct {
	RequestID   string
	Origin      shared.Coordinate
	Destination shared.Coordinate
	Mode        catalog.TransportMode
	CargoType   catalog.CargoType
	CarrierID   string // Optional: empty lets the service choose
}

// ComputePlanResponse carries the service result and the request that produced it
type ComputePlanResponse struct {
	RequestID string
	Request   *planning.PlanRequest
	Result    *planning.PlanResult
}

// ComputeRefuelCommand asks the planning service for a single-leg fuel plan
type ComputeRefuelCommand struct {
	RequestID   string
	Origin      shared.Coordinate
	Destination shared.Coordinate
	Mode        catalog.TransportMode
	CarrierID   string // Required
}

// ComputeRefuelResponse carries the service result. Result.Error may be set
// for an infeasible leg; that is not a handler error.
type ComputeRefuelResponse struct {
	RequestID string
	Request   *planning.RefuelRequest
	Result    *planning.RefuelResult
}

// Infeasible reports a successful call that found no feasible fuel plan
func (r *ComputeRefuelResponse) Infeasible() bool {
	return r != nil && r.Result.Infeasible()
}

// ComputePlanHandler builds and sends POST /plan requests
type ComputePlanHandler struct {
	service  ports.PlanningService
	history  ports.PlanHistory
	validate *validator.Validate
	clock    shared.Clock
}

// NewComputePlanHandler creates a handler. history may be nil.
func NewComputePlanHandler(service ports.PlanningService, history ports.PlanHistory, clock shared.Clock) *ComputePlanHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &ComputePlanHandler{
		service:  service,
		history:  history,
		validate: validator.New(),
		clock:    clock,
	}
}

// Handle executes the ComputePlan command
func (h *ComputePlanHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ComputePlanCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ComputePlanCommand")
	}

	req := planning.NewPlanRequest(cmd.Origin, cmd.Destination, cmd.Mode, cmd.CargoType, cmd.CarrierID)
	if err := validateRequest(h.validate, req); err != nil {
		return nil, err
	}

	logger := common.LoggerFromContext(ctx)
	logger.Log("INFO", "Requesting multi-leg plan", map[string]interface{}{
		"request_id":  cmd.RequestID,
		"mode":        string(cmd.Mode),
		"cargo_type":  string(cmd.CargoType),
		"carrier":     cmd.CarrierID,
		"origin":      cmd.Origin.String(),
		"destination": cmd.Destination.String(),
	})

	result, err := h.service.Plan(ctx, req)
	if err != nil {
		return nil, err
	}

	logger.Log("INFO", "Multi-leg plan received", map[string]interface{}{
		"request_id": cmd.RequestID,
		"route_id":   result.RouteID,
		"legs":       len(result.LegDetails),
		"total_cost": result.TotalCostUSD,
	})

	recordHistory(ctx, h.history, h.clock, &ports.PlanRecord{
		RequestID: cmd.RequestID,
		Kind:      ports.PlanKindMultiLeg,
		Mode:      cmd.Mode,
		CarrierID: cmd.CarrierID,
		OriginLat: cmd.Origin.Lat,
		OriginLon: cmd.Origin.Lon,
		DestLat:   cmd.Destination.Lat,
		DestLon:   cmd.Destination.Lon,
		TotalCost: result.TotalCostUSD,
	}, result)

	return &ComputePlanResponse{RequestID: cmd.RequestID, Request: req, Result: result}, nil
}

// ComputeRefuelHandler builds and sends POST /refuel-plan requests
type ComputeRefuelHandler struct {
	service  ports.PlanningService
	history  ports.PlanHistory
	validate *validator.Validate
	clock    shared.Clock
}

// NewComputeRefuelHandler creates a handler. history may be nil.
func NewComputeRefuelHandler(service ports.PlanningService, history ports.PlanHistory, clock shared.Clock) *ComputeRefuelHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &ComputeRefuelHandler{
		service:  service,
		history:  history,
		validate: validator.New(),
		clock:    clock,
	}
}

// Handle executes the ComputeRefuel command
func (h *ComputeRefuelHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ComputeRefuelCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ComputeRefuelCommand")
	}

	if cmd.CarrierID == "" {
		return nil, shared.NewCarrierRequiredError(MsgCarrierRequired)
	}

	req := planning.NewRefuelRequest(cmd.Origin, cmd.Destination, cmd.Mode, cmd.CarrierID)
	if err := validateRequest(h.validate, req); err != nil {
		return nil, err
	}

	logger := common.LoggerFromContext(ctx)
	logger.Log("INFO", "Requesting refuel plan", map[string]interface{}{
		"request_id":  cmd.RequestID,
		"mode":        string(cmd.Mode),
		"carrier":     cmd.CarrierID,
		"step_size":   req.StepSize,
		"origin":      cmd.Origin.String(),
		"destination": cmd.Destination.String(),
	})

	result, err := h.service.PlanRefuel(ctx, req)
	if err != nil {
		return nil, err
	}

	record := &ports.PlanRecord{
		RequestID: cmd.RequestID,
		Kind:      ports.PlanKindRefuel,
		Mode:      cmd.Mode,
		CarrierID: cmd.CarrierID,
		OriginLat: cmd.Origin.Lat,
		OriginLon: cmd.Origin.Lon,
		DestLat:   cmd.Destination.Lat,
		DestLon:   cmd.Destination.Lon,
		TotalCost: result.TotalCost,
	}
	if result.Infeasible() {
		record.Infeasible = result.Error
		logger.Log("WARN", "Refuel plan infeasible", map[string]interface{}{
			"request_id": cmd.RequestID,
			"reason":     result.Error,
		})
	} else {
		logger.Log("INFO", "Refuel plan received", map[string]interface{}{
			"request_id": cmd.RequestID,
			"stops":      len(result.FuelPlan),
			"total_cost": result.TotalCost,
		})
	}
	recordHistory(ctx, h.history, h.clock, record, result)

	return &ComputeRefuelResponse{RequestID: cmd.RequestID, Request: req, Result: result}, nil
}

// validateRequest runs struct tag validation and reports the first failing field
func validateRequest(v *validator.Validate, req interface{}) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fe := validationErrors[0]
		return shared.NewValidationError(fe.Namespace(), fmt.Sprintf("failed '%s' validation (value: %v)", fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("failed to validate request: %w", err)
}

// recordHistory appends a result to history. A storage failure is logged and
// never fails the planning call.
func recordHistory(ctx context.Context, history ports.PlanHistory, clock shared.Clock, record *ports.PlanRecord, result interface{}) {
	if history == nil {
		return
	}
	logger := common.LoggerFromContext(ctx)

	payload, err := json.Marshal(result)
	if err != nil {
		logger.Log("WARN", "Failed to encode result for history", map[string]interface{}{
			"request_id": record.RequestID,
			"error":      err.Error(),
		})
		return
	}

	record.ID = uuid.New().String()
	record.Payload = payload
	record.RecordedAt = clock.Now()

	if err := history.Record(ctx, record); err != nil {
		logger.Log("WARN", "Failed to record plan history", map[string]interface{}{
			"request_id": record.RequestID,
			"error":      err.Error(),
		})
	}
}
