package planner

import (
	"fmt"

	"github.com/andrescamacho/cargoplanner-go/internal/application/common"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/ports"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/shared"
)

// Dependencies are the ports the planner handlers need. Cache and History may be nil.
type Dependencies struct {
	Service ports.PlanningService
	Cache   ports.CatalogCache
	History ports.PlanHistory
	Clock   shared.Clock
}

// RegisterHandlers wires every planner command and query into m
func RegisterHandlers(m common.Mediator, deps Dependencies) error {
	if deps.Service == nil {
		return fmt.Errorf("planning service is required")
	}

	if err := common.RegisterHandler[*ComputePlanCommand](m, NewComputePlanHandler(deps.Service, deps.History, deps.Clock)); err != nil {
		return fmt.Errorf("failed to register plan handler: %w", err)
	}
	if err := common.RegisterHandler[*ComputeRefuelCommand](m, NewComputeRefuelHandler(deps.Service, deps.History, deps.Clock)); err != nil {
		return fmt.Errorf("failed to register refuel handler: %w", err)
	}
	if err := common.RegisterHandler[*LoadCatalogQuery](m, NewLoadCatalogHandler(deps.Service, deps.Cache)); err != nil {
		return fmt.Errorf("failed to register catalog handler: %w", err)
	}
	if deps.History != nil {
		if err := common.RegisterHandler[*ListPlanHistoryQuery](m, NewListPlanHistoryHandler(deps.History)); err != nil {
			return fmt.Errorf("failed to register history handler: %w", err)
		}
	}
	return nil
}
