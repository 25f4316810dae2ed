package ports

import (
	"context"

	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/planning"
)

// PlanningService is the domain's view of the external planning backend.
//
// The interface lives in the domain layer so the session and command handlers
// depend on it, and the HTTP adapter implements it:
//
//	┌─────────────────────────┐
//	│  Application Layer      │
//	│  (session, commands)    │
//	└───────────┬─────────────┘
//	            │ depends on
//	            ↓
//	┌─────────────────────────┐
//	│  Domain Ports           │  ← This interface
//	└───────────┬─────────────┘
//	            ↑
//	            │ implements
//	┌─────────────────────────┐
//	│  adapters/api           │
//	└─────────────────────────┘
//
// Route computation and fuel optimization are opaque: only the request and
// response contracts are known here.
type PlanningService interface {
	ListPorts(ctx context.Context) ([]catalog.Port, error)
	ListCarriers(ctx context.Context) ([]catalog.Carrier, error)
	Plan(ctx context.Context, req *planning.PlanRequest) (*planning.PlanResult, error)
	PlanRefuel(ctx context.Context, req *planning.RefuelRequest) (*planning.RefuelResult, error)
}
