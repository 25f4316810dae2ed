package ports

import (
	"context"
	"time"

	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
)

// CatalogCache keeps the last successfully fetched catalog so a session can
// still show ports and carriers when the backend is unreachable at startup
type CatalogCache interface {
	SaveCatalog(ctx context.Context, c *catalog.Catalog) error
	LoadCatalog(ctx context.Context) (*catalog.Catalog, error)
}

// PlanKind distinguishes the two planning operations in history
type PlanKind string

const (
	PlanKindMultiLeg PlanKind = "multi_leg"
	PlanKindRefuel   PlanKind = "refuel"
)

// PlanRecord is one stored planning outcome
type PlanRecord struct {
	ID         string
	RequestID  string
	Kind       PlanKind
	Mode       catalog.TransportMode
	CarrierID  string
	OriginLat  float64
	OriginLon  float64
	DestLat    float64
	DestLon    float64
	TotalCost  float64
	Infeasible string
	Payload    []byte
	RecordedAt time.Time
}

// PlanHistory appends and lists planning outcomes
type PlanHistory interface {
	Record(ctx context.Context, record *PlanRecord) error
	ListRecent(ctx context.Context, limit int) ([]*PlanRecord, error)
}
