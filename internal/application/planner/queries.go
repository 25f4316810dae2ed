package planner

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cargoplanner-go/internal/application/common"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/ports"
)

// CatalogSource tells where the loaded catalog came from
type CatalogSource string

const (
	SourceService CatalogSource = "service"
	SourceCache   CatalogSource = "cache"
	SourceMixed   CatalogSource = "mixed"
	SourceNone    CatalogSource = "none"
)

// LoadCatalogQuery fetches ports and carriers once for a session
type LoadCatalogQuery struct{}

// LoadCatalogResponse never carries an error: a list that cannot be fetched
// or recovered from cache is simply empty, and Warnings says why.
type LoadCatalogResponse struct {
	Catalog  *catalog.Catalog
	Source   CatalogSource
	Warnings []string
}

// LoadCatalogHandler fetches the catalog and falls back to the last cached
// snapshot per list when the service is unavailable
type LoadCatalogHandler struct {
	service ports.PlanningService
	cache   ports.CatalogCache
}

// NewLoadCatalogHandler creates a handler. cache may be nil.
func NewLoadCatalogHandler(service ports.PlanningService, cache ports.CatalogCache) *LoadCatalogHandler {
	return &LoadCatalogHandler{service: service, cache: cache}
}

// Handle executes the LoadCatalog query
func (h *LoadCatalogHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*LoadCatalogQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *LoadCatalogQuery")
	}
	logger := common.LoggerFromContext(ctx)

	resp := &LoadCatalogResponse{Catalog: &catalog.Catalog{}, Source: SourceService}

	portsList, portsErr := h.service.ListPorts(ctx)
	carriers, carriersErr := h.service.ListCarriers(ctx)

	if portsErr == nil && carriersErr == nil {
		resp.Catalog.Ports = portsList
		resp.Catalog.Carriers = carriers
		h.refreshCache(ctx, resp.Catalog)
		logger.Log("INFO", "Catalog loaded", map[string]interface{}{
			"ports":    len(portsList),
			"carriers": len(carriers),
		})
		return resp, nil
	}

	cached := h.loadCache(ctx)
	fromCache := 0

	if portsErr != nil {
		resp.Warnings = append(resp.Warnings, fmt.Sprintf("ports unavailable: %v", portsErr))
		if cached != nil && len(cached.Ports) > 0 {
			resp.Catalog.Ports = cached.Ports
			fromCache++
		}
	} else {
		resp.Catalog.Ports = portsList
	}

	if carriersErr != nil {
		resp.Warnings = append(resp.Warnings, fmt.Sprintf("carriers unavailable: %v", carriersErr))
		if cached != nil && len(cached.Carriers) > 0 {
			resp.Catalog.Carriers = cached.Carriers
			fromCache++
		}
	} else {
		resp.Catalog.Carriers = carriers
	}

	failed := len(resp.Warnings)
	switch {
	case resp.Catalog.IsEmpty():
		resp.Source = SourceNone
	case fromCache == 0:
		resp.Source = SourceService
	case fromCache == failed && failed == 2:
		resp.Source = SourceCache
	default:
		resp.Source = SourceMixed
	}

	logger.Log("WARN", "Catalog loaded with gaps", map[string]interface{}{
		"ports":    len(resp.Catalog.Ports),
		"carriers": len(resp.Catalog.Carriers),
		"source":   string(resp.Source),
		"warnings": resp.Warnings,
	})
	return resp, nil
}

func (h *LoadCatalogHandler) refreshCache(ctx context.Context, c *catalog.Catalog) {
	if h.cache == nil {
		return
	}
	if err := h.cache.SaveCatalog(ctx, c); err != nil {
		common.LoggerFromContext(ctx).Log("WARN", "Failed to refresh catalog cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *LoadCatalogHandler) loadCache(ctx context.Context) *catalog.Catalog {
	if h.cache == nil {
		return nil
	}
	cached, err := h.cache.LoadCatalog(ctx)
	if err != nil {
		common.LoggerFromContext(ctx).Log("WARN", "Failed to read catalog cache", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return cached
}

// ListPlanHistoryQuery returns the most recent planning outcomes
type ListPlanHistoryQuery struct {
	Limit int
}

// ListPlanHistoryResponse lists records newest first
type ListPlanHistoryResponse struct {
	Records []*ports.PlanRecord
}

// ListPlanHistoryHandler reads the plan history store
type ListPlanHistoryHandler struct {
	history ports.PlanHistory
}

func NewListPlanHistoryHandler(history ports.PlanHistory) *ListPlanHistoryHandler {
	return &ListPlanHistoryHandler{history: history}
}

// Handle executes the ListPlanHistory query
func (h *ListPlanHistoryHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListPlanHistoryQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListPlanHistoryQuery")
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 20
	}

	records, err := h.history.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list plan history: %w", err)
	}
	return &ListPlanHistoryResponse{Records: records}, nil
}
