package helpers

import (
	"context"
	"sort"
	"sync"

	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/ports"
)

// MockCatalogCache is an in-memory ports.CatalogCache
type MockCatalogCache struct {
	mu      sync.Mutex
	catalog *catalog.Catalog
	saves   int
	loadErr error
	saveErr error
}

var _ ports.CatalogCache = (*MockCatalogCache)(nil)

func NewMockCatalogCache() *MockCatalogCache {
	return &MockCatalogCache{}
}

// Seed preloads a cached catalog
func (m *MockCatalogCache) Seed(c *catalog.Catalog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog = c
}

func (m *MockCatalogCache) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

func (m *MockCatalogCache) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

func (m *MockCatalogCache) SaveCatalog(ctx context.Context, c *catalog.Catalog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.catalog = c
	m.saves++
	return nil
}

func (m *MockCatalogCache) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.catalog == nil {
		return &catalog.Catalog{}, nil
	}
	return m.catalog, nil
}

func (m *MockCatalogCache) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// MockPlanHistory is an in-memory ports.PlanHistory
type MockPlanHistory struct {
	mu        sync.Mutex
	records   []*ports.PlanRecord
	recordErr error
}

var _ ports.PlanHistory = (*MockPlanHistory)(nil)

func NewMockPlanHistory() *MockPlanHistory {
	return &MockPlanHistory{}
}

func (m *MockPlanHistory) SetRecordError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordErr = err
}

func (m *MockPlanHistory) Record(ctx context.Context, record *ports.PlanRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return m.recordErr
	}
	m.records = append(m.records, record)
	return nil
}

func (m *MockPlanHistory) ListRecent(ctx context.Context, limit int) ([]*ports.PlanRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*ports.PlanRecord, len(m.records))
	copy(out, m.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockPlanHistory) Records() []*ports.PlanRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*ports.PlanRecord, len(m.records))
	copy(out, m.records)
	return out
}
