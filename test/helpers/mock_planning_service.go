package helpers

import (
	"context"
	"fmt"
	"sync"

	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/planning"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/ports"
)

// MockPlanningService is a test double for ports.PlanningService
type MockPlanningService struct {
	mu sync.Mutex

	// Scripted responses
	ports        []catalog.Port
	carriers     []catalog.Carrier
	planResult   *planning.PlanResult
	refuelResult *planning.RefuelResult

	// Error injection
	portsErr    error
	carriersErr error
	planErr     error
	refuelErr   error

	// Call tracking
	planRequests   []*planning.PlanRequest
	refuelRequests []*planning.RefuelRequest
	listPortCalls  int
	listCarrCalls  int

	// gate, when set, holds Plan and PlanRefuel until it is closed
	gate    chan struct{}
	entered chan struct{}
}

var _ ports.PlanningService = (*MockPlanningService)(nil)

// NewMockPlanningService creates a mock returning empty results
func NewMockPlanningService() *MockPlanningService {
	return &MockPlanningService{
		planResult:   &planning.PlanResult{},
		refuelResult: &planning.RefuelResult{},
		entered:      make(chan struct{}, 16),
	}
}

func (m *MockPlanningService) SetPorts(p []catalog.Port) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ports = p
}

func (m *MockPlanningService) SetCarriers(c []catalog.Carrier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carriers = c
}

func (m *MockPlanningService) SetPlanResult(r *planning.PlanResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.planResult = r
	m.planErr = nil
}

func (m *MockPlanningService) SetRefuelResult(r *planning.RefuelResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refuelResult = r
	m.refuelErr = nil
}

func (m *MockPlanningService) SetPlanError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.planErr = err
}

func (m *MockPlanningService) SetRefuelError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refuelErr = err
}

// SetCatalogError makes ListPorts and ListCarriers fail
func (m *MockPlanningService) SetCatalogError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.portsErr = err
	m.carriersErr = err
}

// Hold makes Plan and PlanRefuel block until the returned release func is called
func (m *MockPlanningService) Hold() (release func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gate := make(chan struct{})
	m.gate = gate
	var once sync.Once
	return func() {
		once.Do(func() { close(gate) })
	}
}

// Entered is signalled each time a planning call reaches the mock
func (m *MockPlanningService) Entered() <-chan struct{} {
	return m.entered
}

func (m *MockPlanningService) ListPorts(ctx context.Context) ([]catalog.Port, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listPortCalls++
	if m.portsErr != nil {
		return nil, m.portsErr
	}
	return m.ports, nil
}

func (m *MockPlanningService) ListCarriers(ctx context.Context) ([]catalog.Carrier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCarrCalls++
	if m.carriersErr != nil {
		return nil, m.carriersErr
	}
	return m.carriers, nil
}

func (m *MockPlanningService) Plan(ctx context.Context, req *planning.PlanRequest) (*planning.PlanResult, error) {
	m.mu.Lock()
	m.planRequests = append(m.planRequests, req)
	gate := m.gate
	m.mu.Unlock()

	if err := m.wait(ctx, gate); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.planErr != nil {
		return nil, m.planErr
	}
	return m.planResult, nil
}

func (m *MockPlanningService) PlanRefuel(ctx context.Context, req *planning.RefuelRequest) (*planning.RefuelResult, error) {
	m.mu.Lock()
	m.refuelRequests = append(m.refuelRequests, req)
	gate := m.gate
	m.mu.Unlock()

	if err := m.wait(ctx, gate); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.refuelErr != nil {
		return nil, m.refuelErr
	}
	return m.refuelResult, nil
}

func (m *MockPlanningService) wait(ctx context.Context, gate chan struct{}) error {
	select {
	case m.entered <- struct{}{}:
	default:
	}
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("mock call abandoned: %w", ctx.Err())
	}
}

// Call tracking

func (m *MockPlanningService) PlanCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.planRequests)
}

func (m *MockPlanningService) RefuelCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.refuelRequests)
}

// TotalPlanningCalls counts Plan and PlanRefuel calls together
func (m *MockPlanningService) TotalPlanningCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.planRequests) + len(m.refuelRequests)
}

func (m *MockPlanningService) LastPlanRequest() *planning.PlanRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.planRequests) == 0 {
		return nil
	}
	return m.planRequests[len(m.planRequests)-1]
}

func (m *MockPlanningService) LastRefuelRequest() *planning.RefuelRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.refuelRequests) == 0 {
		return nil
	}
	return m.refuelRequests[len(m.refuelRequests)-1]
}

func (m *MockPlanningService) CatalogCalls() (ports, carriers int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listPortCalls, m.listCarrCalls
}
