package steps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andrescamacho/cargoplanner-go/internal/adapters/api"
	"github.com/andrescamacho/cargoplanner-go/internal/adapters/persistence"
	"github.com/andrescamacho/cargoplanner-go/internal/application/common"
	"github.com/andrescamacho/cargoplanner-go/internal/application/planner"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/planning"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/ports"
	"github.com/andrescamacho/cargoplanner-go/test/helpers"
	"github.com/cucumber/godog"
)

type orchestratorContext struct {
	service *helpers.MockPlanningService
	cache   *persistence.GormCatalogCache
	history *persistence.GormPlanHistoryRepository

	loop    *planner.Loop
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}

	snap    planner.Snapshot
	release func()
}

func (oc *orchestratorContext) reset() error {
	oc.stop()
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}
	oc.service = helpers.NewMockPlanningService()
	oc.cache = persistence.NewGormCatalogCache(helpers.SharedTestDB, nil)
	oc.history = persistence.NewGormPlanHistoryRepository(helpers.SharedTestDB)
	oc.loop = nil
	oc.snap = planner.Snapshot{}
	oc.release = nil
	return nil
}

func (oc *orchestratorContext) stop() {
	if oc.release != nil {
		oc.release()
	}
	if oc.cancel != nil {
		oc.cancel()
		<-oc.stopped
		oc.cancel = nil
	}
}

func (oc *orchestratorContext) do(ev planner.Event) error {
	if oc.loop == nil {
		return fmt.Errorf("no planning session started")
	}
	snap, err := oc.loop.Do(oc.ctx, ev)
	if err != nil {
		return err
	}
	oc.snap = snap
	return nil
}

// Given steps

func (oc *orchestratorContext) thePlanningServiceOffersThePorts(table *godog.Table) error {
	var list []catalog.Port
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		list = append(list, catalog.Port{
			ID:          i,
			Name:        getCellValue(table, row, "name"),
			Lat:         parseFloat(getCellValue(table, row, "lat")),
			Lon:         parseFloat(getCellValue(table, row, "lon")),
			BunkerPrice: parseFloat(getCellValue(table, row, "bunker_price")),
		})
	}
	oc.service.SetPorts(list)
	return nil
}

func (oc *orchestratorContext) thePlanningServiceOffersTheCarriers(table *godog.Table) error {
	var list []catalog.Carrier
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		mode, err := catalog.ParseTransportMode(getCellValue(table, row, "type"))
		if err != nil {
			return err
		}
		list = append(list, catalog.Carrier{ID: getCellValue(table, row, "id"), Type: mode})
	}
	oc.service.SetCarriers(list)
	return nil
}

func (oc *orchestratorContext) thePlanningServiceCatalogIsUnreachable() error {
	oc.service.SetCatalogError(&api.NetworkError{Err: errors.New("connection refused")})
	return nil
}

func (oc *orchestratorContext) theCatalogCacheHoldsPort(name, coord string) error {
	c, err := parseCoord(coord)
	if err != nil {
		return err
	}
	return oc.cache.SaveCatalog(context.Background(), &catalog.Catalog{
		Ports: []catalog.Port{{ID: 1, Name: name, Lat: c.Lat, Lon: c.Lon}},
	})
}

func (oc *orchestratorContext) thePlanningServiceReturnsAPlanCosting(cost float64) error {
	oc.service.SetPlanResult(&planning.PlanResult{RouteID: "route-1", TotalCostUSD: cost})
	return nil
}

func (oc *orchestratorContext) thePlanningServiceReturnsARefuelResultCosting(cost float64) error {
	oc.service.SetRefuelResult(&planning.RefuelResult{TotalCost: cost})
	return nil
}

func (oc *orchestratorContext) thePlanningServiceReportsNoFeasibleRefuelPlan(message string) error {
	oc.service.SetRefuelResult(&planning.RefuelResult{Error: message})
	return nil
}

func (oc *orchestratorContext) thePlanningServiceFailsWithStatus(status int) error {
	err := &api.ServiceError{StatusCode: status, Body: "boom"}
	oc.service.SetPlanError(err)
	oc.service.SetRefuelError(err)
	return nil
}

func (oc *orchestratorContext) thePlanningServiceIsSlow() error {
	oc.release = oc.service.Hold()
	return nil
}

func (oc *orchestratorContext) aPlanningSessionIsStarted() error {
	m := common.NewMediator()
	err := planner.RegisterHandlers(m, planner.Dependencies{
		Service: oc.service,
		Cache:   oc.cache,
		History: oc.history,
	})
	if err != nil {
		return err
	}

	oc.loop = planner.NewLoop(planner.NewSession(planner.SessionDefaults{}), m)
	oc.ctx, oc.cancel = context.WithTimeout(context.Background(), 10*time.Second)
	oc.stopped = make(chan struct{})
	go func(loop *planner.Loop, ctx context.Context, stopped chan struct{}) {
		defer close(stopped)
		_ = loop.Run(ctx)
	}(oc.loop, oc.ctx, oc.stopped)

	if err := oc.do(planner.CatalogRequested{}); err != nil {
		return err
	}
	first := oc.snap.Seq
	snap, err := oc.loop.Await(oc.ctx, func(s planner.Snapshot) bool { return s.Seq > first })
	if err != nil {
		return err
	}
	oc.snap = snap
	return nil
}

// When steps

func (oc *orchestratorContext) iClickTheMapAtInTheSession(coord string) error {
	c, err := parseCoord(coord)
	if err != nil {
		return err
	}
	return oc.do(planner.MapClicked{Coord: c})
}

func (oc *orchestratorContext) iChoosePortAsOrigin(name string) error {
	return oc.do(planner.PortChosenAsOrigin{Name: name})
}

func (oc *orchestratorContext) iChoosePortAsDestination(name string) error {
	return oc.do(planner.PortChosenAsDestination{Name: name})
}

func (oc *orchestratorContext) iSelectMode(mode string) error {
	m, err := catalog.ParseTransportMode(mode)
	if err != nil {
		return err
	}
	return oc.do(planner.ModeSelected{Mode: m})
}

func (oc *orchestratorContext) iSelectCarrier(id string) error {
	return oc.do(planner.CarrierSelected{CarrierID: id})
}

func (oc *orchestratorContext) iClearTheSessionPicks() error {
	return oc.do(planner.PicksCleared{})
}

func (oc *orchestratorContext) iRequestAPlan() error {
	return oc.request(planner.PlanRequested{})
}

func (oc *orchestratorContext) iRequestARefuelPlan() error {
	return oc.request(planner.RefuelRequested{})
}

// request triggers a call and, unless the service is being held, waits for it to settle
func (oc *orchestratorContext) request(ev planner.Event) error {
	if err := oc.do(ev); err != nil {
		return err
	}
	if !oc.snap.Busy || oc.release != nil {
		return nil
	}
	snap, err := oc.loop.AwaitIdle(oc.ctx)
	if err != nil {
		return err
	}
	oc.snap = snap
	return nil
}

func (oc *orchestratorContext) theCallReachesThePlanningService() error {
	select {
	case <-oc.service.Entered():
		return nil
	case <-time.After(2 * time.Second):
		return fmt.Errorf("planning call never reached the service")
	}
}

func (oc *orchestratorContext) thePlanningServiceResponds() error {
	if oc.release == nil {
		return fmt.Errorf("the planning service is not being held")
	}
	oc.release()
	oc.release = nil
	snap, err := oc.loop.AwaitIdle(oc.ctx)
	if err != nil {
		return err
	}
	oc.snap = snap
	return nil
}

// Then steps

func (oc *orchestratorContext) theSessionShouldBeBusy() error {
	if !oc.snap.Busy {
		return fmt.Errorf("expected the session to be busy")
	}
	return nil
}

func (oc *orchestratorContext) theSessionShouldNotBeBusy() error {
	if oc.snap.Busy {
		return fmt.Errorf("expected the session to be idle")
	}
	return nil
}

func (oc *orchestratorContext) theSessionShouldShowTheNotice(message string) error {
	if oc.snap.Notice == nil {
		return fmt.Errorf("expected notice %q, got none", message)
	}
	if oc.snap.Notice.Message != message {
		return fmt.Errorf("expected notice %q, got %q", message, oc.snap.Notice.Message)
	}
	return nil
}

func (oc *orchestratorContext) theSessionShouldShowNoNotice() error {
	if oc.snap.Notice != nil {
		return fmt.Errorf("expected no notice, got %q", oc.snap.Notice.Message)
	}
	return nil
}

func (oc *orchestratorContext) planningCallsShouldHaveBeenMade(count int) error {
	if got := oc.service.TotalPlanningCalls(); got != count {
		return fmt.Errorf("expected %d planning calls, got %d", count, got)
	}
	return nil
}

func (oc *orchestratorContext) thePlanResultShouldCost(cost float64) error {
	if oc.snap.Plan == nil {
		return fmt.Errorf("expected a plan result, got none")
	}
	if oc.snap.Refuel != nil {
		return fmt.Errorf("expected the refuel result to be cleared")
	}
	if oc.snap.Plan.TotalCostUSD != cost {
		return fmt.Errorf("expected plan cost %v, got %v", cost, oc.snap.Plan.TotalCostUSD)
	}
	return nil
}

func (oc *orchestratorContext) theRefuelResultShouldCost(cost float64) error {
	if oc.snap.Refuel == nil {
		return fmt.Errorf("expected a refuel result, got none")
	}
	if oc.snap.Plan != nil {
		return fmt.Errorf("expected the plan result to be cleared")
	}
	if oc.snap.Refuel.TotalCost != cost {
		return fmt.Errorf("expected refuel cost %v, got %v", cost, oc.snap.Refuel.TotalCost)
	}
	return nil
}

func (oc *orchestratorContext) theRefuelResultShouldBeInfeasible() error {
	if !oc.snap.Refuel.Infeasible() {
		return fmt.Errorf("expected an infeasible refuel result")
	}
	return nil
}

func (oc *orchestratorContext) noResultShouldBeShown() error {
	if oc.snap.Plan != nil || oc.snap.Refuel != nil {
		return fmt.Errorf("expected no result, got plan=%v refuel=%v", oc.snap.Plan != nil, oc.snap.Refuel != nil)
	}
	return nil
}

func (oc *orchestratorContext) theLastPlanRequestShouldUseCarrier(id string) error {
	req := oc.service.LastPlanRequest()
	if req == nil {
		return fmt.Errorf("no plan request was made")
	}
	if req.CarrierModel == nil || *req.CarrierModel != id {
		return fmt.Errorf("expected carrier_model %q, got %v", id, req.CarrierModel)
	}
	return nil
}

func (oc *orchestratorContext) theLastPlanRequestShouldNotNameACarrier() error {
	req := oc.service.LastPlanRequest()
	if req == nil {
		return fmt.Errorf("no plan request was made")
	}
	if req.CarrierModel != nil {
		return fmt.Errorf("expected no carrier_model, got %q", *req.CarrierModel)
	}
	return nil
}

func (oc *orchestratorContext) theLastPlanRequestShouldShip(quantity float64, unit string) error {
	req := oc.service.LastPlanRequest()
	if req == nil {
		return fmt.Errorf("no plan request was made")
	}
	if req.CargoQuantity != quantity || req.Unit != unit {
		return fmt.Errorf("expected %v %s, got %v %s", quantity, unit, req.CargoQuantity, req.Unit)
	}
	return nil
}

func (oc *orchestratorContext) theSelectedCarrierShouldBe(id string) error {
	if oc.snap.CarrierID != id {
		return fmt.Errorf("expected carrier %q, got %q", id, oc.snap.CarrierID)
	}
	return nil
}

func (oc *orchestratorContext) theAutomaticCarrierShouldBeSelected() error {
	return oc.theSelectedCarrierShouldBe("")
}

func (oc *orchestratorContext) theSessionShouldListPorts(count int) error {
	if len(oc.snap.Ports) != count {
		return fmt.Errorf("expected %d ports, got %d", count, len(oc.snap.Ports))
	}
	return nil
}

func (oc *orchestratorContext) thePlanHistoryShouldHoldRecords(count int, kind string) error {
	records, err := oc.history.ListRecent(context.Background(), 100)
	if err != nil {
		return err
	}
	got := 0
	for _, r := range records {
		if r.Kind == ports.PlanKind(kind) {
			got++
		}
	}
	if got != count {
		return fmt.Errorf("expected %d %s history records, got %d", count, kind, got)
	}
	return nil
}

func InitializeOrchestratorScenario(ctx *godog.ScenarioContext) {
	oc := &orchestratorContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, oc.reset()
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		oc.stop()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the planning service offers the ports:$`, oc.thePlanningServiceOffersThePorts)
	ctx.Step(`^the planning service offers the carriers:$`, oc.thePlanningServiceOffersTheCarriers)
	ctx.Step(`^the planning service catalog is unreachable$`, oc.thePlanningServiceCatalogIsUnreachable)
	ctx.Step(`^the catalog cache holds port "([^"]*)" at "([^"]*)"$`, oc.theCatalogCacheHoldsPort)
	ctx.Step(`^the planning service returns a plan costing (\d+) USD$`, oc.thePlanningServiceReturnsAPlanCosting)
	ctx.Step(`^the planning service returns a refuel result costing (\d+) USD$`, oc.thePlanningServiceReturnsARefuelResultCosting)
	ctx.Step(`^the planning service reports no feasible refuel plan "([^"]*)"$`, oc.thePlanningServiceReportsNoFeasibleRefuelPlan)
	ctx.Step(`^the planning service fails with status (\d+)$`, oc.thePlanningServiceFailsWithStatus)
	ctx.Step(`^the planning service is slow to respond$`, oc.thePlanningServiceIsSlow)
	ctx.Step(`^a planning session is started$`, oc.aPlanningSessionIsStarted)

	// When steps
	ctx.Step(`^I click the session map at "([^"]*)"$`, oc.iClickTheMapAtInTheSession)
	ctx.Step(`^I choose port "([^"]*)" as origin$`, oc.iChoosePortAsOrigin)
	ctx.Step(`^I choose port "([^"]*)" as destination$`, oc.iChoosePortAsDestination)
	ctx.Step(`^I select mode "([^"]*)"$`, oc.iSelectMode)
	ctx.Step(`^I select carrier "([^"]*)"$`, oc.iSelectCarrier)
	ctx.Step(`^I clear the session picks$`, oc.iClearTheSessionPicks)
	ctx.Step(`^I request a plan$`, oc.iRequestAPlan)
	ctx.Step(`^I request a refuel plan$`, oc.iRequestARefuelPlan)
	ctx.Step(`^the call reaches the planning service$`, oc.theCallReachesThePlanningService)
	ctx.Step(`^the planning service responds$`, oc.thePlanningServiceResponds)

	// Then steps
	ctx.Step(`^the session should be busy$`, oc.theSessionShouldBeBusy)
	ctx.Step(`^the session should not be busy$`, oc.theSessionShouldNotBeBusy)
	ctx.Step(`^the session should show the notice "([^"]*)"$`, oc.theSessionShouldShowTheNotice)
	ctx.Step(`^the session should show no notice$`, oc.theSessionShouldShowNoNotice)
	ctx.Step(`^(\d+) planning calls? should have been made$`, oc.planningCallsShouldHaveBeenMade)
	ctx.Step(`^the plan result should cost (\d+) USD$`, oc.thePlanResultShouldCost)
	ctx.Step(`^the refuel result should cost (\d+) USD$`, oc.theRefuelResultShouldCost)
	ctx.Step(`^the refuel result should be infeasible$`, oc.theRefuelResultShouldBeInfeasible)
	ctx.Step(`^no result should be shown$`, oc.noResultShouldBeShown)
	ctx.Step(`^the last plan request should use carrier "([^"]*)"$`, oc.theLastPlanRequestShouldUseCarrier)
	ctx.Step(`^the last plan request should not name a carrier$`, oc.theLastPlanRequestShouldNotNameACarrier)
	ctx.Step(`^the last plan request should ship (\d+) ([a-z]+)$`, oc.theLastPlanRequestShouldShip)
	ctx.Step(`^the selected carrier should be "([^"]*)"$`, oc.theSelectedCarrierShouldBe)
	ctx.Step(`^the automatic carrier should be selected$`, oc.theAutomaticCarrierShouldBeSelected)
	ctx.Step(`^the session should list (\d+) ports?$`, oc.theSessionShouldListPorts)
	ctx.Step(`^the plan history should hold (\d+) "([^"]*)" records?$`, oc.thePlanHistoryShouldHoldRecords)
}
