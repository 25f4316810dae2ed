package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/andrescamacho/cargoplanner-go/internal/application/common"
)

// ErrLoopStopped is returned by Do and Await once the loop has exited
var ErrLoopStopped = errors.New("planner loop stopped")

// Observer receives a snapshot after every handled event. It runs on the
// loop goroutine and must not block or call back into the loop.
type Observer func(Snapshot)

type envelope struct {
	event Event
	reply chan Snapshot
}

// Loop serializes every session mutation onto one goroutine. External calls
// go through the mediator on worker goroutines and come back as completion
// events, so the busy flag is seen by any event that arrives mid-call.
type Loop struct {
	session  *Session
	mediator common.Mediator

	events chan envelope
	done   chan struct{}

	mu        sync.Mutex
	observers map[int]Observer
	nextID    int

	seq     uint64
	latest  atomic.Pointer[Snapshot]
	workers sync.WaitGroup
}

// NewLoop creates a loop over session. Requests are sent through mediator,
// which must have the planner handlers registered (see RegisterHandlers).
func NewLoop(session *Session, mediator common.Mediator) *Loop {
	l := &Loop{
		session:   session,
		mediator:  mediator,
		events:    make(chan envelope, 64),
		done:      make(chan struct{}),
		observers: make(map[int]Observer),
	}
	snap := session.Snapshot()
	l.latest.Store(&snap)
	return l
}

// Run handles events until ctx is cancelled. In-flight workers are waited for
// before it returns.
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		close(l.done)
		l.workers.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env := <-l.events:
			snap := l.handle(ctx, env.event)
			if env.reply != nil {
				env.reply <- snap
			}
		}
	}
}

// Do queues an event and returns the snapshot taken right after it was handled
func (l *Loop) Do(ctx context.Context, ev Event) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	select {
	case l.events <- envelope{event: ev, reply: reply}:
	case <-l.done:
		return Snapshot{}, ErrLoopStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}

	select {
	case snap := <-reply:
		return snap, nil
	case <-l.done:
		return Snapshot{}, ErrLoopStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Await blocks until a snapshot satisfies pred. The latest snapshot is
// checked first.
func (l *Loop) Await(ctx context.Context, pred func(Snapshot) bool) (Snapshot, error) {
	matched := make(chan Snapshot, 1)
	unsubscribe := l.Subscribe(func(s Snapshot) {
		if pred(s) {
			select {
			case matched <- s:
			default:
			}
		}
	})
	defer unsubscribe()

	if latest := l.Latest(); pred(latest) {
		return latest, nil
	}

	select {
	case snap := <-matched:
		return snap, nil
	case <-l.done:
		return Snapshot{}, ErrLoopStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// AwaitIdle waits for the in-flight call, if any, to complete
func (l *Loop) AwaitIdle(ctx context.Context) (Snapshot, error) {
	return l.Await(ctx, func(s Snapshot) bool { return !s.Busy })
}

// Latest returns the most recent snapshot. Safe from any goroutine.
func (l *Loop) Latest() Snapshot {
	return *l.latest.Load()
}

// Subscribe registers an observer and returns a function that removes it
func (l *Loop) Subscribe(fn Observer) func() {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.observers[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.observers, id)
		l.mu.Unlock()
	}
}

func (l *Loop) handle(ctx context.Context, ev Event) Snapshot {
	logger := common.LoggerFromContext(ctx)

	if isUserEvent(ev) {
		l.session.ClearNotice()
	}

	switch e := ev.(type) {
	case MapClicked:
		l.session.Pick(e.Coord)
	case CoordChosenAsOrigin:
		l.session.UseAsOrigin(e.Coord)
	case CoordChosenAsDestination:
		_, _ = l.session.UseAsDestination(e.Coord)
	case PortChosenAsOrigin:
		_, _ = l.session.UsePortAsOrigin(e.Name)
	case PortChosenAsDestination:
		_, _ = l.session.UsePortAsDestination(e.Name)
	case PicksCleared:
		l.session.ClearPicks()
	case ModeSelected:
		l.session.SelectMode(e.Mode)
	case CarrierSelected:
		_ = l.session.SelectCarrier(e.CarrierID)
	case CargoTypeSelected:
		l.session.SelectCargoType(e.CargoType)

	case PlanRequested:
		cmd, err := l.session.BeginPlan()
		if err != nil {
			logger.Log("INFO", "Plan request rejected", map[string]interface{}{"reason": err.Error()})
			break
		}
		l.spawn(ctx, func(ctx context.Context) Event {
			resp, err := l.mediator.Send(ctx, cmd)
			if err != nil {
				return planCompleted{requestID: cmd.RequestID, err: err}
			}
			planResp, ok := resp.(*ComputePlanResponse)
			if !ok {
				return planCompleted{requestID: cmd.RequestID, err: fmt.Errorf("unexpected response type %T", resp)}
			}
			return planCompleted{requestID: cmd.RequestID, result: planResp.Result}
		})

	case RefuelRequested:
		cmd, err := l.session.BeginRefuel()
		if err != nil {
			logger.Log("INFO", "Refuel request rejected", map[string]interface{}{"reason": err.Error()})
			break
		}
		l.spawn(ctx, func(ctx context.Context) Event {
			resp, err := l.mediator.Send(ctx, cmd)
			if err != nil {
				return refuelCompleted{requestID: cmd.RequestID, err: err}
			}
			refuelResp, ok := resp.(*ComputeRefuelResponse)
			if !ok {
				return refuelCompleted{requestID: cmd.RequestID, err: fmt.Errorf("unexpected response type %T", resp)}
			}
			return refuelCompleted{requestID: cmd.RequestID, result: refuelResp.Result}
		})

	case CatalogRequested:
		l.spawn(ctx, func(ctx context.Context) Event {
			resp, err := l.mediator.Send(ctx, &LoadCatalogQuery{})
			if err != nil {
				return catalogLoaded{warnings: []string{err.Error()}}
			}
			catResp, ok := resp.(*LoadCatalogResponse)
			if !ok {
				return catalogLoaded{warnings: []string{fmt.Sprintf("unexpected response type %T", resp)}}
			}
			return catalogLoaded{catalog: catResp.Catalog, warnings: catResp.Warnings}
		})

	case catalogLoaded:
		l.session.SetCatalog(e.catalog)
		for _, w := range e.warnings {
			logger.Log("WARN", "Catalog incomplete", map[string]interface{}{"warning": w})
		}

	case planCompleted:
		if e.err != nil {
			logger.Log("ERROR", "Plan request failed", map[string]interface{}{
				"request_id": e.requestID,
				"error":      e.err.Error(),
			})
		}
		l.session.CompletePlan(e.requestID, e.result, e.err)

	case refuelCompleted:
		if e.err != nil {
			logger.Log("ERROR", "Refuel request failed", map[string]interface{}{
				"request_id": e.requestID,
				"error":      e.err.Error(),
			})
		}
		l.session.CompleteRefuel(e.requestID, e.result, e.err)

	default:
		logger.Log("WARN", "Unhandled event", map[string]interface{}{"event": fmt.Sprintf("%T", ev)})
	}

	return l.publish()
}

// spawn runs work on a worker goroutine and posts its completion event back
func (l *Loop) spawn(ctx context.Context, work func(ctx context.Context) Event) {
	l.workers.Add(1)
	go func() {
		defer l.workers.Done()
		ev := work(ctx)
		select {
		case l.events <- envelope{event: ev}:
		case <-l.done:
		}
	}()
}

func (l *Loop) publish() Snapshot {
	l.seq++
	snap := l.session.Snapshot()
	snap.Seq = l.seq
	l.latest.Store(&snap)

	l.mu.Lock()
	observers := make([]Observer, 0, len(l.observers))
	for _, o := range l.observers {
		observers = append(observers, o)
	}
	l.mu.Unlock()

	for _, o := range observers {
		o(snap)
	}
	return snap
}

func isUserEvent(ev Event) bool {
	switch ev.(type) {
	case catalogLoaded, planCompleted, refuelCompleted:
		return false
	default:
		return true
	}
}
