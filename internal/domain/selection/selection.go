package selection

import (
	"github.com/andrescamacho/cargoplanner-go/internal/domain/shared"
)

// State is derived from which endpoints are present
type State string

const (
	StateEmpty     State = "EMPTY"
	StateOriginSet State = "ORIGIN_SET"
	StateComplete  State = "COMPLETE"
)

// Selection tracks the origin/destination pair being picked on the map.
//
// Invariants:
// - destination is only ever present while origin is present
// - the state is never stored; it is recomputed from field presence
type Selection struct {
	origin      *shared.Coordinate
	destination *shared.Coordinate
}

// New returns an empty selection
func New() *Selection {
	return &Selection{}
}

// Getters

func (s *Selection) Origin() (shared.Coordinate, bool) {
	if s.origin == nil {
		return shared.Coordinate{}, false
	}
	return *s.origin, true
}

func (s *Selection) Destination() (shared.Coordinate, bool) {
	if s.destination == nil {
		return shared.Coordinate{}, false
	}
	return *s.destination, true
}

func (s *Selection) State() State {
	switch {
	case s.origin == nil:
		return StateEmpty
	case s.destination == nil:
		return StateOriginSet
	default:
		return StateComplete
	}
}

func (s *Selection) IsComplete() bool {
	return s.State() == StateComplete
}

// Transitions

// Pick handles a bare map click. EMPTY sets origin, ORIGIN_SET sets destination,
// and COMPLETE starts over: the click becomes the new origin and destination is cleared.
func (s *Selection) Pick(c shared.Coordinate) State {
	switch s.State() {
	case StateEmpty:
		s.origin = &c
	case StateOriginSet:
		s.destination = &c
	case StateComplete:
		s.origin = &c
		s.destination = nil
	}
	return s.State()
}

// UseAsOrigin overwrites origin in place from any state; destination is untouched
func (s *Selection) UseAsOrigin(c shared.Coordinate) State {
	s.origin = &c
	return s.State()
}

// UseAsDestination overwrites destination in place. With no origin there is
// nothing to attach a destination to, so the action is rejected.
func (s *Selection) UseAsDestination(c shared.Coordinate) (State, error) {
	if s.origin == nil {
		return s.State(), shared.NewSelectionIncompleteError("Choose an origin before setting a destination.")
	}
	s.destination = &c
	return s.State(), nil
}

// Clear drops both endpoints
func (s *Selection) Clear() State {
	s.origin = nil
	s.destination = nil
	return StateEmpty
}

// Pair returns both endpoints when the selection is complete
func (s *Selection) Pair() (origin, destination shared.Coordinate, ok bool) {
	if !s.IsComplete() {
		return shared.Coordinate{}, shared.Coordinate{}, false
	}
	return *s.origin, *s.destination, true
}
