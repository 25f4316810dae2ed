package planner

import (
	"errors"
	"fmt"

	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/overlay"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/planning"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/selection"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/shared"
	"github.com/andrescamacho/cargoplanner-go/pkg/utils"
)

// User-facing messages
const (
	MsgPlanSelectionIncomplete   = "Pick origin and destination (click map or choose port)."
	MsgRefuelSelectionIncomplete = "Pick origin and destination first."
	MsgCarrierRequired           = "Select a carrier model for the mode."
	MsgDestinationWithoutOrigin  = "Choose an origin before setting a destination."
	MsgBusy                      = "A planning request is already in progress."
	MsgTransportFailure          = "Planning service request failed. Please try again."
)

// NoticeLevel grades what the results panel shows
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is the inline message shown in the selection/results panel
type Notice struct {
	Level   NoticeLevel
	Message string
}

type callKind int

const (
	callPlan callKind = iota + 1
	callRefuel
)

type inFlightCall struct {
	requestID string
	kind      callKind
	origin    shared.Coordinate
}

// Session owns the selection, the planning configuration, and the two result
// slots. It is not safe for concurrent use; the Loop is its only caller.
//
// Invariants:
// - at most one of plan and refuel is non-nil
// - busy is true exactly while a call started by BeginPlan/BeginRefuel has not completed
type Session struct {
	selection *selection.Selection
	mode      catalog.TransportMode
	cargoType catalog.CargoType
	carrierID string
	catalog   *catalog.Catalog

	plan   *planning.PlanResult
	refuel *planning.RefuelResult

	inFlight      *inFlightCall
	lastRequestID string
	notice        *Notice
	viewport      overlay.Viewport
}

// SessionDefaults seeds the selectors
type SessionDefaults struct {
	Mode      catalog.TransportMode
	CargoType catalog.CargoType
	CarrierID string
}

// NewSession creates a session with an empty selection and catalog
func NewSession(defaults SessionDefaults) *Session {
	mode := defaults.Mode
	if mode == "" {
		mode = catalog.DefaultMode
	}
	cargo := defaults.CargoType
	if cargo == "" {
		cargo = catalog.DefaultCargoType
	}
	return &Session{
		selection: selection.New(),
		mode:      mode,
		cargoType: cargo,
		carrierID: defaults.CarrierID,
		catalog:   &catalog.Catalog{},
		viewport:  overlay.DefaultViewport(),
	}
}

// Getters

func (s *Session) Busy() bool                           { return s.inFlight != nil }
func (s *Session) Mode() catalog.TransportMode          { return s.mode }
func (s *Session) CargoType() catalog.CargoType         { return s.cargoType }
func (s *Session) CarrierID() string                    { return s.carrierID }
func (s *Session) Catalog() *catalog.Catalog            { return s.catalog }
func (s *Session) PlanResult() *planning.PlanResult     { return s.plan }
func (s *Session) RefuelResult() *planning.RefuelResult { return s.refuel }
func (s *Session) Notice() *Notice                      { return s.notice }
func (s *Session) Viewport() overlay.Viewport           { return s.viewport }
func (s *Session) SelectionState() selection.State      { return s.selection.State() }

// ClearNotice drops the current notice
func (s *Session) ClearNotice() {
	s.notice = nil
}

func (s *Session) setNotice(level NoticeLevel, message string) {
	s.notice = &Notice{Level: level, Message: message}
}

// Catalog

// SetCatalog installs the session catalog and centers on its first port
func (s *Session) SetCatalog(c *catalog.Catalog) {
	if c == nil {
		c = &catalog.Catalog{}
	}
	s.catalog = c
	if len(c.Ports) > 0 {
		s.viewport.Center = c.Ports[0].Location()
	}
	if s.carrierID != "" && len(c.Carriers) > 0 {
		if carrier, ok := c.FindCarrier(s.carrierID); !ok || carrier.Type != s.mode {
			s.carrierID = ""
		}
	}
}

// Selection

// Pick applies a bare map click
func (s *Session) Pick(c shared.Coordinate) selection.State {
	return s.selection.Pick(c)
}

// UseAsOrigin sets the origin from an explicit action
func (s *Session) UseAsOrigin(c shared.Coordinate) selection.State {
	return s.selection.UseAsOrigin(c)
}

// UseAsDestination sets the destination from an explicit action
func (s *Session) UseAsDestination(c shared.Coordinate) (selection.State, error) {
	state, err := s.selection.UseAsDestination(c)
	if err != nil {
		s.setNotice(NoticeError, MsgDestinationWithoutOrigin)
		return state, err
	}
	return state, nil
}

// UsePortAsOrigin looks a port up by name and sets it as origin
func (s *Session) UsePortAsOrigin(name string) (selection.State, error) {
	port, ok := s.catalog.FindPortByName(name)
	if !ok {
		return s.rejectUnknownPort(name)
	}
	return s.UseAsOrigin(port.Location()), nil
}

// UsePortAsDestination looks a port up by name and sets it as destination
func (s *Session) UsePortAsDestination(name string) (selection.State, error) {
	port, ok := s.catalog.FindPortByName(name)
	if !ok {
		return s.rejectUnknownPort(name)
	}
	return s.UseAsDestination(port.Location())
}

func (s *Session) rejectUnknownPort(name string) (selection.State, error) {
	err := shared.NewValidationError("port", fmt.Sprintf("unknown port %q", name))
	s.setNotice(NoticeError, fmt.Sprintf("Unknown port %q.", name))
	return s.selection.State(), err
}

// ClearPicks resets the selection and drops both results
func (s *Session) ClearPicks() selection.State {
	s.plan = nil
	s.refuel = nil
	return s.selection.Clear()
}

// Configuration

// SelectMode switches transport mode. A selected carrier that does not
// operate in the new mode falls back to automatic selection.
func (s *Session) SelectMode(mode catalog.TransportMode) {
	s.mode = mode
	if s.carrierID == "" {
		return
	}
	if carrier, ok := s.catalog.FindCarrier(s.carrierID); ok && carrier.Type != mode {
		s.carrierID = ""
	}
}

// SelectCarrier picks a carrier model; an empty id means automatic
func (s *Session) SelectCarrier(id string) error {
	if id == "" || len(s.catalog.Carriers) == 0 {
		s.carrierID = id
		return nil
	}
	for _, c := range s.catalog.CarriersFor(s.mode) {
		if c.ID == id {
			s.carrierID = id
			return nil
		}
	}
	msg := fmt.Sprintf("Carrier %s is not available for mode %s.", id, s.mode)
	s.setNotice(NoticeError, msg)
	return shared.NewValidationError("carrier_model", msg)
}

// SelectCargoType sets the cargo classification
func (s *Session) SelectCargoType(cargo catalog.CargoType) {
	s.cargoType = cargo
}

// Planning

// BeginPlan checks preconditions and, when they hold, marks the session busy
// and returns the command to send. On error nothing but the notice changes.
func (s *Session) BeginPlan() (*ComputePlanCommand, error) {
	if s.Busy() {
		s.setNotice(NoticeInfo, MsgBusy)
		return nil, shared.NewBusyError()
	}
	origin, dest, ok := s.selection.Pair()
	if !ok {
		s.setNotice(NoticeError, MsgPlanSelectionIncomplete)
		return nil, shared.NewSelectionIncompleteError(MsgPlanSelectionIncomplete)
	}

	cmd := &ComputePlanCommand{
		RequestID:   utils.GenerateRequestID("plan", string(s.mode)),
		Origin:      origin,
		Destination: dest,
		Mode:        s.mode,
		CargoType:   s.cargoType,
		CarrierID:   s.carrierID,
	}
	s.start(cmd.RequestID, callPlan, origin)
	return cmd, nil
}

// BeginRefuel is BeginPlan for the refuel operation; a concrete carrier is required
func (s *Session) BeginRefuel() (*ComputeRefuelCommand, error) {
	if s.Busy() {
		s.setNotice(NoticeInfo, MsgBusy)
		return nil, shared.NewBusyError()
	}
	origin, dest, ok := s.selection.Pair()
	if !ok {
		s.setNotice(NoticeError, MsgRefuelSelectionIncomplete)
		return nil, shared.NewSelectionIncompleteError(MsgRefuelSelectionIncomplete)
	}
	if s.carrierID == "" {
		s.setNotice(NoticeError, MsgCarrierRequired)
		return nil, shared.NewCarrierRequiredError(MsgCarrierRequired)
	}

	cmd := &ComputeRefuelCommand{
		RequestID:   utils.GenerateRequestID("refuel", string(s.mode)),
		Origin:      origin,
		Destination: dest,
		Mode:        s.mode,
		CarrierID:   s.carrierID,
	}
	s.start(cmd.RequestID, callRefuel, origin)
	return cmd, nil
}

func (s *Session) start(requestID string, kind callKind, origin shared.Coordinate) {
	s.inFlight = &inFlightCall{requestID: requestID, kind: kind, origin: origin}
	s.lastRequestID = requestID
	s.notice = nil
}

// CompletePlan stores the outcome of the call started by BeginPlan. A failed
// call leaves both result slots untouched.
func (s *Session) CompletePlan(requestID string, result *planning.PlanResult, err error) {
	call := s.finish(requestID)

	if err != nil {
		s.fail(err)
		return
	}
	s.plan = result
	s.refuel = nil
	if call != nil {
		s.viewport.Center = call.origin
	}
}

// CompleteRefuel stores the outcome of the call started by BeginRefuel. An
// infeasible result is stored like any other and raises a warning.
func (s *Session) CompleteRefuel(requestID string, result *planning.RefuelResult, err error) {
	s.finish(requestID)

	if err != nil {
		s.fail(err)
		return
	}
	s.refuel = result
	s.plan = nil
	if result.Infeasible() {
		s.setNotice(NoticeWarning, result.Error)
	}
}

// finish clears the busy flag. Completions are accepted even if the selection
// changed while the call was in flight.
func (s *Session) finish(requestID string) *inFlightCall {
	call := s.inFlight
	s.inFlight = nil
	if call == nil || call.requestID != requestID {
		return nil
	}
	return call
}

func (s *Session) fail(err error) {
	var validationErr *shared.ValidationError
	if errors.As(err, &validationErr) {
		s.setNotice(NoticeError, validationErr.Error())
		return
	}
	var carrierErr *shared.CarrierRequiredError
	if errors.As(err, &carrierErr) {
		s.setNotice(NoticeError, carrierErr.Error())
		return
	}
	s.setNotice(NoticeError, MsgTransportFailure)
}

// Snapshot copies the observable state
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:         s.selection.State(),
		Mode:          s.mode,
		CargoType:     s.cargoType,
		CarrierID:     s.carrierID,
		Carriers:      s.catalog.CarriersFor(s.mode),
		Ports:         s.catalog.Ports,
		Plan:          s.plan,
		Refuel:        s.refuel,
		Busy:          s.Busy(),
		LastRequestID: s.lastRequestID,
		Viewport:      s.viewport,
	}
	if o, ok := s.selection.Origin(); ok {
		snap.Origin = &o
	}
	if d, ok := s.selection.Destination(); ok {
		snap.Destination = &d
	}
	if s.notice != nil {
		n := *s.notice
		snap.Notice = &n
	}
	snap.Overlay = overlay.Resolve(overlay.Input{
		Ports:       snap.Ports,
		Origin:      snap.Origin,
		Destination: snap.Destination,
		Plan:        snap.Plan,
		Refuel:      snap.Refuel,
	})
	return snap
}
