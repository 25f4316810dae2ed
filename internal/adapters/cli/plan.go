package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/cargoplanner-go/internal/adapters/render"
	"github.com/andrescamacho/cargoplanner-go/internal/application/planner"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/shared"
)

// planFlags are shared by the plan and refuel commands
type planFlags struct {
	origin     string
	originPort string
	dest       string
	destPort   string
	mode       string
	cargo      string
	carrier    string
	geojson    string
}

func (f *planFlags) register(cmd *cobra.Command, withCargo bool) {
	cmd.Flags().StringVar(&f.origin, "origin", "", "Origin coordinate as LAT,LON")
	cmd.Flags().StringVar(&f.originPort, "origin-port", "", "Origin port name")
	cmd.Flags().StringVar(&f.dest, "dest", "", "Destination coordinate as LAT,LON")
	cmd.Flags().StringVar(&f.destPort, "dest-port", "", "Destination port name")
	cmd.Flags().StringVar(&f.mode, "mode", "", "Transport mode (ocean, air, road, rail)")
	cmd.Flags().StringVar(&f.carrier, "carrier", "", "Carrier model id")
	cmd.Flags().StringVar(&f.geojson, "geojson", "", "Write the map overlay as GeoJSON to this file")
	if withCargo {
		cmd.Flags().StringVar(&f.cargo, "cargo", "", "Cargo type (general, hazardous, perishable, bulk)")
	}
	cmd.MarkFlagsMutuallyExclusive("origin", "origin-port")
	cmd.MarkFlagsMutuallyExclusive("dest", "dest-port")
}

// selectionEvents turns the endpoint flags into session events, origin first
func (f *planFlags) selectionEvents() ([]planner.Event, error) {
	var events []planner.Event

	switch {
	case f.originPort != "":
		events = append(events, planner.PortChosenAsOrigin{Name: f.originPort})
	case f.origin != "":
		c, err := shared.ParseCoordinate(f.origin)
		if err != nil {
			return nil, fmt.Errorf("invalid --origin: %w", err)
		}
		events = append(events, planner.CoordChosenAsOrigin{Coord: c})
	}

	switch {
	case f.destPort != "":
		events = append(events, planner.PortChosenAsDestination{Name: f.destPort})
	case f.dest != "":
		c, err := shared.ParseCoordinate(f.dest)
		if err != nil {
			return nil, fmt.Errorf("invalid --dest: %w", err)
		}
		events = append(events, planner.CoordChosenAsDestination{Coord: c})
	}

	if f.carrier != "" {
		events = append(events, planner.CarrierSelected{CarrierID: f.carrier})
	}
	return events, nil
}

// NewPlanCommand creates the plan command
func NewPlanCommand() *cobra.Command {
	flags := &planFlags{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute a multi-leg cargo plan",
		Long: `Compute the cheapest multi-leg plan between an origin and a destination.

Endpoints are given either as coordinates or as port names. Without --carrier
the planning service picks a carrier for the mode.

Examples:
  cargoplanner plan --origin-port Rotterdam --dest-port Singapore
  cargoplanner plan --origin 51.9,4.5 --dest 40.7,-74.0 --mode air --cargo perishable
  cargoplanner plan --origin-port Rotterdam --dest-port Singapore --geojson route.geojson`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlanning(flags, planner.PlanRequested{})
		},
	}

	flags.register(cmd, true)

	return cmd
}

// NewRefuelCommand creates the refuel command
func NewRefuelCommand() *cobra.Command {
	flags := &planFlags{}

	cmd := &cobra.Command{
		Use:   "refuel",
		Short: "Compute optimal refuel stops for a carrier",
		Long: `Compute where a specific carrier should refuel between origin and destination.

A carrier model is required. An infeasible route is reported as a warning.

Examples:
  cargoplanner refuel --origin-port Rotterdam --dest-port Singapore --carrier feeder_1000
  cargoplanner refuel --origin 51.9,4.5 --dest 1.26,103.84 --mode ocean --carrier feeder_1000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlanning(flags, planner.RefuelRequested{})
		},
	}

	flags.register(cmd, false)

	return cmd
}

// runPlanning drives a session through the loop exactly as the interactive
// client does, then prints the results panel
func runPlanning(flags *planFlags, trigger planner.Event) error {
	mode, err := parseModeFlag(flags.mode)
	if err != nil {
		return err
	}
	cargo, err := parseCargoFlag(flags.cargo)
	if err != nil {
		return err
	}
	events, err := flags.selectionEvents()
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signal.NotifyContext(a.context(context.Background()), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Mode goes through the session so a default carrier of another mode is dropped
	var config []planner.Event
	if mode != "" {
		config = append(config, planner.ModeSelected{Mode: mode})
	}
	if cargo != "" {
		config = append(config, planner.CargoTypeSelected{CargoType: cargo})
	}

	loop, err := a.startLoop(ctx, a.sessionDefaults())
	if err != nil {
		return err
	}

	for _, ev := range append(config, events...) {
		snap, err := loop.Do(ctx, ev)
		if err != nil {
			return err
		}
		if snap.Notice != nil && snap.Notice.Level == planner.NoticeError {
			return errors.New(snap.Notice.Message)
		}
	}

	snap, err := loop.Do(ctx, trigger)
	if err != nil {
		return err
	}
	if snap.Busy {
		if snap, err = loop.AwaitIdle(ctx); err != nil {
			return err
		}
	}

	formatter := render.NewPanelFormatter(!noColor)
	fmt.Print(formatter.FormatSnapshot(snap))

	if flags.geojson != "" {
		if err := render.WriteOverlayFile(flags.geojson, snap.Overlay); err != nil {
			return err
		}
		fmt.Printf("✓ Overlay written to %s\n", flags.geojson)
	}

	if snap.Notice != nil && snap.Notice.Level == planner.NoticeError {
		return errors.New(snap.Notice.Message)
	}
	return nil
}
