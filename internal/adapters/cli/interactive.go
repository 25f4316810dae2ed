package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/cargoplanner-go/internal/adapters/render"
	"github.com/andrescamacho/cargoplanner-go/internal/application/planner"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/shared"
)

const replHelp = `Commands:
  click LAT,LON           Pick a point (first pick is origin, second is destination)
  origin LAT,LON|PORT     Use a coordinate or port as origin
  dest LAT,LON|PORT       Use a coordinate or port as destination
  clear                   Clear picks and results
  mode MODE               Select transport mode (ocean, air, road, rail)
  carrier ID|auto         Select a carrier model
  cargo TYPE              Select cargo type (general, hazardous, perishable, bulk)
  ports                   List ports
  carriers                List carriers for the current mode
  plan                    Compute a plan
  refuel                  Compute refuel stops
  show                    Show the selection and results panel
  overlay [FILE]          Print or write the map overlay as GeoJSON
  help                    Show this help
  quit                    Exit
`

// NewInteractiveCommand creates the interactive command
func NewInteractiveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"repl"},
		Short:   "Start an interactive planning session",
		Long: `Start an interactive planning session.

Picks, configuration, and results live for the whole session. Type "help"
for the list of commands.

Example:
  cargoplanner interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signal.NotifyContext(a.context(context.Background()), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			loop, err := a.startLoop(ctx, a.sessionDefaults())
			if err != nil {
				return err
			}

			r := newREPL(loop, os.Stdout, render.NewPanelFormatter(!noColor))
			snap := loop.Latest()
			fmt.Printf("Connected to %s: %d ports, %d carriers for %s\n",
				a.client.BaseURL(), len(snap.Ports), len(snap.Carriers), snap.Mode)
			fmt.Println(`Type "help" for commands.`)

			return r.run(ctx, os.Stdin)
		},
	}

	return cmd
}

// repl translates text commands into session events
type repl struct {
	loop      *planner.Loop
	out       io.Writer
	formatter *render.PanelFormatter
}

func newREPL(loop *planner.Loop, out io.Writer, formatter *render.PanelFormatter) *repl {
	return &repl{loop: loop, out: out, formatter: formatter}
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		quit, err := r.exec(ctx, scanner.Text())
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(r.out, "Error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// exec runs one command line and reports whether the session should end
func (r *repl) exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	verb := strings.ToLower(fields[0])
	arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	switch verb {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprint(r.out, replHelp)
		return false, nil
	case "show":
		fmt.Fprint(r.out, r.formatter.FormatSnapshot(r.loop.Latest()))
		return false, nil
	case "ports":
		r.printPorts(r.loop.Latest())
		return false, nil
	case "carriers":
		r.printCarriers(r.loop.Latest())
		return false, nil
	case "overlay":
		return false, r.overlay(arg)
	case "plan":
		return false, r.compute(ctx, planner.PlanRequested{})
	case "refuel":
		return false, r.compute(ctx, planner.RefuelRequested{})
	}

	ev, err := parseEvent(verb, arg)
	if err != nil {
		return false, err
	}
	snap, err := r.loop.Do(ctx, ev)
	if err != nil {
		return false, err
	}
	r.printNotice(snap)
	return false, nil
}

func parseEvent(verb, arg string) (planner.Event, error) {
	switch verb {
	case "click":
		c, err := shared.ParseCoordinate(arg)
		if err != nil {
			return nil, err
		}
		return planner.MapClicked{Coord: c}, nil
	case "origin":
		if arg == "" {
			return nil, fmt.Errorf("usage: origin LAT,LON|PORT")
		}
		if !shared.LooksLikeCoordinate(arg) {
			return planner.PortChosenAsOrigin{Name: arg}, nil
		}
		c, err := shared.ParseCoordinate(arg)
		if err != nil {
			return nil, err
		}
		return planner.CoordChosenAsOrigin{Coord: c}, nil
	case "dest", "destination":
		if arg == "" {
			return nil, fmt.Errorf("usage: dest LAT,LON|PORT")
		}
		if !shared.LooksLikeCoordinate(arg) {
			return planner.PortChosenAsDestination{Name: arg}, nil
		}
		c, err := shared.ParseCoordinate(arg)
		if err != nil {
			return nil, err
		}
		return planner.CoordChosenAsDestination{Coord: c}, nil
	case "clear":
		return planner.PicksCleared{}, nil
	case "mode":
		mode, err := catalog.ParseTransportMode(arg)
		if err != nil {
			return nil, err
		}
		return planner.ModeSelected{Mode: mode}, nil
	case "carrier":
		if strings.EqualFold(arg, "auto") {
			arg = ""
		}
		return planner.CarrierSelected{CarrierID: arg}, nil
	case "cargo":
		cargo, err := catalog.ParseCargoType(arg)
		if err != nil {
			return nil, err
		}
		return planner.CargoTypeSelected{CargoType: cargo}, nil
	}
	return nil, fmt.Errorf("unknown command %q (type \"help\")", verb)
}

// compute triggers a planning call and waits for it to settle
func (r *repl) compute(ctx context.Context, trigger planner.Event) error {
	snap, err := r.loop.Do(ctx, trigger)
	if err != nil {
		return err
	}
	if !snap.Busy {
		r.printNotice(snap)
		return nil
	}
	fmt.Fprintf(r.out, "Computing (%s)...\n", snap.LastRequestID)
	if snap, err = r.loop.AwaitIdle(ctx); err != nil {
		return err
	}
	fmt.Fprint(r.out, r.formatter.FormatSnapshot(snap))
	return nil
}

func (r *repl) overlay(path string) error {
	o := r.loop.Latest().Overlay
	if path == "" {
		data, err := render.MarshalOverlay(o)
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, string(data))
		return nil
	}
	if err := render.WriteOverlayFile(path, o); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "✓ Overlay written to %s\n", path)
	return nil
}

func (r *repl) printNotice(snap planner.Snapshot) {
	if snap.Notice != nil {
		fmt.Fprintf(r.out, "[%s] %s\n", snap.Notice.Level, snap.Notice.Message)
		return
	}
	fmt.Fprintf(r.out, "Selection: %s\n", snap.State)
}

func (r *repl) printPorts(snap planner.Snapshot) {
	if len(snap.Ports) == 0 {
		fmt.Fprintln(r.out, "No ports available")
		return
	}
	for _, p := range snap.Ports {
		fmt.Fprintf(r.out, "  %-20s %9.4f %9.4f\n", p.Name, p.Lat, p.Lon)
	}
}

func (r *repl) printCarriers(snap planner.Snapshot) {
	if len(snap.Carriers) == 0 {
		fmt.Fprintf(r.out, "No carriers available for %s\n", snap.Mode)
		return
	}
	for _, c := range snap.Carriers {
		marker := " "
		if c.ID == snap.CarrierID {
			marker = "*"
		}
		fmt.Fprintf(r.out, "%s %-16s %s\n", marker, c.ID, formatAttributes(c))
	}
}
