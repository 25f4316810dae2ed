package render

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/cargoplanner-go/internal/application/planner"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/planning"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/shared"
	"github.com/andrescamacho/cargoplanner-go/pkg/utils"
)

const (
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

// PanelFormatter renders the selection and results side panel as text
type PanelFormatter struct {
	useColors bool
}

// NewPanelFormatter creates a formatter; colors are ANSI escapes
func NewPanelFormatter(useColors bool) *PanelFormatter {
	return &PanelFormatter{useColors: useColors}
}

// FormatSnapshot renders selection, configuration, notice, and the active result
func (f *PanelFormatter) FormatSnapshot(s planner.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Mode:        %s\n", s.Mode)
	fmt.Fprintf(&b, "Carrier:     %s\n", s.CarrierLabel())
	fmt.Fprintf(&b, "Cargo type:  %s\n", s.CargoType)
	fmt.Fprintf(&b, "Origin:      %s\n", endpoint(s.Origin))
	fmt.Fprintf(&b, "Destination: %s\n", endpoint(s.Destination))
	fmt.Fprintf(&b, "Selection:   %s\n", s.State)
	if s.Busy {
		b.WriteString("Status:      computing...\n")
	}

	if s.Notice != nil {
		b.WriteString(f.notice(s.Notice))
	}

	switch {
	case s.Plan != nil:
		b.WriteString("\n")
		b.WriteString(f.FormatPlan(s.Plan))
	case s.Refuel != nil:
		b.WriteString("\n")
		b.WriteString(f.FormatRefuel(s.Refuel))
	}

	return b.String()
}

// FormatPlan renders the plan summary and its fuel plan
func (f *PanelFormatter) FormatPlan(p *planning.PlanResult) string {
	var b strings.Builder

	b.WriteString("Plan Summary\n")
	fmt.Fprintf(&b, "  Route ID:            %s\n", p.RouteID)
	fmt.Fprintf(&b, "  Total distance (km): %g\n", p.TotalDistanceKM)
	if p.TotalTimeHours > 0 {
		fmt.Fprintf(&b, "  Total time (h):      %g\n", p.TotalTimeHours)
	}
	fmt.Fprintf(&b, "  Total cost (USD):    %g\n", p.TotalCostUSD)
	fmt.Fprintf(&b, "  Total fuel:          %g %s\n", p.TotalFuel, p.TotalFuelUnit)
	if p.RiskScore > 0 {
		fmt.Fprintf(&b, "  Risk score:          %g\n", p.RiskScore)
	}
	if len(p.Paperwork) > 0 {
		fmt.Fprintf(&b, "  Paperwork:           %s\n", strings.Join(p.Paperwork, ", "))
	}

	b.WriteString("Fuel Plan\n")
	if len(p.FuelPlan) == 0 {
		b.WriteString("  (none)\n")
	}
	for i, s := range p.FuelPlan {
		fmt.Fprintf(&b, "%s%s — %g @ $%g/unit ($%g)\n",
			branch(i, len(p.FuelPlan)), s.Port, s.AmountTonsOrLiter, s.PricePerUnitUSD, s.CostUSD)
	}

	fmt.Fprintf(&b, "Legs (%d)\n", len(p.LegDetails))
	for i, leg := range p.LegDetails {
		line := fmt.Sprintf("%s%s → %s", branch(i, len(p.LegDetails)), leg.FromCoord, leg.ToCoord)
		if leg.Mode != "" {
			line += " [" + leg.Mode + "]"
		}
		if leg.DistanceKM > 0 {
			line += fmt.Sprintf(" %g km", leg.DistanceKM)
		}
		b.WriteString(line + "\n")
	}

	return b.String()
}

// FormatRefuel renders the optimizer result, or its warning when infeasible
func (f *PanelFormatter) FormatRefuel(r *planning.RefuelResult) string {
	var b strings.Builder

	b.WriteString("Refuel Optimizer Result\n")
	if r.Infeasible() {
		b.WriteString("  " + f.color(colorRed, r.Error) + "\n")
		return b.String()
	}

	fmt.Fprintf(&b, "  Total cost: $%g\n", r.TotalCost)
	added := make([]float64, 0, len(r.FuelPlan))
	for _, s := range r.FuelPlan {
		added = append(added, s.AddedAmount)
	}
	fmt.Fprintf(&b, "  Fuel added: %g over %d stops\n", utils.Round(utils.Sum(added), 2), len(r.FuelPlan))

	b.WriteString("Fuel actions\n")
	if len(r.FuelPlan) == 0 {
		b.WriteString("  (none)\n")
	}
	for i, s := range r.FuelPlan {
		fmt.Fprintf(&b, "%s%s — +%g @ $%g (cost $%g)\n",
			branch(i, len(r.FuelPlan)), s.Node, s.AddedAmount, s.PricePerUnit, s.Cost)
	}

	b.WriteString("Legs\n")
	for i, l := range r.Legs {
		fmt.Fprintf(&b, "%s%s → %s — %g nm — %g units\n",
			branch(i, len(r.Legs)), l.From, l.To, l.DistanceNM, l.FuelUsed)
	}

	return b.String()
}

func (f *PanelFormatter) notice(n *planner.Notice) string {
	switch n.Level {
	case planner.NoticeError:
		return f.color(colorRed, "! "+n.Message) + "\n"
	case planner.NoticeWarning:
		return f.color(colorYellow, "⚠ "+n.Message) + "\n"
	default:
		return "  " + n.Message + "\n"
	}
}

func (f *PanelFormatter) color(code, text string) string {
	if !f.useColors {
		return text
	}
	return code + text + colorReset
}

func endpoint(c *shared.Coordinate) string {
	if c == nil {
		return "click map or choose port"
	}
	return c.String()
}

func branch(i, n int) string {
	if i == n-1 {
		return "  └── "
	}
	return "  ├── "
}
