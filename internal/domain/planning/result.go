package planning

import "github.com/andrescamacho/cargoplanner-go/internal/domain/shared"

// FuelStop is one bunkering action in a multi-leg plan
type FuelStop struct {
	Port              string  `json:"port"`
	AmountTonsOrLiter float64 `json:"amount_tons_or_liters"`
	PricePerUnitUSD   float64 `json:"price_per_unit_usd"`
	CostUSD           float64 `json:"cost_usd"`
}

// LegDetail is one coordinate-to-coordinate segment of a planned route
type LegDetail struct {
	FromCoord   shared.Coordinate `json:"from_coord"`
	ToCoord     shared.Coordinate `json:"to_coord"`
	Mode        string            `json:"mode,omitempty"`
	DistanceKM  float64           `json:"distance_km,omitempty"`
	DistanceNM  float64           `json:"distance_nm,omitempty"`
	TimeHours   float64           `json:"time_hours,omitempty"`
	FuelNeeded  float64           `json:"fuel_needed,omitempty"`
	FuelUnit    string            `json:"fuel_unit,omitempty"`
	PortFeesUSD float64           `json:"port_fees_usd,omitempty"`
}

// PlanResult is the POST /plan response
type PlanResult struct {
	RouteID         string      `json:"route_id"`
	TotalDistanceKM float64     `json:"total_distance_km"`
	TotalDistanceNM float64     `json:"total_distance_nm,omitempty"`
	TotalTimeHours  float64     `json:"total_time_hours,omitempty"`
	TotalFuel       float64     `json:"total_fuel"`
	TotalFuelUnit   string      `json:"total_fuel_unit"`
	TotalCostUSD    float64     `json:"total_cost_usd"`
	FuelPlan        []FuelStop  `json:"fuel_plan"`
	Stops           int         `json:"stops,omitempty"`
	RiskScore       float64     `json:"risk_score,omitempty"`
	Paperwork       []string    `json:"paperwork,omitempty"`
	LegDetails      []LegDetail `json:"leg_details"`
}

// RefuelStop addresses its location by node name, not by coordinate
type RefuelStop struct {
	Node         string  `json:"node"`
	NodeID       *int    `json:"node_id,omitempty"`
	AddedAmount  float64 `json:"added_amount"`
	PricePerUnit float64 `json:"price_per_unit"`
	Cost         float64 `json:"cost"`
	StopFee      float64 `json:"stop_fee,omitempty"`
}

// LegSummary is one hop of the optimizer's path, between named nodes
type LegSummary struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	DistanceNM float64 `json:"distance_nm"`
	TimeHours  float64 `json:"time_hours"`
	FuelUsed   float64 `json:"fuel_used"`
}

// RefuelResult is the POST /refuel-plan response. Error is set by the service
// when no feasible plan exists; the call itself still succeeded.
type RefuelResult struct {
	TotalCost       float64      `json:"total_cost"`
	FuelPlan        []RefuelStop `json:"fuel_plan"`
	Legs            []LegSummary `json:"legs"`
	PathNodes       []string     `json:"path_nodes,omitempty"`
	FinalFuelAmount float64      `json:"final_fuel_amount,omitempty"`
	Error           string       `json:"error,omitempty"`
}

// Infeasible reports a service-side domain failure
func (r *RefuelResult) Infeasible() bool {
	return r != nil && r.Error != ""
}
