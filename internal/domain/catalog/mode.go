package catalog

import (
	"fmt"
	"strings"
)

// TransportMode is the medium a carrier operates in
type TransportMode string

const (
	ModeOcean TransportMode = "ocean"
	ModeAir   TransportMode = "air"
	ModeRoad  TransportMode = "road"
	ModeRail  TransportMode = "rail"
)

// DefaultMode is selected when a session starts
const DefaultMode = ModeOcean

// Modes lists every supported transport mode in selector order
func Modes() []TransportMode {
	return []TransportMode{ModeOcean, ModeAir, ModeRoad, ModeRail}
}

// ParseTransportMode converts user input into a TransportMode
func ParseTransportMode(s string) (TransportMode, error) {
	mode := TransportMode(strings.ToLower(strings.TrimSpace(s)))
	for _, m := range Modes() {
		if m == mode {
			return mode, nil
		}
	}
	return "", fmt.Errorf("invalid transport mode %q: must be one of ocean, air, road, rail", s)
}

func (m TransportMode) String() string {
	return string(m)
}

// CargoType classifies the goods being shipped
type CargoType string

const (
	CargoGeneral    CargoType = "general"
	CargoHazardous  CargoType = "hazardous"
	CargoPerishable CargoType = "perishable"
	CargoBulk       CargoType = "bulk"
)

const DefaultCargoType = CargoGeneral

func CargoTypes() []CargoType {
	return []CargoType{CargoGeneral, CargoHazardous, CargoPerishable, CargoBulk}
}

func ParseCargoType(s string) (CargoType, error) {
	cargo := CargoType(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range CargoTypes() {
		if c == cargo {
			return cargo, nil
		}
	}
	return "", fmt.Errorf("invalid cargo type %q: must be one of general, hazardous, perishable, bulk", s)
}
