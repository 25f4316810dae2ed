package shared

import (
	"fmt"
	"strconv"
	"strings"
)

// Coordinate is an immutable geographic point in decimal degrees
type Coordinate struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// NewCoordinate creates a coordinate, rejecting values outside [-90,90] x [-180,180]
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	if lat < -90 || lat > 90 {
		return Coordinate{}, NewValidationError("lat", fmt.Sprintf("must be within [-90, 90], got %v", lat))
	}
	if lon < -180 || lon > 180 {
		return Coordinate{}, NewValidationError("lon", fmt.Sprintf("must be within [-180, 180], got %v", lon))
	}
	return Coordinate{Lat: lat, Lon: lon}, nil
}

// ParseCoordinate parses "lat,lon"
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coordinate{}, NewValidationError("coordinate", fmt.Sprintf("expected LAT,LON, got %q", s))
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinate{}, NewValidationError("lat", fmt.Sprintf("not a number: %q", parts[0]))
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinate{}, NewValidationError("lon", fmt.Sprintf("not a number: %q", parts[1]))
	}

	return NewCoordinate(lat, lon)
}

// LooksLikeCoordinate reports whether s has the LAT,LON number shape,
// whether or not the values are in range
func LooksLikeCoordinate(s string) bool {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return false
	}
	for _, p := range parts {
		if _, err := strconv.ParseFloat(strings.TrimSpace(p), 64); err != nil {
			return false
		}
	}
	return true
}

// String renders the coordinate with four decimals, as shown in the selection panel
func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lon)
}
