package render

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/andrescamacho/cargoplanner-go/internal/domain/overlay"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/shared"
)

// ToFeatureCollection converts an overlay into GeoJSON. Markers become Point
// features and polylines LineString features; GeoJSON positions are [lon, lat].
func ToFeatureCollection(o overlay.Overlay) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, m := range o.Markers {
		f := geojson.NewFeature(toPoint(m.Position))
		f.Properties["kind"] = string(m.Kind)
		f.Properties["label"] = m.Label
		if m.Detail != "" {
			f.Properties["detail"] = m.Detail
		}
		fc.Append(f)
	}

	for _, line := range o.Polylines {
		ls := make(orb.LineString, 0, len(line.Points))
		for _, p := range line.Points {
			ls = append(ls, toPoint(p))
		}
		f := geojson.NewFeature(ls)
		f.Properties["kind"] = "leg"
		f.Properties["leg_index"] = line.LegIndex
		fc.Append(f)
	}

	return fc
}

// MarshalOverlay renders an overlay as GeoJSON bytes
func MarshalOverlay(o overlay.Overlay) ([]byte, error) {
	data, err := ToFeatureCollection(o).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal overlay: %w", err)
	}
	return data, nil
}

// WriteOverlayFile writes the overlay's GeoJSON to path
func WriteOverlayFile(path string, o overlay.Overlay) error {
	data, err := MarshalOverlay(o)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func toPoint(c shared.Coordinate) orb.Point {
	return orb.Point{c.Lon, c.Lat}
}
