package catalog

import (
	"encoding/json"
	"sort"
)

// Carrier is a vehicle or vessel profile. The planning service flattens its
// carrier file into {id, type, ...profile}; the profile keys vary per mode
// (capacity, consumption, speed) and are kept as opaque attributes.
type Carrier struct {
	ID         string
	Type       TransportMode
	Attributes map[string]interface{}
}

func (c *Carrier) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if id, ok := raw["id"].(string); ok {
		c.ID = id
	}
	if t, ok := raw["type"].(string); ok {
		c.Type = TransportMode(t)
	}
	delete(raw, "id")
	delete(raw, "type")

	if len(raw) > 0 {
		c.Attributes = raw
	}
	return nil
}

func (c Carrier) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(c.Attributes)+2)
	for k, v := range c.Attributes {
		out[k] = v
	}
	out["id"] = c.ID
	out["type"] = string(c.Type)
	return json.Marshal(out)
}

// AttributeKeys returns the profile keys in sorted order for stable display
func (c Carrier) AttributeKeys() []string {
	keys := make([]string, 0, len(c.Attributes))
	for k := range c.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FilterCarriersByMode narrows carriers to those operating in mode, preserving order.
// An empty mode matches nothing.
func FilterCarriersByMode(carriers []Carrier, mode TransportMode) []Carrier {
	filtered := make([]Carrier, 0, len(carriers))
	for _, c := range carriers {
		if c.Type == mode {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
