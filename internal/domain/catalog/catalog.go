package catalog

// Catalog is the port and carrier lists fetched once at session start
type Catalog struct {
	Ports    []Port
	Carriers []Carrier
}

// FindPortByName returns the first port whose name matches exactly (case-sensitive)
func (c *Catalog) FindPortByName(name string) (Port, bool) {
	if c == nil {
		return Port{}, false
	}
	for _, p := range c.Ports {
		if p.Name == name {
			return p, true
		}
	}
	return Port{}, false
}

// FindCarrier looks a carrier up by id
func (c *Catalog) FindCarrier(id string) (Carrier, bool) {
	if c == nil {
		return Carrier{}, false
	}
	for _, carrier := range c.Carriers {
		if carrier.ID == id {
			return carrier, true
		}
	}
	return Carrier{}, false
}

// CarriersFor returns the carriers selectable for mode
func (c *Catalog) CarriersFor(mode TransportMode) []Carrier {
	if c == nil {
		return nil
	}
	return FilterCarriersByMode(c.Carriers, mode)
}

// IsEmpty reports whether nothing was loaded
func (c *Catalog) IsEmpty() bool {
	return c == nil || (len(c.Ports) == 0 && len(c.Carriers) == 0)
}
