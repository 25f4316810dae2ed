package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/ports"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/shared"
)

// GormCatalogCache implements ports.CatalogCache using GORM
type GormCatalogCache struct {
	db    *gorm.DB
	clock shared.Clock
}

var _ ports.CatalogCache = (*GormCatalogCache)(nil)

// NewGormCatalogCache creates a new GORM catalog cache
func NewGormCatalogCache(db *gorm.DB, clock shared.Clock) *GormCatalogCache {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormCatalogCache{db: db, clock: clock}
}

// SaveCatalog replaces the cached snapshot in one transaction
func (r *GormCatalogCache) SaveCatalog(ctx context.Context, c *catalog.Catalog) error {
	if c == nil {
		return fmt.Errorf("catalog cannot be nil")
	}
	now := r.clock.Now()

	portModels := make([]PortModel, 0, len(c.Ports))
	for i, p := range c.Ports {
		portModels = append(portModels, PortModel{
			ID:          p.ID,
			Name:        p.Name,
			Lat:         p.Lat,
			Lon:         p.Lon,
			BunkerPrice: p.BunkerPrice,
			PortFee:     p.PortFee,
			Position:    i,
			CachedAt:    now,
		})
	}

	carrierModels := make([]CarrierModel, 0, len(c.Carriers))
	for i, carrier := range c.Carriers {
		attrs := "{}"
		if len(carrier.Attributes) > 0 {
			data, err := json.Marshal(carrier.Attributes)
			if err != nil {
				return fmt.Errorf("failed to marshal attributes for carrier %s: %w", carrier.ID, err)
			}
			attrs = string(data)
		}
		carrierModels = append(carrierModels, CarrierModel{
			ID:         carrier.ID,
			Type:       string(carrier.Type),
			Attributes: attrs,
			Position:   i,
			CachedAt:   now,
		})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&PortModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear cached ports: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&CarrierModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear cached carriers: %w", err)
		}
		if len(portModels) > 0 {
			if err := tx.Create(&portModels).Error; err != nil {
				return fmt.Errorf("failed to cache ports: %w", err)
			}
		}
		if len(carrierModels) > 0 {
			if err := tx.Create(&carrierModels).Error; err != nil {
				return fmt.Errorf("failed to cache carriers: %w", err)
			}
		}
		return nil
	})
}

// LoadCatalog returns the cached snapshot in service order. An empty cache
// yields an empty catalog, not an error.
func (r *GormCatalogCache) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	var portModels []PortModel
	if err := r.db.WithContext(ctx).Order("position").Find(&portModels).Error; err != nil {
		return nil, fmt.Errorf("failed to load cached ports: %w", err)
	}

	var carrierModels []CarrierModel
	if err := r.db.WithContext(ctx).Order("position").Find(&carrierModels).Error; err != nil {
		return nil, fmt.Errorf("failed to load cached carriers: %w", err)
	}

	result := &catalog.Catalog{
		Ports:    make([]catalog.Port, 0, len(portModels)),
		Carriers: make([]catalog.Carrier, 0, len(carrierModels)),
	}
	for _, m := range portModels {
		result.Ports = append(result.Ports, catalog.Port{
			ID:          m.ID,
			Name:        m.Name,
			Lat:         m.Lat,
			Lon:         m.Lon,
			BunkerPrice: m.BunkerPrice,
			PortFee:     m.PortFee,
		})
	}
	for _, m := range carrierModels {
		carrier := catalog.Carrier{ID: m.ID, Type: catalog.TransportMode(m.Type)}
		if m.Attributes != "" && m.Attributes != "{}" {
			if err := json.Unmarshal([]byte(m.Attributes), &carrier.Attributes); err != nil {
				return nil, fmt.Errorf("failed to unmarshal attributes for carrier %s: %w", m.ID, err)
			}
		}
		result.Carriers = append(result.Carriers, carrier)
	}

	return result, nil
}
