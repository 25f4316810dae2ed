package persistence

import (
	"time"
)

// PortModel represents the cached_ports table
type PortModel struct {
	ID          int       `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name;not null;index"`
	Lat         float64   `gorm:"column:lat;not null"`
	Lon         float64   `gorm:"column:lon;not null"`
	BunkerPrice float64   `gorm:"column:bunker_price;not null;default:0"`
	PortFee     *float64  `gorm:"column:port_fee"`
	Position    int       `gorm:"column:position;not null"` // service order, first port centers the map
	CachedAt    time.Time `gorm:"column:cached_at;not null"`
}

func (PortModel) TableName() string {
	return "cached_ports"
}

// CarrierModel represents the cached_carriers table
type CarrierModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	Type       string    `gorm:"column:type;not null;index"`
	Attributes string    `gorm:"column:attributes;type:text"` // JSON object as text
	Position   int       `gorm:"column:position;not null"`
	CachedAt   time.Time `gorm:"column:cached_at;not null"`
}

func (CarrierModel) TableName() string {
	return "cached_carriers"
}

// PlanRecordModel represents the plan_history table
type PlanRecordModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	RequestID  string    `gorm:"column:request_id;not null;index"`
	Kind       string    `gorm:"column:kind;not null"`
	Mode       string    `gorm:"column:mode;not null"`
	CarrierID  string    `gorm:"column:carrier_id"`
	OriginLat  float64   `gorm:"column:origin_lat;not null"`
	OriginLon  float64   `gorm:"column:origin_lon;not null"`
	DestLat    float64   `gorm:"column:dest_lat;not null"`
	DestLon    float64   `gorm:"column:dest_lon;not null"`
	TotalCost  float64   `gorm:"column:total_cost"`
	Infeasible string    `gorm:"column:infeasible"`
	Payload    string    `gorm:"column:payload;type:text"` // raw service response
	RecordedAt time.Time `gorm:"column:recorded_at;not null;index"`
}

func (PlanRecordModel) TableName() string {
	return "plan_history"
}
