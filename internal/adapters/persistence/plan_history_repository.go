package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/ports"
)

// GormPlanHistoryRepository implements ports.PlanHistory using GORM
type GormPlanHistoryRepository struct {
	db *gorm.DB
}

var _ ports.PlanHistory = (*GormPlanHistoryRepository)(nil)

// NewGormPlanHistoryRepository creates a new GORM plan history repository
func NewGormPlanHistoryRepository(db *gorm.DB) *GormPlanHistoryRepository {
	return &GormPlanHistoryRepository{db: db}
}

// Record appends a planning outcome
func (r *GormPlanHistoryRepository) Record(ctx context.Context, record *ports.PlanRecord) error {
	if record == nil {
		return fmt.Errorf("record cannot be nil")
	}
	if record.ID == "" {
		return fmt.Errorf("record id is required")
	}

	model := recordToModel(record)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to record plan: %w", err)
	}
	return nil
}

// ListRecent returns up to limit records, newest first
func (r *GormPlanHistoryRepository) ListRecent(ctx context.Context, limit int) ([]*ports.PlanRecord, error) {
	var models []PlanRecordModel
	query := r.db.WithContext(ctx).Order("recorded_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list plan history: %w", err)
	}

	records := make([]*ports.PlanRecord, 0, len(models))
	for i := range models {
		records = append(records, modelToRecord(&models[i]))
	}
	return records, nil
}

// FindByRequestID returns the record written for a request
func (r *GormPlanHistoryRepository) FindByRequestID(ctx context.Context, requestID string) (*ports.PlanRecord, error) {
	var model PlanRecordModel
	result := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("plan record not found: %s", requestID)
		}
		return nil, fmt.Errorf("failed to find plan record: %w", result.Error)
	}
	return modelToRecord(&model), nil
}

func recordToModel(record *ports.PlanRecord) *PlanRecordModel {
	return &PlanRecordModel{
		ID:         record.ID,
		RequestID:  record.RequestID,
		Kind:       string(record.Kind),
		Mode:       string(record.Mode),
		CarrierID:  record.CarrierID,
		OriginLat:  record.OriginLat,
		OriginLon:  record.OriginLon,
		DestLat:    record.DestLat,
		DestLon:    record.DestLon,
		TotalCost:  record.TotalCost,
		Infeasible: record.Infeasible,
		Payload:    string(record.Payload),
		RecordedAt: record.RecordedAt,
	}
}

func modelToRecord(model *PlanRecordModel) *ports.PlanRecord {
	return &ports.PlanRecord{
		ID:         model.ID,
		RequestID:  model.RequestID,
		Kind:       ports.PlanKind(model.Kind),
		Mode:       catalog.TransportMode(model.Mode),
		CarrierID:  model.CarrierID,
		OriginLat:  model.OriginLat,
		OriginLon:  model.OriginLon,
		DestLat:    model.DestLat,
		DestLon:    model.DestLon,
		TotalCost:  model.TotalCost,
		Infeasible: model.Infeasible,
		Payload:    []byte(model.Payload),
		RecordedAt: model.RecordedAt,
	}
}
