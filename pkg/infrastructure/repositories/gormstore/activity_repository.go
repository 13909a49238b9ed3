package gormstore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vsinha/fleetcast/pkg/domain/entities"
	"github.com/vsinha/fleetcast/pkg/domain/repositories"
)

// GormActivityRepository implements ActivityRepository using GORM
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GORM activity repository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// Verify interface compliance
var _ repositories.ActivityRepository = (*GormActivityRepository)(nil)

// GetActivities returns the stored schedule in import order
func (r *GormActivityRepository) GetActivities(ctx context.Context) ([]*entities.RigActivity, error) {
	var models []ActivityModel
	result := r.db.WithContext(ctx).Order("sequence ASC").Order("id ASC").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list activities: %w", result.Error)
	}

	activities := make([]*entities.RigActivity, 0, len(models))
	for i := range models {
		activities = append(activities, modelToActivity(&models[i]))
	}
	return activities, nil
}

// LoadActivities appends activities after the ones already stored
func (r *GormActivityRepository) LoadActivities(ctx context.Context, activities []*entities.RigActivity) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&ActivityModel{}).Select("COALESCE(MAX(sequence), -1) + 1").Scan(&next).Error; err != nil {
			return fmt.Errorf("failed to read schedule sequence: %w", err)
		}
		return insertActivities(tx, activities, next)
	})
}

// ReplaceActivities swaps the whole stored schedule for activities
func (r *GormActivityRepository) ReplaceActivities(ctx context.Context, activities []*entities.RigActivity) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&ActivityModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear schedule: %w", err)
		}
		return insertActivities(tx, activities, 0)
	})
}

// Count returns the number of stored activities
func (r *GormActivityRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ActivityModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return count, nil
}

func insertActivities(tx *gorm.DB, activities []*entities.RigActivity, sequence int) error {
	if len(activities) == 0 {
		return nil
	}

	now := time.Now().UTC()
	models := make([]ActivityModel, 0, len(activities))
	for _, activity := range activities {
		if activity == nil {
			continue
		}
		model := activityToModel(activity)
		model.Sequence = sequence
		model.ImportedAt = now
		models = append(models, model)
		sequence++
	}

	if err := tx.CreateInBatches(models, 500).Error; err != nil {
		return fmt.Errorf("failed to save activities: %w", err)
	}
	return nil
}

func activityToModel(activity *entities.RigActivity) ActivityModel {
	return ActivityModel{
		RigName:      activity.RigName,
		Location:     string(activity.Location),
		ActivityType: string(activity.ActivityType),
		StartDate:    activity.StartDate.UTC(),
		EndDate:      activity.EndDate.UTC(),
		IsBatch:      activity.IsBatchOperation,
	}
}

func modelToActivity(model *ActivityModel) *entities.RigActivity {
	return &entities.RigActivity{
		RigName:          model.RigName,
		Location:         entities.LocationKey(model.Location),
		ActivityType:     entities.ActivityType(model.ActivityType),
		StartDate:        model.StartDate.UTC(),
		EndDate:          model.EndDate.UTC(),
		IsBatchOperation: model.IsBatch,
	}
}
