package memory

import (
	"context"

	"github.com/vsinha/fleetcast/pkg/domain/entities"
	"github.com/vsinha/fleetcast/pkg/domain/repositories"
)

// ActivityRepository provides in-memory rig schedule storage
type ActivityRepository struct {
	activities []entities.RigActivity
}

// NewActivityRepository creates a new in-memory activity repository
func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{
		activities: []entities.RigActivity{},
	}
}

// Verify interface compliance
var _ repositories.ActivityRepository = (*ActivityRepository)(nil)

// LoadActivities appends activities to the repository in input order
func (r *ActivityRepository) LoadActivities(ctx context.Context, activities []*entities.RigActivity) error {
	for _, activity := range activities {
		if activity == nil {
			continue
		}
		r.activities = append(r.activities, *activity)
	}
	return nil
}

// GetActivities returns copies of all stored activities
func (r *ActivityRepository) GetActivities(ctx context.Context) ([]*entities.RigActivity, error) {
	activities := make([]*entities.RigActivity, 0, len(r.activities))
	for i := range r.activities {
		activity := r.activities[i]
		activities = append(activities, &activity)
	}
	return activities, nil
}

// Clear removes all activities
func (r *ActivityRepository) Clear() {
	r.activities = r.activities[:0]
}
