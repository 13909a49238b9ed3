package repositories

import (
	"context"

	"github.com/vsinha/fleetcast/pkg/domain/entities"
)

// ActivityRepository provides access to the rig activity schedule
type ActivityRepository interface {
	GetActivities(ctx context.Context) ([]*entities.RigActivity, error)
	LoadActivities(ctx context.Context, activities []*entities.RigActivity) error
}
