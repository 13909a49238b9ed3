package testing

import (
	"context"
	"time"

	"github.com/vsinha/fleetcast/pkg/domain/entities"
	"github.com/vsinha/fleetcast/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/fleetcast/pkg/infrastructure/rules"
)

// Date returns midnight UTC on the given day
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// MustParseDate parses a YYYY-MM-DD date and panics on error
func MustParseDate(s string) time.Time {
	t, err := time.Parse(entities.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// MustCreateActivity is a helper for tests - panics on validation error
func MustCreateActivity(
	rigName string,
	location entities.LocationKey,
	activityType entities.ActivityType,
	startDate, endDate string,
	isBatch bool,
) *entities.RigActivity {
	activity, err := entities.NewRigActivity(
		rigName,
		location,
		activityType,
		MustParseDate(startDate),
		MustParseDate(endDate),
		isBatch,
	)
	if err != nil {
		panic(err)
	}
	return activity
}

// ActivityBuilder builds a RigActivity with sensible defaults
type ActivityBuilder struct {
	activity entities.RigActivity
}

// NewActivity starts a Drilling activity at Walker Ridge for January 2025
func NewActivity(rigName string) *ActivityBuilder {
	return &ActivityBuilder{
		activity: entities.RigActivity{
			RigName:      rigName,
			Location:     "WR",
			ActivityType: entities.Drilling,
			StartDate:    Date(2025, time.January, 1),
			EndDate:      Date(2025, time.January, 31),
		},
	}
}

func (b *ActivityBuilder) At(location entities.LocationKey) *ActivityBuilder {
	b.activity.Location = location
	return b
}

func (b *ActivityBuilder) Type(activityType entities.ActivityType) *ActivityBuilder {
	b.activity.ActivityType = activityType
	return b
}

func (b *ActivityBuilder) Between(startDate, endDate string) *ActivityBuilder {
	b.activity.StartDate = MustParseDate(startDate)
	b.activity.EndDate = MustParseDate(endDate)
	return b
}

func (b *ActivityBuilder) Batch() *ActivityBuilder {
	b.activity.IsBatchOperation = true
	return b
}

func (b *ActivityBuilder) Build() *entities.RigActivity {
	activity := b.activity
	return &activity
}

// BuildDeepwaterScenario builds a small Gulf of Mexico schedule for Q1 2025:
// a batch drilling campaign at Walker Ridge, a completion at Green Canyon and a
// maintenance stop at Mississippi Canyon.
func BuildDeepwaterScenario() []*entities.RigActivity {
	return []*entities.RigActivity{
		MustCreateActivity("Deepwater Poseidon", "WR", entities.Drilling, "2025-01-01", "2025-02-28", true),
		MustCreateActivity("Deepwater Conqueror", "GC", entities.Completion, "2025-01-15", "2025-03-10", false),
		MustCreateActivity("Valaris DS-16", "MC", entities.RigMaintenance, "2025-02-01", "2025-02-14", false),
		MustCreateActivity("Valaris DS-16", "MC", entities.Drilling, "2025-02-15", "2025-03-31", false),
	}
}

// BuildDeepwaterRepository loads the deepwater scenario into an in-memory repository
func BuildDeepwaterRepository() *memory.ActivityRepository {
	repo := memory.NewActivityRepository()
	if err := repo.LoadActivities(context.Background(), BuildDeepwaterScenario()); err != nil {
		panic(err)
	}
	return repo
}

// BaselineRules returns a fresh copy of the baseline rule set
func BaselineRules() *entities.BusinessRuleSet {
	return rules.Baseline()
}
