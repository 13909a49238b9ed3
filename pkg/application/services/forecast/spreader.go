package forecast

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/vsinha/fleetcast/pkg/domain/entities"
)

// Spreader maps rig activities onto grid months and prices each occupied
// (rig, month) pair with the rule set's multipliers
type Spreader struct {
	ruleSet *entities.BusinessRuleSet
	policy  entities.DemandPolicy
	logger  *slog.Logger
}

// NewSpreader creates a spreader for a rule set
func NewSpreader(ruleSet *entities.BusinessRuleSet, policy entities.DemandPolicy, logger *slog.Logger) *Spreader {
	if policy == "" {
		policy = ruleSet.Policy()
	}
	return &Spreader{
		ruleSet: ruleSet,
		policy:  policy,
		logger:  logger,
	}
}

// Contribution is the demand one activity adds to one month
type Contribution struct {
	Demand  float64
	Formula string
}

// cellBuilder accumulates every activity occupying one (rig, month) pair
type cellBuilder struct {
	demand   float64
	formulas []string
	primary  *entities.RigActivity
	count    int
}

// Spread computes the monthly cells for all activities over the grid. Demand from
// overlapping activities is summed; the later-starting activity (ties: later in
// input order) supplies the cell's classification.
func (s *Spreader) Spread(activities []*entities.RigActivity, grid []entities.MonthLabel) map[entities.CellKey]entities.MonthlyCell {
	builders := make(map[entities.CellKey]*cellBuilder)
	missing := make(map[string]bool)

	if len(grid) == 0 {
		return map[entities.CellKey]entities.MonthlyCell{}
	}
	first, last := grid[0], grid[len(grid)-1]

	for _, activity := range activities {
		if activity.EndMonth() < first || activity.StartMonth() > last {
			continue
		}
		s.reportLookupMisses(activity, missing)

		for _, month := range grid {
			if !activity.Occupies(month) {
				continue
			}

			contribution := s.Demand(activity, month)
			key := entities.CellKey{RigName: activity.RigName, Month: month}
			builder, exists := builders[key]
			if !exists {
				builder = &cellBuilder{}
				builders[key] = builder
			}

			builder.demand += contribution.Demand
			builder.formulas = append(builder.formulas, contribution.Formula)
			builder.count++
			if builder.primary == nil || !activity.StartDate.Before(builder.primary.StartDate) {
				builder.primary = activity
			}
		}
	}

	capability := s.ruleSet.VesselCapability()
	cells := make(map[entities.CellKey]entities.MonthlyCell, len(builders))
	for key, builder := range builders {
		formula := strings.Join(builder.formulas, " + ")
		if builder.count > 1 {
			formula = fmt.Sprintf("%s = %.2f", formula, builder.demand)
		}
		cells[key] = entities.MonthlyCell{
			RigName:          key.RigName,
			Month:            key.Month,
			Demand:           builder.demand,
			VesselsRequired:  builder.demand / capability,
			ActivityType:     builder.primary.ActivityType,
			IsBatch:          builder.primary.IsBatchOperation,
			BreakdownFormula: formula,
			Contributions:    builder.count,
		}
	}
	return cells
}

// Demand prices one activity in one month:
//
//	rig demand × activity multiplier × transit penalty × batch multiplier [× coverage]
//
// The batch multiplier only applies to drilling.
func (s *Spreader) Demand(activity *entities.RigActivity, month entities.MonthLabel) Contribution {
	location, _ := s.ruleSet.Location(activity.Location)
	profile, _ := s.ruleSet.ActivityType(activity.ActivityType)

	var formula strings.Builder
	fmt.Fprintf(&formula, "%.2f × %.2f (%s)", location.RigDemand, profile.DemandMultiplier, activity.ActivityType)

	demand := location.RigDemand * profile.DemandMultiplier

	if location.HasTransitPenalty() {
		demand *= location.TransitMultiplier()
		fmt.Fprintf(&formula, " × %.2f (transit)", location.TransitMultiplier())
	}

	if activity.IsBatchOperation && activity.ActivityType == entities.Drilling {
		if location.IsUltraDeep {
			demand *= profile.UltraDeepBatchMultiplier
			fmt.Fprintf(&formula, " × %.2f (UDW batch)", profile.UltraDeepBatchMultiplier)
		} else {
			demand *= profile.StandardBatchMultiplier
			fmt.Fprintf(&formula, " × %.2f (batch)", profile.StandardBatchMultiplier)
		}
	}

	if s.policy == entities.ProratedDemand {
		covered := activity.CoveredDays(month)
		days := month.DaysIn()
		demand *= float64(covered) / float64(days)
		fmt.Fprintf(&formula, " × %d/%d days", covered, days)
	}

	fmt.Fprintf(&formula, " = %.2f", demand)
	return Contribution{Demand: demand, Formula: formula.String()}
}

// reportLookupMisses logs each missing reference key once per run
func (s *Spreader) reportLookupMisses(activity *entities.RigActivity, seen map[string]bool) {
	if s.logger == nil {
		return
	}
	if _, ok := s.ruleSet.Location(activity.Location); !ok {
		key := "location:" + string(activity.Location)
		if !seen[key] {
			seen[key] = true
			s.logger.Warn("unknown location, using default profile",
				"location", activity.Location,
				"rule_set", s.ruleSet.Name,
				"default", s.ruleSet.DefaultLocation.Key)
		}
	}
	if _, ok := s.ruleSet.ActivityType(activity.ActivityType); !ok {
		key := "activity:" + string(activity.ActivityType)
		if !seen[key] {
			seen[key] = true
			s.logger.Warn("unknown activity type, using default multiplier",
				"activity_type", activity.ActivityType,
				"rule_set", s.ruleSet.Name)
		}
	}
}
