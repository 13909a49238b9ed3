package forecast

import (
	"math"
	"sort"

	"github.com/vsinha/fleetcast/pkg/application/dto"
	"github.com/vsinha/fleetcast/pkg/domain/entities"
)

// Aggregator turns per-cell demand into monthly vessel requirements and splits
// them between the internal fleet and external sourcing
type Aggregator struct {
	ruleSet *entities.BusinessRuleSet
}

// NewAggregator creates an aggregator for a rule set
func NewAggregator(ruleSet *entities.BusinessRuleSet) *Aggregator {
	return &Aggregator{ruleSet: ruleSet}
}

// SplitFleet covers as much of required as the internal fleet allows; the rest is
// externally sourced. Every total in the system is split through this function.
func SplitFleet(required, internalFleetSize float64) (internal, external float64) {
	internal = math.Min(required, internalFleetSize)
	external = math.Max(0, required-internalFleetSize)
	return internal, external
}

// Aggregate builds the tabular forecast. Fractional vessel counts are kept;
// rounding is left to presentation.
func (a *Aggregator) Aggregate(grid []entities.MonthLabel, cells map[entities.CellKey]entities.MonthlyCell) *dto.TabularForecast {
	capability := a.ruleSet.VesselCapability()
	internalSize := a.ruleSet.Fleet.TotalInternalFleetSize()

	forecast := &dto.TabularForecast{
		MonthlyColumns:  append([]entities.MonthLabel(nil), grid...),
		Totals:          dto.NewFleetTotals(len(grid)),
		TotalDemand:     make(map[entities.MonthLabel]float64, len(grid)),
		VesselsRequired: make(map[entities.MonthLabel]float64, len(grid)),
		InternalFleet:   internalSize,
		Capability:      capability,
		Cells:           make(map[entities.CellKey]entities.MonthlyCell, len(cells)),
	}

	// Sum in a fixed order so repeated runs produce bit-identical totals
	keys := make([]entities.CellKey, 0, len(cells))
	for key := range cells {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].RigName != keys[j].RigName {
			return keys[i].RigName < keys[j].RigName
		}
		return keys[i].Month < keys[j].Month
	})

	rows := make(map[string]*dto.RigDemand)
	for _, key := range keys {
		cell := cells[key]
		forecast.Cells[key] = cell
		forecast.TotalDemand[key.Month] += cell.Demand

		row, exists := rows[key.RigName]
		if !exists {
			row = newRigDemand(key.RigName, grid)
			rows[key.RigName] = row
		}
		row.MonthlyVessels[key.Month] = cell.VesselsRequired
		row.PrimaryActivityTypes[key.Month] = cell.ActivityType
	}

	for _, month := range grid {
		demand := forecast.TotalDemand[month]
		forecast.TotalDemand[month] = demand
		required := demand / capability
		forecast.VesselsRequired[month] = required
		internal, external := SplitFleet(required, internalSize)
		forecast.Totals.InternalFleet[month] = internal
		forecast.Totals.ExternallySourced[month] = external
	}

	names := make([]string, 0, len(rows))
	for name := range rows {
		names = append(names, name)
	}
	sort.Strings(names)
	forecast.RigDemands = make([]dto.RigDemand, 0, len(names))
	for _, name := range names {
		forecast.RigDemands = append(forecast.RigDemands, *rows[name])
	}

	return forecast
}

func newRigDemand(rigName string, grid []entities.MonthLabel) *dto.RigDemand {
	row := &dto.RigDemand{
		RigName:              rigName,
		MonthlyVessels:       make(map[entities.MonthLabel]float64, len(grid)),
		PrimaryActivityTypes: make(map[entities.MonthLabel]entities.ActivityType),
	}
	for _, month := range grid {
		row.MonthlyVessels[month] = 0
	}
	return row
}
