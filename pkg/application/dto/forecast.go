package dto

import (
	"sort"

	"github.com/vsinha/fleetcast/pkg/domain/entities"
)

// RigDemand is one row of the forecast table
type RigDemand struct {
	RigName              string                                        `json:"rig_name"`
	MonthlyVessels       map[entities.MonthLabel]float64               `json:"monthly_vessels"`
	PrimaryActivityTypes map[entities.MonthLabel]entities.ActivityType `json:"primary_activity_types"`
}

// FleetTotals splits each month's requirement between the internal fleet and external sourcing
type FleetTotals struct {
	InternalFleet     map[entities.MonthLabel]float64 `json:"internal_fleet"`
	ExternallySourced map[entities.MonthLabel]float64 `json:"externally_sourced"`
}

// NewFleetTotals allocates empty totals for a horizon
func NewFleetTotals(months int) FleetTotals {
	return FleetTotals{
		InternalFleet:     make(map[entities.MonthLabel]float64, months),
		ExternallySourced: make(map[entities.MonthLabel]float64, months),
	}
}

// ForecastScope records the canonical rig and location filters a forecast was
// computed under. The zero value is an unfiltered forecast.
type ForecastScope struct {
	Rigs      []string               `json:"rigs,omitempty"`
	Locations []entities.LocationKey `json:"locations,omitempty"`
}

// AdmitsRig reports whether a rig without computed activities belongs in a
// forecast of this scope. Such a rig has no location, so a location filter
// never admits it.
func (s ForecastScope) AdmitsRig(rigName string) bool {
	if len(s.Locations) > 0 {
		return false
	}
	if len(s.Rigs) == 0 {
		return true
	}
	for _, name := range s.Rigs {
		if name == rigName {
			return true
		}
	}
	return false
}

// TabularForecast is the engine output. It is created fresh on every run and
// treated as a value.
type TabularForecast struct {
	MonthlyColumns  []entities.MonthLabel                     `json:"monthly_columns"`
	RigDemands      []RigDemand                               `json:"rig_demands"`
	Totals          FleetTotals                               `json:"totals"`
	TotalDemand     map[entities.MonthLabel]float64           `json:"total_demand"`
	VesselsRequired map[entities.MonthLabel]float64           `json:"vessels_required"`
	InternalFleet   float64                                   `json:"internal_fleet_size"`
	Capability      float64                                   `json:"vessel_capability"`
	Scope           ForecastScope                             `json:"scope"`
	Cells           map[entities.CellKey]entities.MonthlyCell `json:"-"`
}

// Cell returns the computed cell for a rig and month
func (f *TabularForecast) Cell(rigName string, month entities.MonthLabel) (entities.MonthlyCell, bool) {
	cell, ok := f.Cells[entities.CellKey{RigName: rigName, Month: month}]
	return cell, ok
}

// RigNames returns the rig row names in table order
func (f *TabularForecast) RigNames() []string {
	names := make([]string, len(f.RigDemands))
	for i, row := range f.RigDemands {
		names[i] = row.RigName
	}
	return names
}

// CellList returns all computed cells ordered by rig then month
func (f *TabularForecast) CellList() []entities.MonthlyCell {
	cells := make([]entities.MonthlyCell, 0, len(f.Cells))
	for _, cell := range f.Cells {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].RigName != cells[j].RigName {
			return cells[i].RigName < cells[j].RigName
		}
		return cells[i].Month < cells[j].Month
	})
	return cells
}

// ForecastSummary holds the scalar fleet-sizing KPIs for a horizon
type ForecastSummary struct {
	Months                   int                 `json:"months"`
	AverageMonthlyDemand     float64             `json:"average_monthly_demand"`
	PeakMonthlyDemand        float64             `json:"peak_monthly_demand"`
	AverageVesselsRequired   float64             `json:"average_vessels_required"`
	PeakMonth                entities.MonthLabel `json:"peak_month"`
	PeakVesselsRequired      float64             `json:"peak_vessels_required"`
	AverageExternallySourced float64             `json:"average_externally_sourced"`
	PeakExternallySourced    float64             `json:"peak_externally_sourced"`
	AverageInternalFleet     float64             `json:"average_internal_fleet"`
	InternalFleetSize        float64             `json:"internal_fleet_size"`
	Utilization              float64             `json:"utilization"`
	RecommendedVessels       int                 `json:"recommended_vessels"`
	PeakRecommendedVessels   int                 `json:"peak_recommended_vessels"`
	BaselineGap              float64             `json:"baseline_gap"`
}

// ForecastResult is what one forecast run returns
type ForecastResult struct {
	RunID    string                 `json:"run_id"`
	RuleSet  string                 `json:"rule_set"`
	Forecast *TabularForecast       `json:"forecast"`
	Issues   []entities.RecordIssue `json:"issues"`
}
