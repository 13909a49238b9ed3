package override

import (
	"sort"

	"github.com/vsinha/fleetcast/pkg/application/dto"
	"github.com/vsinha/fleetcast/pkg/application/services/forecast"
	"github.com/vsinha/fleetcast/pkg/domain/entities"
)

// Overlay reads a computed forecast through an override map. Reads prefer the
// override; totals are re-summed from the overlaid cells on every call.
type Overlay struct {
	forecast  *dto.TabularForecast
	overrides *Map
}

// NewOverlay pairs a forecast with a session's overrides
func NewOverlay(tabular *dto.TabularForecast, overrides *Map) *Overlay {
	if overrides == nil {
		overrides = NewMap()
	}
	return &Overlay{forecast: tabular, overrides: overrides}
}

// GetValue returns the overridden vessel count, or the computed one
func (o *Overlay) GetValue(rigName string, month entities.MonthLabel) float64 {
	if entry, ok := o.overrides.Get(rigName, month); ok {
		return entry.Value
	}
	if cell, ok := o.forecast.Cell(rigName, month); ok {
		return cell.VesselsRequired
	}
	return 0
}

// Baseline returns the computed vessel count, ignoring overrides
func (o *Overlay) Baseline(rigName string, month entities.MonthLabel) float64 {
	if cell, ok := o.forecast.Cell(rigName, month); ok {
		return cell.VesselsRequired
	}
	return 0
}

// ActivityType returns the overridden classification, or the computed primary one
func (o *Overlay) ActivityType(rigName string, month entities.MonthLabel) (entities.ActivityType, bool) {
	if entry, ok := o.overrides.Get(rigName, month); ok && entry.ActivityType != nil {
		return *entry.ActivityType, true
	}
	if cell, ok := o.forecast.Cell(rigName, month); ok {
		return cell.ActivityType, true
	}
	return "", false
}

// IsOverridden reports whether the cell is served from the override map
func (o *Overlay) IsOverridden(rigName string, month entities.MonthLabel) bool {
	return o.overrides.Has(rigName, month)
}

// RigNames returns forecast rigs plus any rig that only exists as an override
// and falls inside the forecast's filter scope
func (o *Overlay) RigNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, name := range o.forecast.RigNames() {
		seen[name] = true
		names = append(names, name)
	}
	for _, name := range o.overrides.RigNames() {
		if !seen[name] && o.forecast.Scope.AdmitsRig(name) {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// VesselsRequired re-sums GetValue over all rigs for a month
func (o *Overlay) VesselsRequired(month entities.MonthLabel) float64 {
	var total float64
	for _, name := range o.RigNames() {
		total += o.GetValue(name, month)
	}
	return total
}

// Totals derives the internal/external split from the overlaid cells
func (o *Overlay) Totals() dto.FleetTotals {
	totals := dto.NewFleetTotals(len(o.forecast.MonthlyColumns))
	for _, month := range o.forecast.MonthlyColumns {
		internal, external := forecast.SplitFleet(o.VesselsRequired(month), o.forecast.InternalFleet)
		totals.InternalFleet[month] = internal
		totals.ExternallySourced[month] = external
	}
	return totals
}

// Apply materializes the overlay into a new forecast value. With no overrides
// the result carries the computed figures unchanged.
func (o *Overlay) Apply() *dto.TabularForecast {
	if o.overrides.Len() == 0 {
		return o.forecast
	}

	months := o.forecast.MonthlyColumns
	applied := &dto.TabularForecast{
		MonthlyColumns:  append([]entities.MonthLabel(nil), months...),
		Totals:          o.Totals(),
		TotalDemand:     make(map[entities.MonthLabel]float64, len(months)),
		VesselsRequired: make(map[entities.MonthLabel]float64, len(months)),
		InternalFleet:   o.forecast.InternalFleet,
		Capability:      o.forecast.Capability,
		Scope:           o.forecast.Scope,
		Cells:           o.forecast.Cells,
	}

	for _, name := range o.RigNames() {
		row := dto.RigDemand{
			RigName:              name,
			MonthlyVessels:       make(map[entities.MonthLabel]float64, len(months)),
			PrimaryActivityTypes: make(map[entities.MonthLabel]entities.ActivityType),
		}
		for _, month := range months {
			row.MonthlyVessels[month] = o.GetValue(name, month)
			if activityType, ok := o.ActivityType(name, month); ok {
				row.PrimaryActivityTypes[month] = activityType
			}
		}
		applied.RigDemands = append(applied.RigDemands, row)
	}

	for _, month := range months {
		required := o.VesselsRequired(month)
		applied.VesselsRequired[month] = required
		applied.TotalDemand[month] = required * o.forecast.Capability
	}
	return applied
}
