package entities

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DemandPolicy controls how a multi-month activity's demand lands in each month
type DemandPolicy string

const (
	// FullMonthDemand counts the full per-month demand in every occupied month
	FullMonthDemand DemandPolicy = "full"
	// ProratedDemand scales each month by the fraction of its days the activity covers
	ProratedDemand DemandPolicy = "prorated"
)

// ActivityTypeProfile holds the demand multipliers for one activity code
type ActivityTypeProfile struct {
	Code                     ActivityType `yaml:"code" json:"code" validate:"required"`
	Description              string       `yaml:"description" json:"description"`
	DemandMultiplier         float64      `yaml:"demand_multiplier" json:"demand_multiplier" validate:"gte=0"`
	StandardBatchMultiplier  float64      `yaml:"standard_batch_multiplier" json:"standard_batch_multiplier" validate:"gte=0"`
	UltraDeepBatchMultiplier float64      `yaml:"ultra_deep_batch_multiplier" json:"ultra_deep_batch_multiplier" validate:"gte=0"`
}

// DefaultActivityTypeProfile is used for codes missing from the rule set
func DefaultActivityTypeProfile(code ActivityType) ActivityTypeProfile {
	return ActivityTypeProfile{
		Code:                     code,
		Description:              "Unrecognized activity",
		DemandMultiplier:         1.0,
		StandardBatchMultiplier:  1.0,
		UltraDeepBatchMultiplier: 1.0,
	}
}

// FleetBaseline describes the operator's own contracted vessel capacity
type FleetBaseline struct {
	DrillingFleetSize         float64 `yaml:"drilling_fleet_size" json:"drilling_fleet_size" validate:"gte=0"`
	ProductionSupportVessels  float64 `yaml:"production_support_vessels" json:"production_support_vessels" validate:"gte=0"`
	DedicatedWarehouseVessels float64 `yaml:"dedicated_warehouse_vessels" json:"dedicated_warehouse_vessels" validate:"gte=0"`
	OperatorSharingAdjustment float64 `yaml:"operator_sharing_adjustment" json:"operator_sharing_adjustment"`
}

// TotalInternalFleetSize is always derived from the components
func (f FleetBaseline) TotalInternalFleetSize() float64 {
	return f.DrillingFleetSize +
		f.ProductionSupportVessels +
		f.DedicatedWarehouseVessels +
		f.OperatorSharingAdjustment
}

// BusinessRuleSet bundles every reference table and constant one forecast run needs.
// Historical calculator variants are expressed as different rule sets.
type BusinessRuleSet struct {
	Name            string                               `yaml:"name" json:"name" validate:"required"`
	Description     string                               `yaml:"description" json:"description"`
	Locations       map[LocationKey]LocationProfile      `yaml:"locations" json:"locations" validate:"dive"`
	DefaultLocation LocationProfile                      `yaml:"default_location" json:"default_location"`
	LocationAliases map[string]LocationKey               `yaml:"location_aliases" json:"location_aliases"`
	ActivityTypes   map[ActivityType]ActivityTypeProfile `yaml:"activity_types" json:"activity_types" validate:"dive"`
	RigAliases      map[string]string                    `yaml:"rig_aliases" json:"rig_aliases"`
	Fleet           FleetBaseline                        `yaml:"fleet" json:"fleet"`
	// Zero means derive from the location table
	AverageVesselCapability float64      `yaml:"average_vessel_capability" json:"average_vessel_capability" validate:"gte=0"`
	DemandPolicy            DemandPolicy `yaml:"demand_policy" json:"demand_policy" validate:"omitempty,oneof=full prorated"`
}

// Location returns the profile for key, or the default profile when the key is unknown
func (r *BusinessRuleSet) Location(key LocationKey) (LocationProfile, bool) {
	if profile, ok := r.Locations[key]; ok {
		return profile, true
	}
	return r.DefaultLocation, false
}

// ActivityType returns the profile for code, or the documented default when unknown
func (r *BusinessRuleSet) ActivityType(code ActivityType) (ActivityTypeProfile, bool) {
	if profile, ok := r.ActivityTypes[code]; ok {
		return profile, true
	}
	return DefaultActivityTypeProfile(code), false
}

// VesselCapability returns the fleet-average deliveries per vessel per month
func (r *BusinessRuleSet) VesselCapability() float64 {
	if r.AverageVesselCapability > 0 {
		return r.AverageVesselCapability
	}
	keys := r.LocationKeys()
	if len(keys) == 0 {
		return r.DefaultLocation.VesselCapability
	}
	capabilities := make([]float64, len(keys))
	for i, key := range keys {
		capabilities[i] = r.Locations[key].VesselCapability
	}
	return stat.Mean(capabilities, nil)
}

// Policy returns the demand policy, defaulting to full-month demand
func (r *BusinessRuleSet) Policy() DemandPolicy {
	if r.DemandPolicy == "" {
		return FullMonthDemand
	}
	return r.DemandPolicy
}

// LocationKeys returns the location keys in sorted order
func (r *BusinessRuleSet) LocationKeys() []LocationKey {
	keys := make([]LocationKey, 0, len(r.Locations))
	for key := range r.Locations {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Validate checks the invariants the engine relies on
func (r *BusinessRuleSet) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("rule set name cannot be empty")
	}
	if r.VesselCapability() <= 0 {
		return fmt.Errorf("rule set %s: vessel capability must be positive, got %g", r.Name, r.VesselCapability())
	}
	if r.DefaultLocation.TransitPenaltyFactor < 1 {
		return fmt.Errorf("rule set %s: default location transit penalty factor must be >= 1, got %g",
			r.Name, r.DefaultLocation.TransitPenaltyFactor)
	}
	for key, profile := range r.Locations {
		if profile.Key != key {
			return fmt.Errorf("rule set %s: location %s has mismatched key %s", r.Name, key, profile.Key)
		}
		if profile.VesselCapability <= 0 {
			return fmt.Errorf("rule set %s: location %s vessel capability must be positive, got %g",
				r.Name, key, profile.VesselCapability)
		}
		if profile.TransitPenaltyFactor < 1 {
			return fmt.Errorf("rule set %s: location %s transit penalty factor must be >= 1, got %g",
				r.Name, key, profile.TransitPenaltyFactor)
		}
		if profile.RigDemand < 0 {
			return fmt.Errorf("rule set %s: location %s rig demand cannot be negative, got %g",
				r.Name, key, profile.RigDemand)
		}
	}
	for code, profile := range r.ActivityTypes {
		if profile.DemandMultiplier < 0 || profile.StandardBatchMultiplier < 0 || profile.UltraDeepBatchMultiplier < 0 {
			return fmt.Errorf("rule set %s: activity type %s multipliers cannot be negative", r.Name, code)
		}
	}
	for alias, key := range r.LocationAliases {
		if _, ok := r.Locations[key]; !ok {
			return fmt.Errorf("rule set %s: location alias %q points at unknown location %s", r.Name, alias, key)
		}
	}
	switch r.Policy() {
	case FullMonthDemand, ProratedDemand:
	default:
		return fmt.Errorf("rule set %s: unknown demand policy %q", r.Name, r.DemandPolicy)
	}
	return nil
}

// Clone returns a deep copy so callers can derive variants without sharing maps
func (r *BusinessRuleSet) Clone() *BusinessRuleSet {
	clone := *r
	clone.Locations = make(map[LocationKey]LocationProfile, len(r.Locations))
	for k, v := range r.Locations {
		clone.Locations[k] = v
	}
	clone.LocationAliases = make(map[string]LocationKey, len(r.LocationAliases))
	for k, v := range r.LocationAliases {
		clone.LocationAliases[k] = v
	}
	clone.ActivityTypes = make(map[ActivityType]ActivityTypeProfile, len(r.ActivityTypes))
	for k, v := range r.ActivityTypes {
		clone.ActivityTypes[k] = v
	}
	clone.RigAliases = make(map[string]string, len(r.RigAliases))
	for k, v := range r.RigAliases {
		clone.RigAliases[k] = v
	}
	return &clone
}
