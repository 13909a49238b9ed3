package entities

import (
	"fmt"
	"strings"
)

// LocationKey identifies an entry in the location reference table
type LocationKey string

// NormalizeLocationKey upper-cases and trims a raw location code
func NormalizeLocationKey(raw string) LocationKey {
	return LocationKey(strings.ToUpper(strings.TrimSpace(raw)))
}

// LocationProfile holds static facts about an offshore location
type LocationProfile struct {
	Key          LocationKey `yaml:"key" json:"key" validate:"required"`
	DisplayName  string      `yaml:"display_name" json:"display_name"`
	RigDemand    float64     `yaml:"rig_demand" json:"rig_demand" validate:"gte=0"`
	TransitHours float64     `yaml:"transit_hours" json:"transit_hours" validate:"gte=0"`
	// Deliveries a single vessel can serve per month; lower for ultra-deep sites
	VesselCapability     float64 `yaml:"vessel_capability" json:"vessel_capability" validate:"gt=0"`
	IsUltraDeep          bool    `yaml:"ultra_deep" json:"ultra_deep"`
	TransitPenaltyFactor float64 `yaml:"transit_penalty_factor" json:"transit_penalty_factor" validate:"gte=1"`
}

// HasTransitPenalty reports whether the site is designated long-transit
func (p LocationProfile) HasTransitPenalty() bool {
	return p.TransitPenaltyFactor > 1
}

// TransitMultiplier returns the penalty factor for long-transit sites, 1 otherwise
func (p LocationProfile) TransitMultiplier() float64 {
	if p.HasTransitPenalty() {
		return p.TransitPenaltyFactor
	}
	return 1
}

func (p LocationProfile) String() string {
	name := p.DisplayName
	if name == "" {
		name = string(p.Key)
	}
	return fmt.Sprintf("%s (%s)", name, p.Key)
}
