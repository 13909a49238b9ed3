package events

import (
	"github.com/vsinha/fleetcast/pkg/domain/entities"
)

const (
	ForecastComputedEvent = "forecast.computed"

	OverrideSetEvent      = "override.set"
	OverrideRejectedEvent = "override.rejected"
	OverridesResetEvent   = "overrides.reset"
)

type ForecastComputed struct {
	RunID    string `json:"run_id"`
	RuleSet  string `json:"rule_set"`
	Rigs     int    `json:"rigs"`
	Months   int    `json:"months"`
	Rejected int    `json:"rejected"`
}

type OverrideSet struct {
	RigName      string                 `json:"rig_name"`
	Month        entities.MonthLabel    `json:"month"`
	Value        float64                `json:"value"`
	ActivityType *entities.ActivityType `json:"activity_type,omitempty"`
	Previous     *float64               `json:"previous,omitempty"`
}

type OverrideRejected struct {
	RigName string              `json:"rig_name"`
	Month   entities.MonthLabel `json:"month"`
	Value   float64             `json:"value"`
	Reason  string              `json:"reason"`
}

type OverridesReset struct {
	Cleared int `json:"cleared"`
}
