package rules

import "github.com/vsinha/fleetcast/pkg/domain/entities"

const (
	// BaselineRuleSet is the current planning rule set
	BaselineRuleSet = "baseline"
	// Legacy2023RuleSet reproduces the constants of the 2023 planning calculator
	Legacy2023RuleSet = "legacy-2023"
)

// Builtin returns fresh copies of every built-in rule set keyed by name
func Builtin() map[string]*entities.BusinessRuleSet {
	return map[string]*entities.BusinessRuleSet{
		BaselineRuleSet:   Baseline(),
		Legacy2023RuleSet: Legacy2023(),
	}
}

// Baseline is the default rule set
func Baseline() *entities.BusinessRuleSet {
	return &entities.BusinessRuleSet{
		Name:        BaselineRuleSet,
		Description: "Current Gulf of Mexico planning constants",
		Locations: map[entities.LocationKey]entities.LocationProfile{
			"GC": {Key: "GC", DisplayName: "Green Canyon", RigDemand: 6.5, TransitHours: 10, VesselCapability: 7.0, TransitPenaltyFactor: 1},
			"MC": {Key: "MC", DisplayName: "Mississippi Canyon", RigDemand: 6.0, TransitHours: 8, VesselCapability: 7.5, TransitPenaltyFactor: 1},
			"VK": {Key: "VK", DisplayName: "Viosca Knoll", RigDemand: 5.0, TransitHours: 6, VesselCapability: 8.0, TransitPenaltyFactor: 1},
			"WR": {Key: "WR", DisplayName: "Walker Ridge", RigDemand: 8.3, TransitHours: 18, VesselCapability: 5.0, IsUltraDeep: true, TransitPenaltyFactor: 1},
			"KC": {Key: "KC", DisplayName: "Keathley Canyon", RigDemand: 8.3, TransitHours: 20, VesselCapability: 5.0, IsUltraDeep: true, TransitPenaltyFactor: 1},
			"AC": {Key: "AC", DisplayName: "Alaminos Canyon", RigDemand: 7.0, TransitHours: 30, VesselCapability: 4.5, IsUltraDeep: true, TransitPenaltyFactor: 1.5},
		},
		DefaultLocation: entities.LocationProfile{
			Key:                  "DEFAULT",
			DisplayName:          "Unlisted location",
			RigDemand:            6.5,
			TransitHours:         12,
			VesselCapability:     7.0,
			TransitPenaltyFactor: 1,
		},
		LocationAliases: map[string]entities.LocationKey{
			"Perdido":       "AC",
			"Stones":        "WR",
			"Jack/St Malo":  "WR",
			"Mad Dog":       "GC",
			"Atlantis":      "GC",
			"Thunder Horse": "MC",
		},
		ActivityTypes: defaultActivityTypes(2.0, 3.0),
		RigAliases: map[string]string{
			"DW Poseidon":     "Deepwater Poseidon",
			"Poseidon":        "Deepwater Poseidon",
			"DSP":             "Deepwater Poseidon",
			"DW Conqueror":    "Deepwater Conqueror",
			"Conqueror":       "Deepwater Conqueror",
			"DSC":             "Deepwater Conqueror",
			"Valaris DS-16":   "Valaris DS-16",
			"DS16":            "Valaris DS-16",
			"Stena Evolution": "Stena Evolution",
			"Evolution":       "Stena Evolution",
			"Q4000":           "Q4000",
			"Q-4000":          "Q4000",
		},
		Fleet: entities.FleetBaseline{
			DrillingFleetSize:         6,
			ProductionSupportVessels:  1,
			DedicatedWarehouseVessels: 1,
			OperatorSharingAdjustment: 0.5,
		},
		AverageVesselCapability: 6.5,
		DemandPolicy:            entities.FullMonthDemand,
	}
}

// Legacy2023 keeps the earlier calculator's lower batch multipliers and
// derives fleet capability from the location table
func Legacy2023() *entities.BusinessRuleSet {
	ruleSet := Baseline()
	ruleSet.Name = Legacy2023RuleSet
	ruleSet.Description = "2023 calculator constants (no sharing adjustment, derived capability)"
	ruleSet.ActivityTypes = defaultActivityTypes(1.5, 2.5)
	ruleSet.Fleet.OperatorSharingAdjustment = 0
	ruleSet.AverageVesselCapability = 0

	ac := ruleSet.Locations["AC"]
	ac.TransitPenaltyFactor = 1.25
	ruleSet.Locations["AC"] = ac
	return ruleSet
}

func defaultActivityTypes(standardBatch, ultraDeepBatch float64) map[entities.ActivityType]entities.ActivityTypeProfile {
	profile := func(code entities.ActivityType, description string, multiplier float64) entities.ActivityTypeProfile {
		return entities.ActivityTypeProfile{
			Code:                     code,
			Description:              description,
			DemandMultiplier:         multiplier,
			StandardBatchMultiplier:  1,
			UltraDeepBatchMultiplier: 1,
		}
	}

	drilling := profile(entities.Drilling, "Drilling", 1.0)
	drilling.StandardBatchMultiplier = standardBatch
	drilling.UltraDeepBatchMultiplier = ultraDeepBatch

	return map[entities.ActivityType]entities.ActivityTypeProfile{
		entities.RigStartUp:            profile(entities.RigStartUp, "Rig start-up", 0.5),
		entities.Drilling:              drilling,
		entities.Completion:            profile(entities.Completion, "Completion", 1.2),
		entities.RigMaintenance:        profile(entities.RigMaintenance, "Rig maintenance", 0.3),
		entities.WhiteSpace:            profile(entities.WhiteSpace, "White space / idle", 0),
		entities.PlugAndAbandon:        profile(entities.PlugAndAbandon, "Plug and abandon", 0.8),
		entities.WellWorkProgram:       profile(entities.WellWorkProgram, "Well work program", 0.7),
		entities.Mobilization:          profile(entities.Mobilization, "Mobilization", 0.5),
		entities.WellIntervention:      profile(entities.WellIntervention, "Well intervention", 0.6),
		entities.Turnaround:            profile(entities.Turnaround, "Turnaround", 0.4),
		entities.LightWellIntervention: profile(entities.LightWellIntervention, "Light well intervention", 0.6),
	}
}
