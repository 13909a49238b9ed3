package config

// ForecastConfig holds the defaults for a forecast run
type ForecastConfig struct {
	// First month of the horizon as YYYY-MM; empty means the current month
	StartMonth string `mapstructure:"start_month" validate:"omitempty,datetime=2006-01"`

	// Number of months in the horizon
	HorizonMonths int `mapstructure:"horizon_months" validate:"min=1,max=120"`

	// Name of the business rule set to apply
	RuleSet string `mapstructure:"rule_set" validate:"required"`

	// Directory scanned for additional YAML rule sets
	RulesDir string `mapstructure:"rules_dir"`

	// Demand policy override: full or prorated; empty uses the rule set's policy
	DemandPolicy string `mapstructure:"demand_policy" validate:"omitempty,oneof=full prorated"`

	// Decimal places used when exporting figures
	Precision int32 `mapstructure:"precision" validate:"min=0,max=6"`
}
