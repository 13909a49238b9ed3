package config

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Forecast defaults
	if cfg.Forecast.HorizonMonths == 0 {
		cfg.Forecast.HorizonMonths = 12
	}
	if cfg.Forecast.RuleSet == "" {
		cfg.Forecast.RuleSet = "baseline"
	}
	if cfg.Forecast.Precision == 0 {
		cfg.Forecast.Precision = 2
	}

	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "fleetcast.db"
	}

	// Logging defaults; stdout is reserved for report output
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
}
