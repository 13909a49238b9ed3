package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vsinha/fleetcast/pkg/domain/repositories"
	"github.com/vsinha/fleetcast/pkg/infrastructure/config"
	"github.com/vsinha/fleetcast/pkg/infrastructure/logging"
	"github.com/vsinha/fleetcast/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/fleetcast/pkg/infrastructure/rules"
)

// App is the state shared by subcommands once configuration is loaded
type App struct {
	Config *config.Config
	Logger *slog.Logger
	Out    io.Writer
	Err    io.Writer
}

// NewApp creates an App from an already loaded configuration
func NewApp(cfg *config.Config, out, errOut io.Writer) (*App, error) {
	logger, err := logging.NewLoggerTo(errOut, cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return &App{Config: cfg, Logger: logger, Out: out, Err: errOut}, nil
}

// RuleSets returns the built-in rule sets plus any YAML documents in rulesDir
func (a *App) RuleSets(rulesDir string) (repositories.RuleSetRepository, error) {
	repo := memory.NewRuleSetRepository(rules.Builtin())
	if rulesDir == "" {
		return repo, nil
	}

	custom, err := rules.LoadDir(rulesDir)
	if err != nil {
		return nil, err
	}
	for _, ruleSet := range custom {
		if err := repo.SaveRuleSet(ruleSet); err != nil {
			return nil, err
		}
		a.Logger.Debug("loaded rule set", "name", ruleSet.Name, "dir", rulesDir)
	}
	return repo, nil
}

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)
	app := &App{}

	rootCmd := &cobra.Command{
		Use:   "fleetcast",
		Short: "Vessel fleet demand and capacity forecasting",
		Long: `fleetcast turns a rig activity schedule into a month-by-month forecast of
offshore support vessel demand, split between the internal fleet and
externally sourced capacity.

Configuration is loaded from multiple sources with priority:
1. Environment variables (FC_* prefix)
2. Config file (fleetcast.yaml)
3. Default values

Examples:
  fleetcast forecast --schedule schedule.csv --start 2025-01 --horizon 12
  fleetcast forecast --schedule schedule.csv --overrides edits.csv --format csv
  fleetcast rules list
  fleetcast rules show baseline
  fleetcast schedule import --file schedule.csv --replace
  fleetcast generate --rigs 8 --months 18 --seed 42 --file schedule.csv`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}

			loaded, err := NewApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			*app = *loaded
			return nil
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: fleetcast.yaml in ., ./configs, /etc/fleetcast)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level: debug, info, warn, error")

	rootCmd.AddCommand(newForecastCommand(app))
	rootCmd.AddCommand(newRulesCommand(app))
	rootCmd.AddCommand(newScheduleCommand(app))
	rootCmd.AddCommand(newGenerateCommand(app))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
