package commands

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vsinha/fleetcast/pkg/domain/entities"
	"github.com/vsinha/fleetcast/pkg/infrastructure/repositories/csv"
)

// GenerateConfig holds configuration for schedule generation
type GenerateConfig struct {
	Rigs       int     // Number of rigs to schedule
	Months     int     // Length of the generated schedule in months
	StartMonth string  // First month of the schedule (YYYY-MM)
	BatchRatio float64 // Probability that a drilling window is a batch operation
	RuleSet    string  // Rule set whose locations and rig names are used
	OutputFile string  // Destination CSV file; empty writes to stdout
	Seed       int64   // Random seed for reproducible generation
	Verbose    bool    // Verbose output
}

// GenerateCommand generates a synthetic rig schedule
type GenerateCommand struct {
	app    *App
	config GenerateConfig
	rand   *rand.Rand
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(app *App, config GenerateConfig) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &GenerateCommand{
		app:    app,
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
	}
}

func newGenerateCommand(app *App) *cobra.Command {
	var config GenerateConfig

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic rig schedule CSV",
		Long: `Generate a plausible rig schedule for demos and load testing. Each rig
starts with a start-up window and then cycles through drilling, completion,
maintenance and idle periods across the rule set's locations. The same seed
always produces the same schedule.

Examples:
  fleetcast generate --rigs 8 --months 18 --seed 42
  fleetcast generate --rigs 40 --months 36 --batch-ratio 0.4 --file big.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewGenerateCommand(app, config).Execute(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&config.Rigs, "rigs", 6, "Number of rigs to schedule")
	flags.IntVar(&config.Months, "months", 12, "Length of the schedule in months")
	flags.StringVar(&config.StartMonth, "start", "", "First month of the schedule (YYYY-MM, default: current month)")
	flags.Float64Var(&config.BatchRatio, "batch-ratio", 0.25, "Probability that a drilling window is batched")
	flags.StringVarP(&config.RuleSet, "rule-set", "r", "", "Rule set providing locations and rig names")
	flags.StringVar(&config.OutputFile, "file", "", "Destination CSV file (default: stdout)")
	flags.Int64Var(&config.Seed, "seed", 42, "Random seed (0 = time based)")
	flags.BoolVarP(&config.Verbose, "verbose", "v", false, "Enable verbose output")

	return cmd
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Rigs <= 0 {
		return fmt.Errorf("rigs must be positive, got %d", cmd.config.Rigs)
	}
	if cmd.config.Months <= 0 {
		return fmt.Errorf("months must be positive, got %d", cmd.config.Months)
	}

	ruleSetName := cmd.config.RuleSet
	if ruleSetName == "" {
		ruleSetName = cmd.app.Config.Forecast.RuleSet
	}
	repo, err := cmd.app.RuleSets(cmd.app.Config.Forecast.RulesDir)
	if err != nil {
		return err
	}
	ruleSet, err := repo.GetRuleSet(ruleSetName)
	if err != nil {
		return err
	}

	start := entities.MonthOf(time.Now().UTC())
	if cmd.config.StartMonth != "" {
		if start, err = entities.ParseMonthLabel(cmd.config.StartMonth); err != nil {
			return err
		}
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.app.Err,
			"🔧 Generating schedule with %d rigs over %d months from %s, %.0f%% batch drilling\n",
			cmd.config.Rigs,
			cmd.config.Months,
			start,
			cmd.config.BatchRatio*100,
		)
		fmt.Fprintf(cmd.app.Err, "🎲 Random seed: %d\n", cmd.config.Seed)
	}

	activities := cmd.GenerateSchedule(ruleSet, start)

	out := cmd.app.Out
	if cmd.config.OutputFile != "" {
		file, err := os.Create(cmd.config.OutputFile)
		if err != nil {
			return fmt.Errorf("failed to create schedule file: %w", err)
		}
		defer file.Close()
		out = file
	}

	if err := csv.NewLoader().WriteActivities(out, activities); err != nil {
		return fmt.Errorf("failed to write schedule: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.app.Err, "✅ Generated %d activities\n", len(activities))
	}
	return nil
}

// activityWindow is a duration range in days for one activity type
type activityWindow struct {
	activityType entities.ActivityType
	minDays      int
	maxDays      int
}

var (
	startUpWindow     = activityWindow{entities.RigStartUp, 5, 15}
	drillingWindow    = activityWindow{entities.Drilling, 30, 95}
	completionWindow  = activityWindow{entities.Completion, 20, 50}
	maintenanceWindow = activityWindow{entities.RigMaintenance, 7, 21}
	whiteSpaceWindow  = activityWindow{entities.WhiteSpace, 5, 30}
	interventionTypes = []activityWindow{
		{entities.WellIntervention, 10, 30},
		{entities.LightWellIntervention, 5, 20},
		{entities.PlugAndAbandon, 15, 45},
		{entities.WellWorkProgram, 20, 60},
	}
)

// GenerateSchedule builds the schedule for every rig, back to back until the
// horizon is covered.
func (cmd *GenerateCommand) GenerateSchedule(ruleSet *entities.BusinessRuleSet, start entities.MonthLabel) []*entities.RigActivity {
	locations := ruleSet.LocationKeys()
	if len(locations) == 0 {
		locations = []entities.LocationKey{ruleSet.DefaultLocation.Key}
	}
	rigNames := cmd.rigNames(ruleSet)
	horizonEnd := start.FirstDay().AddDate(0, cmd.config.Months, -1)

	var activities []*entities.RigActivity
	for _, rigName := range rigNames {
		location := locations[cmd.rand.Intn(len(locations))]
		cursor := start.FirstDay().AddDate(0, 0, cmd.rand.Intn(20))
		first := true

		for !cursor.After(horizonEnd) {
			window := cmd.nextWindow(first)
			first = false

			days := window.minDays + cmd.rand.Intn(window.maxDays-window.minDays+1)
			end := cursor.AddDate(0, 0, days-1)

			activities = append(activities, &entities.RigActivity{
				RigName:          rigName,
				Location:         location,
				ActivityType:     window.activityType,
				StartDate:        cursor,
				EndDate:          end,
				IsBatchOperation: window.activityType == entities.Drilling && cmd.rand.Float64() < cmd.config.BatchRatio,
			})

			// Rigs occasionally move field after a completion
			if window.activityType == entities.Completion && cmd.rand.Float64() < 0.3 {
				location = locations[cmd.rand.Intn(len(locations))]
			}
			cursor = end.AddDate(0, 0, 1)
		}
	}

	return activities
}

func (cmd *GenerateCommand) nextWindow(first bool) activityWindow {
	if first {
		return startUpWindow
	}
	roll := cmd.rand.Float64()
	switch {
	case roll < 0.40:
		return drillingWindow
	case roll < 0.60:
		return completionWindow
	case roll < 0.70:
		return maintenanceWindow
	case roll < 0.80:
		return whiteSpaceWindow
	default:
		return interventionTypes[cmd.rand.Intn(len(interventionTypes))]
	}
}

// rigNames takes the rule set's canonical rig names first, then numbered rigs
func (cmd *GenerateCommand) rigNames(ruleSet *entities.BusinessRuleSet) []string {
	seen := make(map[string]bool)
	var known []string
	for _, canonical := range ruleSet.RigAliases {
		if !seen[canonical] {
			seen[canonical] = true
			known = append(known, canonical)
		}
	}
	sort.Strings(known)

	names := make([]string, 0, cmd.config.Rigs)
	for i := 0; i < cmd.config.Rigs; i++ {
		if i < len(known) {
			names = append(names, known[i])
			continue
		}
		names = append(names, fmt.Sprintf("Rig-%02d", i+1))
	}
	return names
}
