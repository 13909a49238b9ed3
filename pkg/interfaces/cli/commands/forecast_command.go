package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vsinha/fleetcast/pkg/application/services/forecast"
	"github.com/vsinha/fleetcast/pkg/application/services/orchestration"
	"github.com/vsinha/fleetcast/pkg/domain/entities"
	"github.com/vsinha/fleetcast/pkg/domain/repositories"
	"github.com/vsinha/fleetcast/pkg/infrastructure/events"
	"github.com/vsinha/fleetcast/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/fleetcast/pkg/infrastructure/repositories/gormstore"
	"github.com/vsinha/fleetcast/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/fleetcast/pkg/interfaces/cli/output"
)

// ForecastOptions holds the flags of the forecast command. Zero values fall
// back to the loaded configuration.
type ForecastOptions struct {
	ScheduleFile  string
	FromDatabase  bool
	StartMonth    string
	HorizonMonths int
	RuleSet       string
	RulesDir      string
	DemandPolicy  string
	OverridesFile string
	Rigs          []string
	Locations     []string
	Format        string
	OutputDir     string
	Precision     int32
	Verbose       bool
}

// ForecastCommand runs one forecast end to end
type ForecastCommand struct {
	app     *App
	options ForecastOptions
}

// NewForecastCommand creates a forecast command with the given options
func NewForecastCommand(app *App, options ForecastOptions) *ForecastCommand {
	return &ForecastCommand{
		app:     app,
		options: options,
	}
}

func newForecastCommand(app *App) *cobra.Command {
	var options ForecastOptions

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast monthly vessel demand from a rig schedule",
		Long: `Spread every scheduled rig activity over the monthly horizon, apply the
rule set's demand multipliers and report vessels required per rig and month,
with the internal fleet and externally sourced split.

Examples:
  fleetcast forecast --schedule schedule.csv
  fleetcast forecast --schedule schedule.csv --start 2025-01 --horizon 24 --rule-set legacy-2023
  fleetcast forecast --from-db --rig "Deepwater Poseidon" --format json
  fleetcast forecast --schedule schedule.csv --overrides edits.csv --format csv --output out/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewForecastCommand(app, options).Execute(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&options.ScheduleFile, "schedule", "s", "", "Path to rig schedule CSV file")
	flags.BoolVar(&options.FromDatabase, "from-db", false, "Read the schedule from the configured database")
	flags.StringVar(&options.StartMonth, "start", "", "First month of the horizon (YYYY-MM)")
	flags.IntVar(&options.HorizonMonths, "horizon", 0, "Number of months to forecast")
	flags.StringVarP(&options.RuleSet, "rule-set", "r", "", "Business rule set name")
	flags.StringVar(&options.RulesDir, "rules-dir", "", "Directory with additional YAML rule sets")
	flags.StringVar(&options.DemandPolicy, "policy", "", "Demand policy: full or prorated")
	flags.StringVar(&options.OverridesFile, "overrides", "", "Path to override CSV file")
	flags.StringSliceVar(&options.Rigs, "rig", nil, "Only include these rigs (repeatable)")
	flags.StringSliceVar(&options.Locations, "location", nil, "Only include these locations (repeatable)")
	flags.StringVarP(&options.Format, "format", "f", "text", "Output format: text, json, csv")
	flags.StringVarP(&options.OutputDir, "output", "o", "", "Output directory for results (optional)")
	flags.Int32Var(&options.Precision, "precision", -1, "Decimal places in exported figures")
	flags.BoolVarP(&options.Verbose, "verbose", "v", false, "Enable verbose output")

	return cmd
}

// Execute runs the forecast command
func (c *ForecastCommand) Execute(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := c.resolveOptions(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	opts := c.options

	startMonth, err := c.startMonth()
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	ruleSets, err := c.app.RuleSets(opts.RulesDir)
	if err != nil {
		return fmt.Errorf("failed to load rule sets: %w", err)
	}
	ruleSet, err := ruleSets.GetRuleSet(opts.RuleSet)
	if err != nil {
		return err
	}

	service, err := forecast.NewForecastServiceWithConfig(ruleSet, forecast.EngineConfig{
		DemandPolicy: entities.DemandPolicy(opts.DemandPolicy),
		Logger:       c.app.Logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create forecast service: %w", err)
	}

	if opts.Verbose {
		c.printHeader(ruleSet, startMonth)
	}

	activityRepo, loadIssues, closeRepo, err := c.openSchedule(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	store := events.NewInMemoryEventStoreWithLogger(c.app.Logger)
	if err := store.Subscribe([]string{events.OverrideRejectedEvent}, c.rejectionLogger()); err != nil {
		return fmt.Errorf("failed to subscribe to override events: %w", err)
	}
	session := orchestration.NewSession(service, activityRepo, store)

	if opts.Verbose {
		fmt.Fprintln(c.app.Err, "🚀 Computing forecast...")
	}
	start := time.Now()
	result, err := session.Recompute(ctx, orchestration.PlanningRequest{
		StartMonth:     startMonth.FirstDay(),
		HorizonMonths:  opts.HorizonMonths,
		RigFilter:      opts.Rigs,
		LocationFilter: opts.Locations,
	})
	if err != nil {
		return err
	}
	result.Issues = mergeScheduleIssues(loadIssues, result.Issues)

	if opts.OverridesFile != "" {
		if err := c.applyOverrides(session); err != nil {
			return err
		}
	}

	planning, err := session.Snapshot(result)
	if err != nil {
		return err
	}
	computeTime := time.Since(start)

	if opts.Verbose {
		fmt.Fprintf(c.app.Err, "✅ Forecast completed in %v\n", computeTime)
		fmt.Fprintf(c.app.Err, "  Rigs: %d\n", len(planning.Forecast.RigDemands))
		fmt.Fprintf(c.app.Err, "  Issues: %d\n", len(result.Issues))
		fmt.Fprintf(c.app.Err, "  Overrides: %d\n", planning.Overrides)
		c.printOverrideEvents(store, session.ID())
		fmt.Fprintln(c.app.Err)
	}

	return output.Generate(c.app.Out, output.Report{
		Result:    result,
		Forecast:  planning.Forecast,
		Summary:   planning.Summary,
		Overrides: planning.Overrides,
	}, output.Config{
		Format:      opts.Format,
		Precision:   opts.Precision,
		OutputDir:   opts.OutputDir,
		Verbose:     opts.Verbose,
		ComputeTime: computeTime,
	})
}

// resolveOptions fills unset options from configuration and checks the rest
func (c *ForecastCommand) resolveOptions() error {
	cfg := c.app.Config.Forecast
	opts := &c.options

	if opts.ScheduleFile == "" && !opts.FromDatabase {
		return fmt.Errorf("either --schedule or --from-db must be specified")
	}
	if opts.ScheduleFile != "" && opts.FromDatabase {
		return fmt.Errorf("--schedule and --from-db are mutually exclusive")
	}

	if opts.StartMonth == "" {
		opts.StartMonth = cfg.StartMonth
	}
	if opts.HorizonMonths == 0 {
		opts.HorizonMonths = cfg.HorizonMonths
	}
	if opts.RuleSet == "" {
		opts.RuleSet = cfg.RuleSet
	}
	if opts.RulesDir == "" {
		opts.RulesDir = cfg.RulesDir
	}
	if opts.DemandPolicy == "" {
		opts.DemandPolicy = cfg.DemandPolicy
	}
	if opts.Precision < 0 {
		opts.Precision = cfg.Precision
	}

	switch entities.DemandPolicy(opts.DemandPolicy) {
	case "", entities.FullMonthDemand, entities.ProratedDemand:
	default:
		return fmt.Errorf("invalid demand policy: %s (expected full or prorated)", opts.DemandPolicy)
	}

	switch opts.Format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("invalid format: %s (expected text, json, or csv)", opts.Format)
	}

	return nil
}

// startMonth resolves the horizon anchor; an unset start means the current month
func (c *ForecastCommand) startMonth() (entities.MonthLabel, error) {
	if c.options.StartMonth == "" {
		return entities.MonthOf(time.Now().UTC()), nil
	}
	return entities.ParseMonthLabel(c.options.StartMonth)
}

// openSchedule returns the repository the session reads activities from
func (c *ForecastCommand) openSchedule(ctx context.Context) (repositories.ActivityRepository, []entities.RecordIssue, func(), error) {
	if c.options.FromDatabase {
		db, err := gormstore.NewConnection(&c.app.Config.Database)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to open schedule store: %w", err)
		}
		if err := gormstore.AutoMigrate(db); err != nil {
			gormstore.Close(db)
			return nil, nil, nil, fmt.Errorf("failed to migrate schedule store: %w", err)
		}
		if c.options.Verbose {
			fmt.Fprintf(c.app.Err, "🗄️  Reading schedule from %s store\n", c.app.Config.Database.Type)
		}
		return gormstore.NewGormActivityRepository(db), nil, func() { gormstore.Close(db) }, nil
	}

	if c.options.Verbose {
		fmt.Fprintf(c.app.Err, "📂 Loading schedule from %s\n", c.options.ScheduleFile)
	}

	activities, issues, err := csv.NewLoader().LoadActivities(c.options.ScheduleFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error loading schedule: %w", err)
	}
	for _, issue := range issues {
		c.app.Logger.Warn("schedule row rejected", "rig", issue.RigName, "reason", issue.Reason)
	}

	repo := memory.NewActivityRepository()
	if err := repo.LoadActivities(ctx, activities); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load activities into repository: %w", err)
	}

	if c.options.Verbose {
		fmt.Fprintf(c.app.Err, "✅ Loaded %d activities (%d rows rejected)\n", len(activities), len(issues))
	}
	return repo, issues, func() {}, nil
}

// applyOverrides feeds an override file through the session like interactive
// edits. Unparseable rows are discarded with a warning, as are invalid values.
func (c *ForecastCommand) applyOverrides(session *orchestration.Session) error {
	rows, issues, err := csv.NewLoader().LoadOverrides(c.options.OverridesFile)
	if err != nil {
		return fmt.Errorf("error loading overrides: %w", err)
	}
	for _, issue := range issues {
		c.app.Logger.Warn("override row discarded", "rig", issue.RigName, "reason", issue.Reason)
	}

	applied := 0
	for _, row := range rows {
		if session.SetOverride(row.RigName, row.Month, row.Value, row.ActivityType) {
			applied++
		}
	}

	if c.options.Verbose {
		fmt.Fprintf(c.app.Err, "✏️  Applied %d of %d overrides\n", applied, len(rows)+len(issues))
	}
	return nil
}

// rejectionLogger reports every edit the override map discards
func (c *ForecastCommand) rejectionLogger() *events.HandlerFunc {
	return &events.HandlerFunc{
		Types: []string{events.OverrideRejectedEvent},
		Fn: func(event events.Event) error {
			rejected, ok := event.Data().(events.OverrideRejected)
			if !ok {
				return fmt.Errorf("unexpected payload %T for %s", event.Data(), event.Type())
			}
			c.app.Logger.Warn("override discarded",
				"rig", rejected.RigName,
				"month", rejected.Month.String(),
				"value", rejected.Value,
				"reason", rejected.Reason)
			return nil
		},
	}
}

func (c *ForecastCommand) printOverrideEvents(store events.EventStore, streamID string) {
	recorded, err := store.ReadEvents(streamID, 1)
	if err != nil {
		c.app.Logger.Warn("failed to read session events", "error", err)
		return
	}

	counts := make(map[string]int)
	for _, event := range recorded {
		counts[event.Type()]++
	}
	fmt.Fprintf(c.app.Err, "  Override edits: %d set, %d rejected\n",
		counts[events.OverrideSetEvent], counts[events.OverrideRejectedEvent])
	for _, event := range recorded {
		if rejected, ok := event.Data().(events.OverrideRejected); ok {
			fmt.Fprintf(c.app.Err, "    ⚠️  %s %s: %s\n", rejected.RigName, rejected.Month, rejected.Reason)
		}
	}
}

// mergeScheduleIssues puts loader and validator issues on one index scale.
// Validator indexes count only the rows the loader parsed; they are shifted
// past every rejected row so both refer to data rows of the schedule file.
func mergeScheduleIssues(loadIssues, runIssues []entities.RecordIssue) []entities.RecordIssue {
	skipped := make([]int, 0, len(loadIssues))
	for _, issue := range loadIssues {
		skipped = append(skipped, issue.Index)
	}
	sort.Ints(skipped)

	merged := make([]entities.RecordIssue, 0, len(loadIssues)+len(runIssues))
	merged = append(merged, loadIssues...)
	for _, issue := range runIssues {
		row := issue.Index
		for _, index := range skipped {
			if index > row {
				break
			}
			row++
		}
		issue.Index = row
		merged = append(merged, issue)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Index < merged[j].Index
	})
	return merged
}

func (c *ForecastCommand) printHeader(ruleSet *entities.BusinessRuleSet, start entities.MonthLabel) {
	fmt.Fprintf(c.app.Err, "🚢 Vessel Demand Forecast\n")
	fmt.Fprintf(c.app.Err, "=========================\n")
	fmt.Fprintf(c.app.Err, "Rule Set: %s\n", ruleSet.Name)
	fmt.Fprintf(c.app.Err, "Horizon: %s + %d months\n", start, c.options.HorizonMonths)
	fmt.Fprintf(c.app.Err, "Demand Policy: %s\n", c.effectivePolicy(ruleSet))
	fmt.Fprintf(c.app.Err, "Internal Fleet: %.1f vessels\n\n", ruleSet.Fleet.TotalInternalFleetSize())
}

func (c *ForecastCommand) effectivePolicy(ruleSet *entities.BusinessRuleSet) entities.DemandPolicy {
	if c.options.DemandPolicy != "" {
		return entities.DemandPolicy(c.options.DemandPolicy)
	}
	return ruleSet.Policy()
}
