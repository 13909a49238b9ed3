package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vsinha/fleetcast/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/fleetcast/pkg/infrastructure/repositories/gormstore"
)

// newScheduleCommand creates the schedule command with subcommands
func newScheduleCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Manage the stored rig schedule",
		Long: `Import rig schedules into the configured database (SQLite by default,
PostgreSQL via database.type=postgres and database.url) so forecasts can
run with --from-db, and export the stored schedule back to CSV.

Examples:
  fleetcast schedule import --file schedule.csv
  fleetcast schedule import --file schedule.csv --replace
  fleetcast schedule export --file stored.csv`,
	}

	cmd.AddCommand(newScheduleImportCommand(app))
	cmd.AddCommand(newScheduleExportCommand(app))

	return cmd
}

func newScheduleImportCommand(app *App) *cobra.Command {
	var (
		file    string
		replace bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a schedule CSV into the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return importSchedule(cmd.Context(), app, file, replace)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to rig schedule CSV file")
	cmd.Flags().BoolVar(&replace, "replace", false, "Replace the stored schedule instead of appending")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newScheduleExportCommand(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the stored schedule as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportSchedule(cmd.Context(), app, file)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Destination CSV file (default: stdout)")

	return cmd
}

func importSchedule(ctx context.Context, app *App, file string, replace bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	activities, issues, err := csv.NewLoader().LoadActivities(file)
	if err != nil {
		return fmt.Errorf("error loading schedule: %w", err)
	}
	for _, issue := range issues {
		app.Logger.Warn("schedule row rejected", "rig", issue.RigName, "reason", issue.Reason)
	}

	db, err := gormstore.NewConnection(&app.Config.Database)
	if err != nil {
		return fmt.Errorf("failed to open schedule store: %w", err)
	}
	defer gormstore.Close(db)

	if err := gormstore.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate schedule store: %w", err)
	}

	repo := gormstore.NewGormActivityRepository(db)
	if replace {
		err = repo.ReplaceActivities(ctx, activities)
	} else {
		err = repo.LoadActivities(ctx, activities)
	}
	if err != nil {
		return err
	}

	total, err := repo.Count(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(app.Err, "✅ Imported %d activities (%d rows rejected); %d stored\n", len(activities), len(issues), total)
	return nil
}

func exportSchedule(ctx context.Context, app *App, file string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := gormstore.NewConnection(&app.Config.Database)
	if err != nil {
		return fmt.Errorf("failed to open schedule store: %w", err)
	}
	defer gormstore.Close(db)

	if err := gormstore.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate schedule store: %w", err)
	}

	activities, err := gormstore.NewGormActivityRepository(db).GetActivities(ctx)
	if err != nil {
		return err
	}

	out := app.Out
	if file != "" {
		f, err := os.Create(file)
		if err != nil {
			return fmt.Errorf("failed to create schedule file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return csv.NewLoader().WriteActivities(out, activities)
}
