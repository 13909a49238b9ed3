package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/vsinha/fleetcast/pkg/application/services/forecast"
	"github.com/vsinha/fleetcast/pkg/application/services/orchestration"
	"github.com/vsinha/fleetcast/pkg/domain/entities"
	"github.com/vsinha/fleetcast/pkg/infrastructure/events"
	"github.com/vsinha/fleetcast/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/fleetcast/pkg/infrastructure/rules"
	"github.com/vsinha/fleetcast/pkg/interfaces/cli/output"
)

func main() {
	ctx := context.Background()

	// Set up a small Walker Ridge / Green Canyon campaign
	activityRepo := memory.NewActivityRepository()
	if err := activityRepo.LoadActivities(ctx, buildCampaign()); err != nil {
		fmt.Printf("❌ Failed to load schedule: %v\n", err)
		return
	}

	service, err := forecast.NewForecastService(rules.Baseline())
	if err != nil {
		fmt.Printf("❌ Failed to create forecast service: %v\n", err)
		return
	}

	store := events.NewInMemoryEventStore()
	session := orchestration.NewSession(service, activityRepo, store)

	fmt.Println("🚢 Forecasting vessel demand for H1 2025...")
	result, err := session.Recompute(ctx, orchestration.PlanningRequest{
		StartMonth:    time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		HorizonMonths: 6,
	})
	if err != nil {
		fmt.Printf("❌ Forecast failed: %v\n", err)
		return
	}

	// Show the demand breakdown for each computed cell
	fmt.Println("📝 Demand breakdown:")
	for _, cell := range result.Forecast.CellList() {
		fmt.Printf("  %s %s: %s\n", cell.RigName, cell.Month, cell.BreakdownFormula)
	}
	fmt.Println()

	// A planner expects the Poseidon campaign to need an extra vessel in March
	march := entities.MonthLabel("2025-03")
	before, _ := session.GetValue("Deepwater Poseidon", march)
	session.SetOverride("DW Poseidon", march, before+1, nil)
	after, _ := session.GetValue("Deepwater Poseidon", march)
	fmt.Printf("✏️  Override Deepwater Poseidon %s: %.2f -> %.2f\n", march, before, after)

	// Negative values are discarded
	if !session.SetOverride("Deepwater Poseidon", march, -1, nil) {
		fmt.Println("⚠️  Rejected negative override")
	}
	fmt.Println()

	planning, err := session.Snapshot(result)
	if err != nil {
		fmt.Printf("❌ Summary failed: %v\n", err)
		return
	}

	if err := output.Generate(os.Stdout, output.Report{
		Result:    result,
		Forecast:  planning.Forecast,
		Summary:   planning.Summary,
		Overrides: planning.Overrides,
	}, output.Config{Format: "text", Precision: 2}); err != nil {
		fmt.Printf("❌ Output failed: %v\n", err)
		return
	}

	recorded, _ := store.ReadEvents(session.ID(), 0)
	fmt.Printf("🧾 Session events recorded: %d\n", len(recorded))
}

func buildCampaign() []*entities.RigActivity {
	date := func(month time.Month, day int) time.Time {
		return time.Date(2025, month, day, 0, 0, 0, 0, time.UTC)
	}

	campaign := []struct {
		rig      string
		location entities.LocationKey
		code     entities.ActivityType
		start    time.Time
		end      time.Time
		batch    bool
	}{
		{"Deepwater Poseidon", "WR", entities.RigStartUp, date(time.January, 1), date(time.January, 10), false},
		{"Deepwater Poseidon", "WR", entities.Drilling, date(time.January, 11), date(time.April, 20), true},
		{"Deepwater Conqueror", "Mad Dog", entities.Completion, date(time.February, 1), date(time.March, 15), false},
		{"Deepwater Conqueror", "GC", entities.RigMaintenance, date(time.March, 16), date(time.March, 31), false},
		{"Stena Evolution", "AC", entities.Drilling, date(time.April, 1), date(time.June, 30), false},
	}

	var activities []*entities.RigActivity
	for _, c := range campaign {
		activity, err := entities.NewRigActivity(c.rig, c.location, c.code, c.start, c.end, c.batch)
		if err != nil {
			panic(err)
		}
		activities = append(activities, activity)
	}
	return activities
}
