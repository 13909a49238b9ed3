package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/fleetcast/pkg/domain/entities"
	"github.com/vsinha/fleetcast/pkg/infrastructure/rules"
	fctesting "github.com/vsinha/fleetcast/pkg/infrastructure/testing"
)

var q1 = []entities.MonthLabel{"2025-01", "2025-02", "2025-03"}

func TestSpreader_UltraDeepBatchDrilling(t *testing.T) {
	// Arrange
	spreader := NewSpreader(rules.Baseline(), "", nil)
	activity := fctesting.NewActivity("Deepwater Poseidon").At("WR").Between("2025-01-01", "2025-01-31").Batch().Build()

	// Act
	contribution := spreader.Demand(activity, "2025-01")

	// Assert
	assert.InDelta(t, 24.9, contribution.Demand, 1e-9)
	assert.Equal(t, "8.30 × 1.00 (DRL) × 3.00 (UDW batch) = 24.90", contribution.Formula)
}

func TestSpreader_StandardBatchDrilling(t *testing.T) {
	spreader := NewSpreader(rules.Baseline(), "", nil)
	activity := fctesting.NewActivity("Deepwater Conqueror").At("GC").Batch().Build()

	contribution := spreader.Demand(activity, "2025-01")

	assert.InDelta(t, 13.0, contribution.Demand, 1e-9)
	assert.Contains(t, contribution.Formula, "× 2.00 (batch)")
}

func TestSpreader_BatchOnlyAppliesToDrilling(t *testing.T) {
	spreader := NewSpreader(rules.Baseline(), "", nil)
	completion := fctesting.NewActivity("Deepwater Conqueror").At("WR").Type(entities.Completion).Batch().Build()

	contribution := spreader.Demand(completion, "2025-01")

	assert.InDelta(t, 8.3*1.2, contribution.Demand, 1e-9)
	assert.NotContains(t, contribution.Formula, "batch")
}

func TestSpreader_TransitPenalty(t *testing.T) {
	spreader := NewSpreader(rules.Baseline(), "", nil)
	activity := fctesting.NewActivity("Stena Evolution").At("AC").Build()

	contribution := spreader.Demand(activity, "2025-01")

	assert.InDelta(t, 10.5, contribution.Demand, 1e-9)
	assert.Contains(t, contribution.Formula, "× 1.50 (transit)")
}

func TestSpreader_UnknownReferencesUseDefaults(t *testing.T) {
	spreader := NewSpreader(rules.Baseline(), "", nil)
	activity := fctesting.NewActivity("Q4000").At("ZZ").Type("XYZ").Build()

	contribution := spreader.Demand(activity, "2025-01")

	assert.InDelta(t, 6.5, contribution.Demand, 1e-9)
}

func TestSpreader_SpreadsAcrossOccupiedMonths(t *testing.T) {
	// Arrange
	ruleSet := rules.Baseline()
	spreader := NewSpreader(ruleSet, "", nil)
	activity := fctesting.NewActivity("Deepwater Poseidon").At("WR").Between("2025-01-20", "2025-02-03").Build()

	// Act
	cells := spreader.Spread([]*entities.RigActivity{activity}, q1)

	// Assert
	require.Len(t, cells, 2)
	for _, month := range []entities.MonthLabel{"2025-01", "2025-02"} {
		cell, ok := cells[entities.CellKey{RigName: "Deepwater Poseidon", Month: month}]
		require.True(t, ok, month)
		assert.InDelta(t, 8.3, cell.Demand, 1e-9)
		assert.InDelta(t, 8.3/6.5, cell.VesselsRequired, 1e-9)
		assert.Equal(t, entities.Drilling, cell.ActivityType)
	}
	_, ok := cells[entities.CellKey{RigName: "Deepwater Poseidon", Month: "2025-03"}]
	assert.False(t, ok)
}

func TestSpreader_SingleDayActivity(t *testing.T) {
	spreader := NewSpreader(rules.Baseline(), "", nil)
	activity := fctesting.NewActivity("Q4000").At("GC").Between("2025-02-14", "2025-02-14").Build()

	cells := spreader.Spread([]*entities.RigActivity{activity}, q1)

	require.Len(t, cells, 1)
	_, ok := cells[entities.CellKey{RigName: "Q4000", Month: "2025-02"}]
	assert.True(t, ok)
}

func TestSpreader_TruncatesToHorizon(t *testing.T) {
	spreader := NewSpreader(rules.Baseline(), "", nil)
	activities := []*entities.RigActivity{
		fctesting.NewActivity("Deepwater Poseidon").At("GC").Between("2024-11-01", "2025-01-15").Build(),
		fctesting.NewActivity("Deepwater Poseidon").At("GC").Between("2025-03-20", "2025-06-30").Build(),
		fctesting.NewActivity("Stena Evolution").At("GC").Between("2024-01-01", "2024-12-31").Build(),
		fctesting.NewActivity("Q4000").At("GC").Between("2025-04-01", "2025-05-31").Build(),
	}

	cells := spreader.Spread(activities, q1)

	assert.Len(t, cells, 2)
	for key := range cells {
		assert.Equal(t, "Deepwater Poseidon", key.RigName)
		assert.Contains(t, q1, key.Month)
	}
}

func TestSpreader_OverlappingActivitiesSumAndLaterStartWins(t *testing.T) {
	// Arrange
	spreader := NewSpreader(rules.Baseline(), "", nil)
	activities := []*entities.RigActivity{
		fctesting.NewActivity("Valaris DS-16").At("MC").Type(entities.Drilling).Between("2025-01-01", "2025-01-20").Build(),
		fctesting.NewActivity("Valaris DS-16").At("MC").Type(entities.RigMaintenance).Between("2025-01-21", "2025-01-31").Build(),
	}

	// Act
	cells := spreader.Spread(activities, q1)

	// Assert
	cell := cells[entities.CellKey{RigName: "Valaris DS-16", Month: "2025-01"}]
	assert.InDelta(t, 6.0+6.0*0.3, cell.Demand, 1e-9)
	assert.Equal(t, entities.RigMaintenance, cell.ActivityType)
	assert.Equal(t, 2, cell.Contributions)
	assert.Contains(t, cell.BreakdownFormula, " + ")
	assert.Contains(t, cell.BreakdownFormula, "= 7.80")
}

func TestSpreader_PrimaryTieGoesToLaterInput(t *testing.T) {
	spreader := NewSpreader(rules.Baseline(), "", nil)
	activities := []*entities.RigActivity{
		fctesting.NewActivity("Valaris DS-16").At("MC").Type(entities.Completion).Between("2025-01-05", "2025-01-31").Build(),
		fctesting.NewActivity("Valaris DS-16").At("MC").Type(entities.WellIntervention).Between("2025-01-05", "2025-01-10").Build(),
	}

	cells := spreader.Spread(activities, q1)

	cell := cells[entities.CellKey{RigName: "Valaris DS-16", Month: "2025-01"}]
	assert.Equal(t, entities.WellIntervention, cell.ActivityType)
}

func TestSpreader_ProratedPolicy(t *testing.T) {
	// Arrange
	spreader := NewSpreader(rules.Baseline(), entities.ProratedDemand, nil)
	activity := fctesting.NewActivity("Deepwater Poseidon").At("WR").Between("2024-01-20", "2024-03-05").Build()
	grid := []entities.MonthLabel{"2024-01", "2024-02", "2024-03"}

	// Act
	cells := spreader.Spread([]*entities.RigActivity{activity}, grid)

	// Assert
	jan := cells[entities.CellKey{RigName: "Deepwater Poseidon", Month: "2024-01"}]
	feb := cells[entities.CellKey{RigName: "Deepwater Poseidon", Month: "2024-02"}]
	mar := cells[entities.CellKey{RigName: "Deepwater Poseidon", Month: "2024-03"}]
	assert.InDelta(t, 8.3*12/31, jan.Demand, 1e-9)
	assert.InDelta(t, 8.3, feb.Demand, 1e-9)
	assert.InDelta(t, 8.3*5/31, mar.Demand, 1e-9)
	assert.Contains(t, jan.BreakdownFormula, "× 12/31 days")
}

func TestSpreader_RuleSetPolicyIsDefault(t *testing.T) {
	ruleSet := rules.Baseline()
	ruleSet.DemandPolicy = entities.ProratedDemand

	spreader := NewSpreader(ruleSet, "", nil)
	activity := fctesting.NewActivity("Q4000").At("GC").Between("2025-01-01", "2025-01-15").Build()

	contribution := spreader.Demand(activity, "2025-01")

	assert.InDelta(t, 6.5*15/31, contribution.Demand, 1e-9)
}

func TestSpreader_WhiteSpaceContributesZero(t *testing.T) {
	spreader := NewSpreader(rules.Baseline(), "", nil)
	activity := fctesting.NewActivity("Q4000").At("GC").Type(entities.WhiteSpace).Build()

	cells := spreader.Spread([]*entities.RigActivity{activity}, q1)

	cell, ok := cells[entities.CellKey{RigName: "Q4000", Month: "2025-01"}]
	require.True(t, ok)
	assert.Zero(t, cell.Demand)
	assert.Equal(t, entities.WhiteSpace, cell.ActivityType)
}
