package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/fleetcast/pkg/domain/entities"
	"github.com/vsinha/fleetcast/pkg/infrastructure/rules"
)

func TestSplitFleet(t *testing.T) {
	tests := []struct {
		name             string
		required         float64
		fleet            float64
		expectedInternal float64
		expectedExternal float64
	}{
		{"shortfall", 10.0, 8.5, 8.5, 1.5},
		{"under capacity", 6.0, 8.5, 6.0, 0},
		{"exactly at capacity", 8.5, 8.5, 8.5, 0},
		{"no demand", 0, 8.5, 0, 0},
		{"no internal fleet", 3.2, 0, 0, 3.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			internal, external := SplitFleet(tt.required, tt.fleet)

			assert.InDelta(t, tt.expectedInternal, internal, 1e-9)
			assert.InDelta(t, tt.expectedExternal, external, 1e-9)
			assert.InDelta(t, tt.required, internal+external, 1e-9)
		})
	}
}

func cell(rig string, month entities.MonthLabel, demand float64, code entities.ActivityType) entities.MonthlyCell {
	return entities.MonthlyCell{
		RigName:         rig,
		Month:           month,
		Demand:          demand,
		VesselsRequired: demand / 6.5,
		ActivityType:    code,
	}
}

func cellMap(cells ...entities.MonthlyCell) map[entities.CellKey]entities.MonthlyCell {
	m := make(map[entities.CellKey]entities.MonthlyCell, len(cells))
	for _, c := range cells {
		m[c.Key()] = c
	}
	return m
}

func TestAggregator_Aggregate(t *testing.T) {
	// Arrange
	aggregator := NewAggregator(rules.Baseline())
	cells := cellMap(
		cell("Stena Evolution", "2025-01", 39.0, entities.Drilling),
		cell("Deepwater Poseidon", "2025-01", 26.0, entities.Drilling),
		cell("Deepwater Poseidon", "2025-02", 39.0, entities.Completion),
	)

	// Act
	forecast := aggregator.Aggregate(q1, cells)

	// Assert
	assert.Equal(t, q1, forecast.MonthlyColumns)
	assert.Equal(t, 8.5, forecast.InternalFleet)
	assert.Equal(t, 6.5, forecast.Capability)
	require.Equal(t, []string{"Deepwater Poseidon", "Stena Evolution"}, forecast.RigNames())

	assert.InDelta(t, 65.0, forecast.TotalDemand["2025-01"], 1e-9)
	assert.InDelta(t, 10.0, forecast.VesselsRequired["2025-01"], 1e-9)
	assert.InDelta(t, 8.5, forecast.Totals.InternalFleet["2025-01"], 1e-9)
	assert.InDelta(t, 1.5, forecast.Totals.ExternallySourced["2025-01"], 1e-9)

	assert.InDelta(t, 6.0, forecast.VesselsRequired["2025-02"], 1e-9)
	assert.InDelta(t, 6.0, forecast.Totals.InternalFleet["2025-02"], 1e-9)
	assert.InDelta(t, 0.0, forecast.Totals.ExternallySourced["2025-02"], 1e-9)

	assert.Zero(t, forecast.VesselsRequired["2025-03"])
	assert.Contains(t, forecast.TotalDemand, entities.MonthLabel("2025-03"))
}

func TestAggregator_RowsAreZeroFilled(t *testing.T) {
	aggregator := NewAggregator(rules.Baseline())

	forecast := aggregator.Aggregate(q1, cellMap(cell("Q4000", "2025-02", 13.0, entities.Drilling)))

	require.Len(t, forecast.RigDemands, 1)
	row := forecast.RigDemands[0]
	assert.Len(t, row.MonthlyVessels, 3)
	assert.Zero(t, row.MonthlyVessels["2025-01"])
	assert.InDelta(t, 2.0, row.MonthlyVessels["2025-02"], 1e-9)
	assert.Equal(t, entities.Drilling, row.PrimaryActivityTypes["2025-02"])
	_, classified := row.PrimaryActivityTypes["2025-01"]
	assert.False(t, classified)
}

func TestAggregator_TotalsMatchRowSums(t *testing.T) {
	aggregator := NewAggregator(rules.Baseline())
	cells := cellMap(
		cell("A", "2025-01", 10.1, entities.Drilling),
		cell("B", "2025-01", 24.9, entities.Drilling),
		cell("C", "2025-01", 7.8, entities.Completion),
	)

	forecast := aggregator.Aggregate(q1, cells)

	var rowSum float64
	for _, row := range forecast.RigDemands {
		rowSum += row.MonthlyVessels["2025-01"]
	}
	assert.InDelta(t, forecast.VesselsRequired["2025-01"], rowSum, 1e-9)
	assert.InDelta(t, forecast.VesselsRequired["2025-01"],
		forecast.Totals.InternalFleet["2025-01"]+forecast.Totals.ExternallySourced["2025-01"], 1e-9)
}

func TestAggregator_EmptySchedule(t *testing.T) {
	aggregator := NewAggregator(rules.Baseline())

	forecast := aggregator.Aggregate(q1, nil)

	assert.Empty(t, forecast.RigDemands)
	for _, month := range q1 {
		assert.Zero(t, forecast.VesselsRequired[month])
		assert.Zero(t, forecast.Totals.ExternallySourced[month])
	}
}
