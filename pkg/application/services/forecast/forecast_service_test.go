package forecast

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/fleetcast/pkg/application/dto"
	"github.com/vsinha/fleetcast/pkg/domain/entities"
	"github.com/vsinha/fleetcast/pkg/infrastructure/rules"
	fctesting "github.com/vsinha/fleetcast/pkg/infrastructure/testing"
)

var january2025 = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *ForecastService {
	t.Helper()
	service, err := NewForecastService(rules.Baseline())
	require.NoError(t, err)
	return service
}

func TestForecastService_Run(t *testing.T) {
	// Arrange
	service := newTestService(t)
	req := ForecastRequest{
		Activities:    fctesting.BuildDeepwaterScenario(),
		StartMonth:    january2025,
		HorizonMonths: 3,
	}

	// Act
	result, err := service.Run(context.Background(), req)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, rules.BaselineRuleSet, result.RuleSet)
	assert.Empty(t, result.Issues)

	forecast := result.Forecast
	assert.Equal(t, []string{"Deepwater Conqueror", "Deepwater Poseidon", "Valaris DS-16"}, forecast.RigNames())

	poseidon, ok := forecast.Cell("Deepwater Poseidon", "2025-01")
	require.True(t, ok)
	assert.InDelta(t, 24.9, poseidon.Demand, 1e-9)
	assert.InDelta(t, 24.9/6.5, poseidon.VesselsRequired, 1e-9)

	_, ok = forecast.Cell("Deepwater Poseidon", "2025-03")
	assert.False(t, ok)

	ds16, ok := forecast.Cell("Valaris DS-16", "2025-02")
	require.True(t, ok)
	assert.Equal(t, entities.Drilling, ds16.ActivityType, "later-starting activity classifies the month")
	assert.InDelta(t, 6.0*0.3+6.0, ds16.Demand, 1e-9)
}

func TestForecastService_RunIsDeterministic(t *testing.T) {
	service := newTestService(t)
	req := ForecastRequest{
		Activities:    fctesting.BuildDeepwaterScenario(),
		StartMonth:    january2025,
		HorizonMonths: 6,
	}

	first, err := service.Run(context.Background(), req)
	require.NoError(t, err)
	second, err := service.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Forecast, second.Forecast)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestForecastService_InvalidRecordsAreReported(t *testing.T) {
	service := newTestService(t)
	activities := append(fctesting.BuildDeepwaterScenario(), &entities.RigActivity{
		RigName:      "Deepwater Poseidon",
		Location:     "WR",
		ActivityType: entities.Drilling,
		StartDate:    fctesting.Date(2025, time.March, 10),
		EndDate:      fctesting.Date(2025, time.March, 1),
	})

	result, err := service.Run(context.Background(), ForecastRequest{
		Activities:    activities,
		StartMonth:    january2025,
		HorizonMonths: 3,
	})

	require.NoError(t, err)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, entities.SeverityRejected, result.Issues[0].Severity)
	assert.Equal(t, 4, result.Issues[0].Index)
	_, ok := result.Forecast.Cell("Deepwater Poseidon", "2025-03")
	assert.False(t, ok)
}

func TestForecastService_InvalidHorizon(t *testing.T) {
	service := newTestService(t)

	_, err := service.Run(context.Background(), ForecastRequest{StartMonth: january2025, HorizonMonths: 0})

	assert.True(t, errors.Is(err, ErrInvalidHorizon))
}

func TestForecastService_CancelledContext(t *testing.T) {
	service := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Run(ctx, ForecastRequest{
		Activities:    fctesting.BuildDeepwaterScenario(),
		StartMonth:    january2025,
		HorizonMonths: 3,
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestForecastService_Filters(t *testing.T) {
	service := newTestService(t)
	base := ForecastRequest{
		Activities:    fctesting.BuildDeepwaterScenario(),
		StartMonth:    january2025,
		HorizonMonths: 3,
	}

	t.Run("rig filter resolves aliases", func(t *testing.T) {
		req := base
		req.RigFilter = []string{"DSP"}

		result, err := service.Run(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, []string{"Deepwater Poseidon"}, result.Forecast.RigNames())
		assert.Equal(t, dto.ForecastScope{Rigs: []string{"Deepwater Poseidon"}}, result.Forecast.Scope)
	})

	t.Run("location filter accepts display names", func(t *testing.T) {
		req := base
		req.LocationFilter = []string{"Green Canyon", "mc"}

		result, err := service.Run(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, []string{"Deepwater Conqueror", "Valaris DS-16"}, result.Forecast.RigNames())
		assert.Equal(t, []entities.LocationKey{"GC", "MC"}, result.Forecast.Scope.Locations)
		assert.Empty(t, result.Forecast.Scope.Rigs)
	})

	t.Run("unfiltered run has an empty scope", func(t *testing.T) {
		result, err := service.Run(context.Background(), base)

		require.NoError(t, err)
		assert.Equal(t, dto.ForecastScope{}, result.Forecast.Scope)
	})
}

func TestForecastService_LogsUnknownReferencesOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	service, err := NewForecastServiceWithConfig(rules.Baseline(), EngineConfig{Logger: logger})
	require.NoError(t, err)

	activities := []*entities.RigActivity{
		fctesting.NewActivity("Deepwater Poseidon").At("ZZ").Build(),
		fctesting.NewActivity("Deepwater Poseidon").At("ZZ").Between("2025-02-01", "2025-02-28").Build(),
	}

	_, err = service.Run(context.Background(), ForecastRequest{
		Activities:    activities,
		StartMonth:    january2025,
		HorizonMonths: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(buf.String(), "unknown location, using default profile"))
}

func TestForecastService_PolicyOverride(t *testing.T) {
	service, err := NewForecastServiceWithConfig(rules.Baseline(), EngineConfig{DemandPolicy: entities.ProratedDemand})
	require.NoError(t, err)

	result, err := service.Run(context.Background(), ForecastRequest{
		Activities: []*entities.RigActivity{
			fctesting.NewActivity("Q4000").At("GC").Between("2025-01-01", "2025-01-15").Build(),
		},
		StartMonth:    january2025,
		HorizonMonths: 1,
	})

	require.NoError(t, err)
	cell, ok := result.Forecast.Cell("Q4000", "2025-01")
	require.True(t, ok)
	assert.InDelta(t, 6.5*15/31, cell.Demand, 1e-9)
}

func TestNewForecastService_RejectsInvalidRuleSet(t *testing.T) {
	_, err := NewForecastService(nil)
	assert.Error(t, err)

	ruleSet := rules.Baseline()
	ruleSet.Name = ""
	_, err = NewForecastService(ruleSet)
	assert.Error(t, err)
}
