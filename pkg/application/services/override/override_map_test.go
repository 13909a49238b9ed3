package override

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/fleetcast/pkg/domain/entities"
	"github.com/vsinha/fleetcast/pkg/infrastructure/events"
)

func activityType(code entities.ActivityType) *entities.ActivityType {
	return &code
}

func TestMap_SetAndGet(t *testing.T) {
	m := NewMap()

	ok := m.Set("Q4000", "2025-01", 3.5, nil)

	require.True(t, ok)
	entry, found := m.Get("Q4000", "2025-01")
	require.True(t, found)
	assert.Equal(t, 3.5, entry.Value)
	assert.Nil(t, entry.ActivityType)
	assert.True(t, m.Has("Q4000", "2025-01"))
	assert.False(t, m.Has("Q4000", "2025-02"))
	assert.Equal(t, 1, m.Len())
}

func TestMap_SetReplacesPrevious(t *testing.T) {
	m := NewMap()
	m.Set("Q4000", "2025-01", 3.5, nil)

	m.Set("Q4000", "2025-01", 0, nil)

	entry, _ := m.Get("Q4000", "2025-01")
	assert.Equal(t, 0.0, entry.Value, "zero is a valid override")
	assert.Equal(t, 1, m.Len())
}

func TestMap_RigNameWhitespaceIsIgnored(t *testing.T) {
	m := NewMap()

	require.True(t, m.Set(" Q4000 ", "2025-01", 2, nil))

	entry, found := m.Get(" Q4000 ", "2025-01")
	require.True(t, found)
	assert.Equal(t, 2.0, entry.Value)
	assert.True(t, m.Has("Q4000", "2025-01"))
	assert.True(t, m.Has("\tQ4000", "2025-01"))
	assert.Equal(t, []string{"Q4000"}, m.RigNames())
}

func TestMap_SetNormalizesActivityType(t *testing.T) {
	m := NewMap()

	m.Set(" Q4000 ", "2025-01", 1, activityType("cpl"))

	entry, found := m.Get("Q4000", "2025-01")
	require.True(t, found)
	require.NotNil(t, entry.ActivityType)
	assert.Equal(t, entities.Completion, *entry.ActivityType)
}

func TestMap_RejectsInvalidEdits(t *testing.T) {
	tests := []struct {
		name  string
		rig   string
		month entities.MonthLabel
		value float64
	}{
		{"negative value", "Q4000", "2025-01", -1},
		{"not a number", "Q4000", "2025-01", math.NaN()},
		{"infinite", "Q4000", "2025-01", math.Inf(1)},
		{"empty rig", "  ", "2025-01", 1},
		{"malformed month", "Q4000", "2025-1", 1},
		{"month out of range", "Q4000", "2025-13", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMap()
			m.Set("Q4000", "2025-01", 2, nil)

			ok := m.Set(tt.rig, tt.month, tt.value, nil)

			assert.False(t, ok)
			entry, _ := m.Get("Q4000", "2025-01")
			assert.Equal(t, 2.0, entry.Value, "previous state must survive a rejected edit")
			assert.Equal(t, 1, m.Len())
		})
	}
}

func TestMap_ResetAll(t *testing.T) {
	m := NewMap()
	m.Set("Q4000", "2025-01", 1, nil)
	m.Set("Stena Evolution", "2025-02", 2, nil)

	m.ResetAll()

	assert.Zero(t, m.Len())
	assert.False(t, m.Has("Q4000", "2025-01"))
	assert.Equal(t, "OverrideMap{empty}", m.String())
}

func TestMap_KeysAndRigNamesAreOrdered(t *testing.T) {
	m := NewMap()
	m.Set("Stena Evolution", "2025-02", 2, nil)
	m.Set("Q4000", "2025-03", 1, nil)
	m.Set("Q4000", "2025-01", 1, nil)

	keys := m.Keys()

	assert.Equal(t, []entities.CellKey{
		{RigName: "Q4000", Month: "2025-01"},
		{RigName: "Q4000", Month: "2025-03"},
		{RigName: "Stena Evolution", Month: "2025-02"},
	}, keys)
	assert.Equal(t, []string{"Q4000", "Stena Evolution"}, m.RigNames())
}

func TestRecordedMap_AppendsEvents(t *testing.T) {
	// Arrange
	store := events.NewInMemoryEventStore()
	m := NewRecordedMap(store, "session-1")

	// Act
	m.Set("Q4000", "2025-01", 1, nil)
	m.Set("Q4000", "2025-01", 2, nil)
	m.Set("Q4000", "2025-01", -1, nil)
	m.ResetAll()

	// Assert
	recorded, err := store.ReadEvents("session-1", 1)
	require.NoError(t, err)
	require.Len(t, recorded, 4)

	assert.Equal(t, events.OverrideSetEvent, recorded[0].Type())
	first := recorded[0].Data().(events.OverrideSet)
	assert.Nil(t, first.Previous)

	second := recorded[1].Data().(events.OverrideSet)
	require.NotNil(t, second.Previous)
	assert.Equal(t, 1.0, *second.Previous)
	assert.Equal(t, 2, recorded[1].Version())

	assert.Equal(t, events.OverrideRejectedEvent, recorded[2].Type())
	assert.Equal(t, "value cannot be negative", recorded[2].Data().(events.OverrideRejected).Reason)

	assert.Equal(t, events.OverridesResetEvent, recorded[3].Type())
	assert.Equal(t, 1, recorded[3].Data().(events.OverridesReset).Cleared)
}
