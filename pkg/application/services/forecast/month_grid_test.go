package forecast

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/fleetcast/pkg/domain/entities"
)

func TestGenerateMonthGrid(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		horizon  int
		expected []entities.MonthLabel
	}{
		{
			name:     "single month",
			start:    time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			horizon:  1,
			expected: []entities.MonthLabel{"2025-03"},
		},
		{
			name:     "mid-month anchor crosses year end",
			start:    time.Date(2024, time.November, 17, 15, 30, 0, 0, time.UTC),
			horizon:  4,
			expected: []entities.MonthLabel{"2024-11", "2024-12", "2025-01", "2025-02"},
		},
		{
			name:     "anchor on the 31st",
			start:    time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC),
			horizon:  3,
			expected: []entities.MonthLabel{"2025-01", "2025-02", "2025-03"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := GenerateMonthGrid(tt.start, tt.horizon)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, grid)
		})
	}
}

func TestGenerateMonthGrid_Deterministic(t *testing.T) {
	start := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	first, err := GenerateMonthGrid(start, 24)
	require.NoError(t, err)
	second, err := GenerateMonthGrid(start, 24)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 24)
	for i := 1; i < len(first); i++ {
		assert.Equal(t, first[i-1].Next(), first[i], "no gaps or duplicates")
	}
}

func TestGenerateMonthGrid_InvalidHorizon(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	for _, horizon := range []int{0, -3} {
		_, err := GenerateMonthGrid(start, horizon)
		assert.True(t, errors.Is(err, ErrInvalidHorizon), "horizon %d", horizon)
	}

	_, err := GenerateMonthGrid(time.Time{}, 6)
	assert.Error(t, err)
}
