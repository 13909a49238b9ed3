package forecast

import (
	"errors"
	"fmt"
	"time"

	"github.com/vsinha/fleetcast/pkg/domain/entities"
)

// ErrInvalidHorizon is returned for a non-positive horizon length
var ErrInvalidHorizon = errors.New("horizon must be a positive number of months")

// GenerateMonthGrid returns horizonMonths consecutive month labels starting at
// the month containing start. The anchor is always passed in, never read from the clock.
func GenerateMonthGrid(start time.Time, horizonMonths int) ([]entities.MonthLabel, error) {
	if horizonMonths <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidHorizon, horizonMonths)
	}
	if start.IsZero() {
		return nil, fmt.Errorf("forecast start date cannot be empty")
	}

	grid := make([]entities.MonthLabel, horizonMonths)
	month := entities.MonthOf(start)
	for i := range grid {
		grid[i] = month
		month = month.Next()
	}
	return grid, nil
}
