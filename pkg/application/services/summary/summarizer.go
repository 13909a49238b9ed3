package summary

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/vsinha/fleetcast/pkg/application/dto"
)

// ErrEmptyHorizon is returned when a forecast has no month columns
var ErrEmptyHorizon = errors.New("forecast horizon is empty")

// Summarize reduces a forecast to its fleet-sizing KPIs over the full horizon.
// Peak ties resolve to the earliest month.
func Summarize(forecast *dto.TabularForecast) (*dto.ForecastSummary, error) {
	if forecast == nil || len(forecast.MonthlyColumns) == 0 {
		return nil, ErrEmptyHorizon
	}

	n := len(forecast.MonthlyColumns)
	demand := make([]float64, n)
	required := make([]float64, n)
	internal := make([]float64, n)
	external := make([]float64, n)
	for i, month := range forecast.MonthlyColumns {
		demand[i] = forecast.TotalDemand[month]
		required[i] = forecast.VesselsRequired[month]
		internal[i] = forecast.Totals.InternalFleet[month]
		external[i] = forecast.Totals.ExternallySourced[month]
	}

	peakIdx := floats.MaxIdx(required)

	summary := &dto.ForecastSummary{
		Months:                   n,
		AverageMonthlyDemand:     stat.Mean(demand, nil),
		PeakMonthlyDemand:        floats.Max(demand),
		AverageVesselsRequired:   stat.Mean(required, nil),
		PeakMonth:                forecast.MonthlyColumns[peakIdx],
		PeakVesselsRequired:      required[peakIdx],
		AverageExternallySourced: stat.Mean(external, nil),
		PeakExternallySourced:    floats.Max(external),
		AverageInternalFleet:     stat.Mean(internal, nil),
		InternalFleetSize:        forecast.InternalFleet,
	}

	if forecast.InternalFleet > 0 {
		summary.Utilization = summary.AverageInternalFleet / forecast.InternalFleet
	}
	if forecast.Capability > 0 {
		summary.RecommendedVessels = vesselCount(summary.AverageMonthlyDemand / forecast.Capability)
		summary.PeakRecommendedVessels = vesselCount(summary.PeakMonthlyDemand / forecast.Capability)
	}
	summary.BaselineGap = float64(summary.RecommendedVessels) - forecast.InternalFleet

	return summary, nil
}

// vesselCount rounds a fractional requirement up to whole vessels, ignoring
// summation noise below 1e-9.
func vesselCount(x float64) int {
	if x <= 0 {
		return 0
	}
	return int(math.Ceil(x - 1e-9))
}
