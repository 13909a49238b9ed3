package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ActivityType is the operation code a rig is performing in a scheduled window
type ActivityType string

const (
	RigStartUp            ActivityType = "RSU"
	Drilling              ActivityType = "DRL"
	Completion            ActivityType = "CPL"
	RigMaintenance        ActivityType = "RM"
	WhiteSpace            ActivityType = "WS"
	PlugAndAbandon        ActivityType = "P&A"
	WellWorkProgram       ActivityType = "WWP"
	Mobilization          ActivityType = "MOB"
	WellIntervention      ActivityType = "WWI"
	Turnaround            ActivityType = "TAR"
	LightWellIntervention ActivityType = "LWI"
)

// ErrInvalidDateRange is returned when an activity ends before it starts
var ErrInvalidDateRange = errors.New("start date is after end date")

// KnownActivityTypes lists every recognized activity code in display order
var KnownActivityTypes = []ActivityType{
	RigStartUp,
	Drilling,
	Completion,
	RigMaintenance,
	WhiteSpace,
	PlugAndAbandon,
	WellWorkProgram,
	Mobilization,
	WellIntervention,
	Turnaround,
	LightWellIntervention,
}

// String method for ActivityType enum
func (a ActivityType) String() string {
	return string(a)
}

// IsKnown reports whether the code is one of the enumerated activity types
func (a ActivityType) IsKnown() bool {
	for _, known := range KnownActivityTypes {
		if a == known {
			return true
		}
	}
	return false
}

// ParseActivityType normalizes a raw code and reports whether it is recognized.
// Unknown codes are returned as-is so callers can fall back to a default profile.
func ParseActivityType(raw string) (ActivityType, bool) {
	code := ActivityType(strings.ToUpper(strings.TrimSpace(raw)))
	if code == "PA" || code == "P/A" {
		code = PlugAndAbandon
	}
	return code, code.IsKnown()
}

// RigActivity is one scheduled operation for a rig. Dates are inclusive.
type RigActivity struct {
	RigName          string       `json:"rig_name" validate:"required"`
	Location         LocationKey  `json:"location" validate:"required"`
	ActivityType     ActivityType `json:"activity_type" validate:"required"`
	StartDate        time.Time    `json:"start_date" validate:"required"`
	EndDate          time.Time    `json:"end_date" validate:"required,gtefield=StartDate"`
	IsBatchOperation bool         `json:"is_batch_operation"`
}

// NewRigActivity creates a validated RigActivity
func NewRigActivity(
	rigName string,
	location LocationKey,
	activityType ActivityType,
	startDate, endDate time.Time,
	isBatch bool,
) (*RigActivity, error) {
	if strings.TrimSpace(rigName) == "" {
		return nil, fmt.Errorf("rig name cannot be empty")
	}
	if startDate.IsZero() || endDate.IsZero() {
		return nil, fmt.Errorf("activity dates cannot be empty")
	}
	if startDate.After(endDate) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidDateRange,
			startDate.Format(DateLayout), endDate.Format(DateLayout))
	}

	return &RigActivity{
		RigName:          strings.TrimSpace(rigName),
		Location:         location,
		ActivityType:     activityType,
		StartDate:        startDate,
		EndDate:          endDate,
		IsBatchOperation: isBatch,
	}, nil
}

// StartMonth returns the month containing the start date
func (a *RigActivity) StartMonth() MonthLabel {
	return MonthOf(a.StartDate)
}

// EndMonth returns the month containing the end date
func (a *RigActivity) EndMonth() MonthLabel {
	return MonthOf(a.EndDate)
}

// Occupies reports whether the activity overlaps the given calendar month
func (a *RigActivity) Occupies(month MonthLabel) bool {
	return month >= a.StartMonth() && month <= a.EndMonth()
}

// CoveredDays counts the days of the month that fall inside the activity window
func (a *RigActivity) CoveredDays(month MonthLabel) int {
	if !a.Occupies(month) {
		return 0
	}
	from := month.FirstDay()
	if start := truncateDay(a.StartDate); start.After(from) {
		from = start
	}
	to := month.LastDay()
	if end := truncateDay(a.EndDate); end.Before(to) {
		to = end
	}
	return int(to.Sub(from).Hours()/24) + 1
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
