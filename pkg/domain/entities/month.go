package entities

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used for activity windows
const DateLayout = "2006-01-02"

// MonthLayout is the format of a MonthLabel
const MonthLayout = "2006-01"

// MonthLabel identifies one calendar month as "YYYY-MM".
// Lexical order of labels matches chronological order.
type MonthLabel string

// MonthOf returns the label of the month containing t
func MonthOf(t time.Time) MonthLabel {
	return MonthLabel(fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month())))
}

// ParseMonthLabel accepts "YYYY-MM" or a full "YYYY-MM-DD" date
func ParseMonthLabel(s string) (MonthLabel, error) {
	if t, err := time.Parse(MonthLayout, s); err == nil {
		return MonthOf(t), nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return MonthOf(t), nil
	}
	return "", fmt.Errorf("invalid month %q (expected YYYY-MM)", s)
}

// FirstDay returns midnight UTC on the first day of the month
func (m MonthLabel) FirstDay() time.Time {
	t, err := time.Parse(MonthLayout, string(m))
	if err != nil {
		return time.Time{}
	}
	return t
}

// LastDay returns midnight UTC on the last day of the month
func (m MonthLabel) LastDay() time.Time {
	return m.FirstDay().AddDate(0, 1, -1)
}

// DaysIn returns the number of calendar days in the month
func (m MonthLabel) DaysIn() int {
	return m.LastDay().Day()
}

// Next returns the following calendar month
func (m MonthLabel) Next() MonthLabel {
	return MonthOf(m.FirstDay().AddDate(0, 1, 0))
}

func (m MonthLabel) String() string {
	return string(m)
}
