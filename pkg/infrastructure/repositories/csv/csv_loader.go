package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vsinha/fleetcast/pkg/domain/entities"
)

// ActivityHeader is the expected header of a rig schedule file
var ActivityHeader = []string{"rig_name", "location", "activity_type", "start_date", "end_date", "is_batch"}

// OverrideHeader is the expected header of an override file
var OverrideHeader = []string{"rig_name", "month", "value", "activity_type"}

// OverrideRow is one manual edit read from an override file
type OverrideRow struct {
	RigName      string
	Month        entities.MonthLabel
	Value        float64
	ActivityType *entities.ActivityType
}

// Loader handles loading rig schedules and overrides from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadActivities loads a rig schedule from a CSV file.
// Rows whose dates or batch flag cannot be parsed are skipped and reported as
// rejected issues; a bad header or column count fails the whole file.
func (l *Loader) LoadActivities(filename string) ([]*entities.RigActivity, []entities.RecordIssue, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open schedule file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadActivities(file)
}

// ReadActivities parses a rig schedule from r
func (l *Loader) ReadActivities(r io.Reader) ([]*entities.RigActivity, []entities.RecordIssue, error) {
	records, err := readRecords(r, "schedule", ActivityHeader)
	if err != nil {
		return nil, nil, err
	}

	var activities []*entities.RigActivity
	var issues []entities.RecordIssue
	for i, record := range records {
		activity, err := parseActivity(record)
		if err != nil {
			issues = append(issues, entities.RecordIssue{
				Index:    i,
				RigName:  strings.TrimSpace(record[0]),
				Severity: entities.SeverityRejected,
				Reason:   fmt.Sprintf("row %d: %v", i+2, err),
			})
			continue
		}
		activities = append(activities, activity)
	}

	return activities, issues, nil
}

// LoadOverrides loads manual cell edits from a CSV file.
// Rows whose month or value cannot be parsed are skipped and reported as
// rejected issues, the same way the override map discards invalid edits.
func (l *Loader) LoadOverrides(filename string) ([]OverrideRow, []entities.RecordIssue, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open overrides file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadOverrides(file)
}

// ReadOverrides parses override rows from r. Range checks are left to the
// override map, which discards invalid values.
func (l *Loader) ReadOverrides(r io.Reader) ([]OverrideRow, []entities.RecordIssue, error) {
	records, err := readRecords(r, "overrides", OverrideHeader)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]OverrideRow, 0, len(records))
	var issues []entities.RecordIssue
	for i, record := range records {
		row, err := parseOverride(record)
		if err != nil {
			issues = append(issues, entities.RecordIssue{
				Index:    i,
				RigName:  strings.TrimSpace(record[0]),
				Severity: entities.SeverityRejected,
				Reason:   fmt.Sprintf("row %d: %v", i+2, err),
			})
			continue
		}
		rows = append(rows, row)
	}

	return rows, issues, nil
}

// WriteActivities writes a rig schedule in the format LoadActivities reads
func (l *Loader) WriteActivities(w io.Writer, activities []*entities.RigActivity) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ActivityHeader); err != nil {
		return fmt.Errorf("failed to write schedule header: %w", err)
	}

	for _, activity := range activities {
		record := []string{
			activity.RigName,
			string(activity.Location),
			string(activity.ActivityType),
			activity.StartDate.Format(entities.DateLayout),
			activity.EndDate.Format(entities.DateLayout),
			strconv.FormatBool(activity.IsBatchOperation),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write schedule row for %s: %w", activity.RigName, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Helper functions for parsing CSV records

func readRecords(r io.Reader, kind string, expectedHeader []string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have a header row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}

	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseActivity(record []string) (*entities.RigActivity, error) {
	startDate, err := parseDate(record[3])
	if err != nil {
		return nil, fmt.Errorf("invalid start_date: %w", err)
	}

	endDate, err := parseDate(record[4])
	if err != nil {
		return nil, fmt.Errorf("invalid end_date: %w", err)
	}

	isBatch, err := parseBool(record[5])
	if err != nil {
		return nil, fmt.Errorf("invalid is_batch: %s", record[5])
	}

	activityType, _ := entities.ParseActivityType(record[2])

	// Range and lookup checks belong to the activity validator
	return &entities.RigActivity{
		RigName:          strings.TrimSpace(record[0]),
		Location:         entities.LocationKey(strings.TrimSpace(record[1])),
		ActivityType:     activityType,
		StartDate:        startDate,
		EndDate:          endDate,
		IsBatchOperation: isBatch,
	}, nil
}

func parseOverride(record []string) (OverrideRow, error) {
	month, err := entities.ParseMonthLabel(strings.TrimSpace(record[1]))
	if err != nil {
		return OverrideRow{}, fmt.Errorf("invalid month: %w", err)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return OverrideRow{}, fmt.Errorf("invalid value: %s", record[2])
	}

	row := OverrideRow{
		RigName: strings.TrimSpace(record[0]),
		Month:   month,
		Value:   value,
	}
	if raw := strings.TrimSpace(record[3]); raw != "" {
		code, _ := entities.ParseActivityType(raw)
		row.ActivityType = &code
	}

	return row, nil
}

// parseDate returns the zero time for an empty cell so the validator can reject it
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(entities.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s (expected YYYY-MM-DD)", s)
	}
	return t, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "no", "n":
		return false, nil
	case "1", "true", "yes", "y":
		return true, nil
	default:
		return false, fmt.Errorf("invalid boolean: %s", s)
	}
}
