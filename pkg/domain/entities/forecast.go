package entities

import "fmt"

// CellKey addresses one (rig, month) cell of the forecast table
type CellKey struct {
	RigName string
	Month   MonthLabel
}

func (k CellKey) String() string {
	return fmt.Sprintf("%s@%s", k.RigName, k.Month)
}

// MonthlyCell is the computed demand of one rig in one month.
// Cells are produced once per run and never mutated; overrides live elsewhere.
type MonthlyCell struct {
	RigName          string       `json:"rig_name"`
	Month            MonthLabel   `json:"month"`
	Demand           float64      `json:"demand"`
	VesselsRequired  float64      `json:"vessels_required"`
	ActivityType     ActivityType `json:"activity_type"`
	IsBatch          bool         `json:"is_batch"`
	BreakdownFormula string       `json:"breakdown_formula"`
	Contributions    int          `json:"contributions"`
}

// Key returns the cell's address
func (c *MonthlyCell) Key() CellKey {
	return CellKey{RigName: c.RigName, Month: c.Month}
}

// IssueSeverity classifies an ingestion finding
type IssueSeverity int

const (
	SeverityWarning IssueSeverity = iota
	SeverityRejected
)

// String method for IssueSeverity enum
func (s IssueSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "Warning"
	case SeverityRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// RecordIssue reports a problem with one input record
type RecordIssue struct {
	Index    int           `json:"index"`
	RigName  string        `json:"rig_name"`
	Severity IssueSeverity `json:"severity"`
	Reason   string        `json:"reason"`
}

func (i RecordIssue) Error() string {
	return fmt.Sprintf("record %d (%s): %s", i.Index, i.RigName, i.Reason)
}
