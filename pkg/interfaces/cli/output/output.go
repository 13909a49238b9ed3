package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/fleetcast/pkg/application/dto"
	"github.com/vsinha/fleetcast/pkg/domain/entities"
)

const (
	// InternalFleetRow labels the row with the internally covered share of each month
	InternalFleetRow = "Internal Fleet Total"
	// ExternallySourcedRow labels the row with the shortfall above the internal fleet
	ExternallySourcedRow = "Externally Sourced"
)

// Config holds configuration for output generation
type Config struct {
	Format      string
	Precision   int32
	OutputDir   string
	Verbose     bool
	ComputeTime time.Duration
}

// Report is everything one forecast run renders
type Report struct {
	Result    *dto.ForecastResult
	Forecast  *dto.TabularForecast
	Summary   *dto.ForecastSummary
	Overrides int
}

// Generate writes the report in the configured format. With an output
// directory set, JSON and CSV go to files there instead of w.
func Generate(w io.Writer, report Report, config Config) error {
	switch config.Format {
	case "text", "":
		return generateTextOutput(w, report, config)
	case "json":
		return generateJSONOutput(w, report, config)
	case "csv":
		return generateCSVOutput(w, report, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// FormatFigure renders a figure with a fixed number of decimal places
func FormatFigure(value float64, precision int32) string {
	return decimal.NewFromFloat(value).StringFixed(precision)
}

// FlatRecords lays the forecast out as rows: a header of month labels, one row
// per rig, then the internal fleet and externally sourced totals.
func FlatRecords(forecast *dto.TabularForecast, precision int32) [][]string {
	header := make([]string, 0, len(forecast.MonthlyColumns)+1)
	header = append(header, "Rig")
	for _, month := range forecast.MonthlyColumns {
		header = append(header, month.String())
	}

	records := [][]string{header}
	for _, row := range forecast.RigDemands {
		records = append(records, figureRow(row.RigName, forecast.MonthlyColumns, row.MonthlyVessels, precision))
	}
	records = append(records,
		figureRow(InternalFleetRow, forecast.MonthlyColumns, forecast.Totals.InternalFleet, precision),
		figureRow(ExternallySourcedRow, forecast.MonthlyColumns, forecast.Totals.ExternallySourced, precision),
	)
	return records
}

func figureRow(label string, months []entities.MonthLabel, values map[entities.MonthLabel]float64, precision int32) []string {
	row := make([]string, 0, len(months)+1)
	row = append(row, label)
	for _, month := range months {
		row = append(row, FormatFigure(values[month], precision))
	}
	return row
}

// generateTextOutput creates human-readable text output
func generateTextOutput(w io.Writer, report Report, config Config) error {
	forecast := report.Forecast
	result := report.Result

	fmt.Fprintf(w, "🚢 Vessel Demand Forecast\n")
	fmt.Fprintf(w, "=========================\n\n")

	fmt.Fprintf(w, "Run: %s\n", result.RunID)
	fmt.Fprintf(w, "Rule Set: %s\n", result.RuleSet)
	fmt.Fprintf(w, "Horizon: %s to %s (%d months)\n",
		forecast.MonthlyColumns[0], forecast.MonthlyColumns[len(forecast.MonthlyColumns)-1], len(forecast.MonthlyColumns))
	fmt.Fprintf(w, "Rigs: %d\n", len(forecast.RigDemands))
	fmt.Fprintf(w, "Overrides: %d\n", report.Overrides)
	if config.ComputeTime > 0 {
		fmt.Fprintf(w, "Compute Time: %v\n", config.ComputeTime)
	}
	fmt.Fprintln(w)

	records := FlatRecords(forecast, config.Precision)
	width := labelWidth(records)

	fmt.Fprintf(w, "📋 Vessels Required by Rig:\n")
	for i, record := range records {
		if i == 1 || i == len(records)-2 {
			writeTextRow(w, width, separatorRow(record))
		}
		writeTextRow(w, width, record)
	}
	fmt.Fprintln(w)

	if s := report.Summary; s != nil {
		p := config.Precision
		fmt.Fprintf(w, "📊 Fleet Sizing Summary:\n")
		fmt.Fprintf(w, "  Average Monthly Demand:     %s\n", FormatFigure(s.AverageMonthlyDemand, p))
		fmt.Fprintf(w, "  Peak Monthly Demand:        %s\n", FormatFigure(s.PeakMonthlyDemand, p))
		fmt.Fprintf(w, "  Average Vessels Required:   %s\n", FormatFigure(s.AverageVesselsRequired, p))
		fmt.Fprintf(w, "  Peak Vessels Required:      %s (%s)\n", FormatFigure(s.PeakVesselsRequired, p), s.PeakMonth)
		fmt.Fprintf(w, "  Internal Fleet Size:        %s\n", FormatFigure(s.InternalFleetSize, p))
		fmt.Fprintf(w, "  Internal Fleet Utilization: %s%%\n", FormatFigure(s.Utilization*100, 1))
		fmt.Fprintf(w, "  Average Externally Sourced: %s\n", FormatFigure(s.AverageExternallySourced, p))
		fmt.Fprintf(w, "  Peak Externally Sourced:    %s\n", FormatFigure(s.PeakExternallySourced, p))
		fmt.Fprintf(w, "  Recommended Vessels:        %d (peak %d)\n", s.RecommendedVessels, s.PeakRecommendedVessels)
		fmt.Fprintf(w, "  Gap to Baseline Fleet:      %s\n", FormatFigure(s.BaselineGap, p))
		fmt.Fprintln(w)
	}

	if len(result.Issues) > 0 {
		fmt.Fprintf(w, "⚠️  Input Issues (%d):\n", len(result.Issues))
		for _, issue := range result.Issues {
			fmt.Fprintf(w, "  [%s] %s\n", issue.Severity, issue.Error())
		}
		fmt.Fprintln(w)
	}

	if config.Verbose {
		fmt.Fprintf(w, "🔎 Demand Breakdown:\n")
		for _, cell := range result.Forecast.CellList() {
			fmt.Fprintf(w, "  %-24s %s  %-4s %s\n", cell.RigName, cell.Month, cell.ActivityType, cell.BreakdownFormula)
		}
		fmt.Fprintln(w)
	}

	return nil
}

func labelWidth(records [][]string) int {
	width := 0
	for _, record := range records {
		if len(record[0]) > width {
			width = len(record[0])
		}
	}
	return width
}

func separatorRow(record []string) []string {
	sep := make([]string, len(record))
	for i := range record {
		sep[i] = strings.Repeat("-", 8)
	}
	return sep
}

func writeTextRow(w io.Writer, width int, record []string) {
	fmt.Fprintf(w, "%-*s", width+2, record[0])
	for _, cell := range record[1:] {
		fmt.Fprintf(w, " %8s", cell)
	}
	fmt.Fprintln(w)
}

// jsonReport is the JSON document shape
type jsonReport struct {
	RunID     string                 `json:"run_id"`
	RuleSet   string                 `json:"rule_set"`
	Forecast  *dto.TabularForecast   `json:"forecast"`
	Summary   *dto.ForecastSummary   `json:"summary,omitempty"`
	Cells     []entities.MonthlyCell `json:"cells"`
	Issues    []entities.RecordIssue `json:"issues"`
	Overrides int                    `json:"overrides"`
}

// generateJSONOutput creates JSON output
func generateJSONOutput(w io.Writer, report Report, config Config) error {
	doc := jsonReport{
		RunID:     report.Result.RunID,
		RuleSet:   report.Result.RuleSet,
		Forecast:  report.Forecast,
		Summary:   report.Summary,
		Cells:     report.Result.Forecast.CellList(),
		Issues:    report.Result.Issues,
		Overrides: report.Overrides,
	}

	jsonData, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		_, err = fmt.Fprintln(w, string(jsonData))
		return err
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "forecast.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(w, "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput creates the flat CSV table
func generateCSVOutput(w io.Writer, report Report, config Config) error {
	records := FlatRecords(report.Forecast, config.Precision)

	if config.OutputDir == "" {
		return WriteCSV(w, records)
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "forecast.csv")
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	if err := WriteCSV(file, records); err != nil {
		return err
	}

	if config.Verbose {
		fmt.Fprintf(w, "💾 CSV results saved to: %s\n", filename)
	}
	return nil
}

// WriteCSV writes records as CSV
func WriteCSV(w io.Writer, records [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
