package csv

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/fleetcast/pkg/domain/entities"
)

const scheduleCSV = `rig_name,location,activity_type,start_date,end_date,is_batch
Deepwater Poseidon,WR,DRL,2025-01-01,2025-02-28,true
 DW Conqueror , GC ,cpl,2025-01-15,2025-03-10,no
Valaris DS-16,MC,RM,2025-02-01,2025-02-14,
`

func TestLoader_ReadActivities(t *testing.T) {
	loader := NewLoader()

	activities, issues, err := loader.ReadActivities(strings.NewReader(scheduleCSV))

	require.NoError(t, err)
	assert.Empty(t, issues)
	require.Len(t, activities, 3)

	first := activities[0]
	assert.Equal(t, "Deepwater Poseidon", first.RigName)
	assert.Equal(t, entities.LocationKey("WR"), first.Location)
	assert.Equal(t, entities.Drilling, first.ActivityType)
	assert.Equal(t, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), first.EndDate)
	assert.True(t, first.IsBatchOperation)

	second := activities[1]
	assert.Equal(t, "DW Conqueror", second.RigName, "aliases are resolved later by the validator")
	assert.Equal(t, entities.LocationKey("GC"), second.Location)
	assert.Equal(t, entities.Completion, second.ActivityType)
	assert.False(t, second.IsBatchOperation)

	assert.False(t, activities[2].IsBatchOperation)
}

func TestLoader_ReadActivitiesReportsBadRows(t *testing.T) {
	data := `rig_name,location,activity_type,start_date,end_date,is_batch
Q4000,GC,DRL,2025/01/01,2025-01-31,false
Q4000,GC,DRL,2025-02-01,2025-02-28,maybe
Q4000,GC,DRL,2025-03-01,2025-03-31,false
Q4000,GC,DRL,,2025-04-30,false
`
	loader := NewLoader()

	activities, issues, err := loader.ReadActivities(strings.NewReader(data))

	require.NoError(t, err)
	require.Len(t, activities, 2, "an empty date is left for the validator to reject")
	assert.True(t, activities[1].StartDate.IsZero())

	require.Len(t, issues, 2)
	assert.Equal(t, 0, issues[0].Index)
	assert.Equal(t, entities.SeverityRejected, issues[0].Severity)
	assert.Contains(t, issues[0].Reason, "row 2: invalid start_date")
	assert.Equal(t, 1, issues[1].Index)
	assert.Contains(t, issues[1].Reason, "invalid is_batch")
}

func TestLoader_ReadActivitiesStructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty file", ""},
		{"wrong header", "rig,location,type,start,end,batch\n"},
		{"missing column", "rig_name,location,activity_type,start_date,end_date,is_batch\nQ4000,GC,DRL,2025-01-01,2025-01-31\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewLoader().ReadActivities(strings.NewReader(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoader_HeaderIsCaseInsensitive(t *testing.T) {
	data := "Rig_Name,Location,Activity_Type,Start_Date,End_Date,Is_Batch\nQ4000,GC,DRL,2025-01-01,2025-01-31,1\n"

	activities, _, err := NewLoader().ReadActivities(strings.NewReader(data))

	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.True(t, activities[0].IsBatchOperation)
}

func TestLoader_WriteActivitiesRoundTrip(t *testing.T) {
	// Arrange
	loader := NewLoader()
	original, _, err := loader.ReadActivities(strings.NewReader(scheduleCSV))
	require.NoError(t, err)

	// Act
	var buf bytes.Buffer
	require.NoError(t, loader.WriteActivities(&buf, original))
	reloaded, issues, err := loader.ReadActivities(&buf)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, original, reloaded)
}

func TestLoader_LoadActivitiesFromFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "schedule.csv")
	require.NoError(t, os.WriteFile(filename, []byte(scheduleCSV), 0644))

	activities, _, err := NewLoader().LoadActivities(filename)
	require.NoError(t, err)
	assert.Len(t, activities, 3)

	_, _, err = NewLoader().LoadActivities(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestLoader_ReadOverrides(t *testing.T) {
	data := `rig_name,month,value,activity_type
DW Poseidon,2025-03,1,
Q4000,2025-01,2.5,cpl
Q4000,2025-02,-1,
`

	rows, issues, err := NewLoader().ReadOverrides(strings.NewReader(data))

	require.NoError(t, err)
	assert.Empty(t, issues)
	require.Len(t, rows, 3)
	assert.Equal(t, OverrideRow{RigName: "DW Poseidon", Month: "2025-03", Value: 1}, rows[0])
	require.NotNil(t, rows[1].ActivityType)
	assert.Equal(t, entities.Completion, *rows[1].ActivityType)
	assert.Equal(t, -1.0, rows[2].Value, "negative values are rejected by the override map, not the loader")
}

func TestLoader_ReadOverridesKeepsValidRows(t *testing.T) {
	data := `rig_name,month,value,activity_type
Q4000,2025-01,2.5,
Q4000,2025-02,abc,
Stena Evolution,2025-13,1,
Q4000,2025-03,-1,
`

	rows, issues, err := NewLoader().ReadOverrides(strings.NewReader(data))

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2.5, rows[0].Value)
	assert.Equal(t, entities.MonthLabel("2025-03"), rows[1].Month)

	require.Len(t, issues, 2)
	assert.Equal(t, 1, issues[0].Index)
	assert.Equal(t, "Q4000", issues[0].RigName)
	assert.Equal(t, entities.SeverityRejected, issues[0].Severity)
	assert.Contains(t, issues[0].Reason, "row 3: invalid value: abc")
	assert.Equal(t, 2, issues[1].Index)
	assert.Equal(t, "Stena Evolution", issues[1].RigName)
	assert.Contains(t, issues[1].Reason, "row 4: invalid month")
}

func TestLoader_ReadOverridesStructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty file", ""},
		{"wrong header", "rig,month,value,activity_type\nQ4000,2025-01,1,\n"},
		{"short row", "rig_name,month,value,activity_type\nQ4000,2025-01\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewLoader().ReadOverrides(strings.NewReader(tt.data))
			assert.Error(t, err)
		})
	}
}
