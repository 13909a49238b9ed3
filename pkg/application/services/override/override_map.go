package override

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vsinha/fleetcast/pkg/domain/entities"
	"github.com/vsinha/fleetcast/pkg/infrastructure/events"
)

// Entry is a manual edit of one forecast cell
type Entry struct {
	Value        float64
	ActivityType *entities.ActivityType
}

// Map is a sparse overlay of manual edits keyed by (rig, month). It is owned by
// one session and is the only mutable state around a forecast.
type Map struct {
	entries  map[entities.CellKey]Entry
	store    events.EventStore
	streamID string
}

// NewMap creates an empty override map
func NewMap() *Map {
	return &Map{
		entries: make(map[entities.CellKey]Entry),
	}
}

// NewRecordedMap creates an override map that appends every edit to streamID
func NewRecordedMap(store events.EventStore, streamID string) *Map {
	m := NewMap()
	m.store = store
	m.streamID = streamID
	return m
}

// Set records an override. Negative or non-finite values are discarded and the
// previous state is left untouched; the return value reports whether the edit applied.
func (m *Map) Set(
	rigName string,
	month entities.MonthLabel,
	value float64,
	activityType *entities.ActivityType,
) bool {
	key := cellKey(rigName, month)

	if reason := rejectReason(key, value); reason != "" {
		m.record(events.OverrideRejectedEvent, events.OverrideRejected{
			RigName: key.RigName,
			Month:   month,
			Value:   value,
			Reason:  reason,
		})
		return false
	}

	var previous *float64
	if existing, ok := m.entries[key]; ok {
		prev := existing.Value
		previous = &prev
	}

	entry := Entry{Value: value}
	if activityType != nil && *activityType != "" {
		code, _ := entities.ParseActivityType(string(*activityType))
		entry.ActivityType = &code
	}
	m.entries[key] = entry

	m.record(events.OverrideSetEvent, events.OverrideSet{
		RigName:      key.RigName,
		Month:        month,
		Value:        value,
		ActivityType: entry.ActivityType,
		Previous:     previous,
	})
	return true
}

// Get returns the override for a cell, if any
func (m *Map) Get(rigName string, month entities.MonthLabel) (Entry, bool) {
	entry, ok := m.entries[cellKey(rigName, month)]
	return entry, ok
}

// Has reports whether a cell is overridden
func (m *Map) Has(rigName string, month entities.MonthLabel) bool {
	_, ok := m.Get(rigName, month)
	return ok
}

// ResetAll discards every override. The underlying forecast is not recomputed.
func (m *Map) ResetAll() {
	cleared := len(m.entries)
	for key := range m.entries {
		delete(m.entries, key)
	}
	m.record(events.OverridesResetEvent, events.OverridesReset{Cleared: cleared})
}

// Len returns the number of overridden cells
func (m *Map) Len() int {
	return len(m.entries)
}

// Keys returns the overridden cells ordered by rig then month
func (m *Map) Keys() []entities.CellKey {
	keys := make([]entities.CellKey, 0, len(m.entries))
	for key := range m.entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].RigName != keys[j].RigName {
			return keys[i].RigName < keys[j].RigName
		}
		return keys[i].Month < keys[j].Month
	})
	return keys
}

// RigNames returns the distinct rigs that carry overrides
func (m *Map) RigNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, key := range m.Keys() {
		if !seen[key.RigName] {
			seen[key.RigName] = true
			names = append(names, key.RigName)
		}
	}
	return names
}

// String returns a string representation of the override map for debugging
func (m *Map) String() string {
	if len(m.entries) == 0 {
		return "OverrideMap{empty}"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "OverrideMap{%d entries:\n", len(m.entries))
	for _, key := range m.Keys() {
		entry := m.entries[key]
		activity := "-"
		if entry.ActivityType != nil {
			activity = string(*entry.ActivityType)
		}
		fmt.Fprintf(&b, "  %s: value=%.2f, activity=%s\n", key, entry.Value, activity)
	}
	b.WriteString("}")
	return b.String()
}

func (m *Map) record(eventType string, data interface{}) {
	if m.store == nil {
		return
	}
	_ = m.store.AppendEvent(m.streamID, events.NewEvent(eventType, m.streamID, data))
}

// cellKey normalizes a rig name the same way for writes and reads
func cellKey(rigName string, month entities.MonthLabel) entities.CellKey {
	return entities.CellKey{RigName: strings.TrimSpace(rigName), Month: month}
}

func rejectReason(key entities.CellKey, value float64) string {
	switch {
	case key.RigName == "":
		return "rig name cannot be empty"
	case !validMonth(key.Month):
		return fmt.Sprintf("invalid month %q", key.Month)
	case math.IsNaN(value) || math.IsInf(value, 0):
		return "value must be finite"
	case value < 0:
		return "value cannot be negative"
	default:
		return ""
	}
}

func validMonth(month entities.MonthLabel) bool {
	parsed, err := entities.ParseMonthLabel(string(month))
	return err == nil && parsed == month
}
