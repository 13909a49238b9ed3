package services

import (
	"sort"
	"strings"
)

// AliasTable maps raw identifiers to canonical ones. Matching ignores case and
// surrounding whitespace; canonical names always resolve to themselves.
type AliasTable struct {
	aliases   map[string]string
	canonical map[string]string
}

// NewAliasTable builds a table from raw -> canonical pairs
func NewAliasTable(aliases map[string]string) *AliasTable {
	table := &AliasTable{
		aliases:   make(map[string]string, len(aliases)),
		canonical: make(map[string]string),
	}
	for raw, canonical := range aliases {
		table.Add(raw, canonical)
	}
	return table
}

// Add registers one alias
func (t *AliasTable) Add(raw, canonical string) {
	canonical = strings.TrimSpace(canonical)
	t.aliases[normalizeAlias(raw)] = canonical
	t.canonical[normalizeAlias(canonical)] = canonical
}

// Resolve returns the canonical identifier for raw and whether it was mapped.
// Unmapped names come back trimmed but otherwise unchanged.
func (t *AliasTable) Resolve(raw string) (string, bool) {
	key := normalizeAlias(raw)
	if canonical, ok := t.aliases[key]; ok {
		return canonical, true
	}
	if canonical, ok := t.canonical[key]; ok {
		return canonical, true
	}
	return strings.TrimSpace(raw), false
}

// Enabled reports whether the table has any entries
func (t *AliasTable) Enabled() bool {
	return t != nil && len(t.aliases) > 0
}

// Size returns the number of registered aliases
func (t *AliasTable) Size() int {
	return len(t.aliases)
}

// CanonicalNames returns the distinct canonical identifiers in sorted order
func (t *AliasTable) CanonicalNames() []string {
	names := make([]string, 0, len(t.canonical))
	for _, name := range t.canonical {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeAlias(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}
