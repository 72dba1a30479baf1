// Package translate converts canonical submissions into the two external
// representations: the list-service schema with its mangled internal column
// names, and the relational schema with literal (partly non-ASCII) column
// names. Each schema is a declarative table; adding a third external store
// means adding a table, not branching code.
package translate

import (
	"strings"
	"time"

	"github.com/hoitkn/processqa/internal/submission"
)

// Kind tells the translator how to coerce a canonical value.
type Kind int

const (
	Text Kind = iota
	Numeric
)

// FieldMapping binds one canonical field to one external column. The same
// canonical field may appear more than once when the external schema carries
// alias columns.
type FieldMapping struct {
	Canonical string
	External  string
	Kind      Kind
}

// StampFunc produces the always-present columns (site, generated title,
// timestamps) for one submission. Columns already emitted from the field
// table are not overwritten.
type StampFunc func(sub submission.Submission, now time.Time) map[string]any

// Mapping is one external schema: a field table plus the schema's fixed
// behavior (stamped columns, optional combined-notes column).
type Mapping struct {
	Name   string
	Fields []FieldMapping

	// CombinedColumn, when set, receives the sensory and strand notes
	// joined into one value; the canonical notes fields are then not
	// mapped individually.
	CombinedColumn string

	stamp       StampFunc
	byExternal  map[string]string
	columnOrder []string
}

// newMapping indexes the field table for inverse lookups and fixes the
// external column order (stamped columns first, then table order, combined
// column last).
func newMapping(name string, fields []FieldMapping, stampCols []string, stamp StampFunc, combined string) *Mapping {
	m := &Mapping{
		Name:           name,
		Fields:         fields,
		CombinedColumn: combined,
		stamp:          stamp,
		byExternal:     make(map[string]string, len(fields)),
	}
	seen := make(map[string]bool)
	add := func(col string) {
		if col == "" || seen[col] {
			return
		}
		seen[col] = true
		m.columnOrder = append(m.columnOrder, col)
	}
	for _, col := range stampCols {
		add(col)
	}
	for _, fm := range fields {
		add(fm.External)
		if _, ok := m.byExternal[fm.External]; !ok {
			m.byExternal[fm.External] = fm.Canonical
		}
	}
	add(combined)
	return m
}

// CanonicalFor is the inverse lookup: external column to canonical field.
func (m *Mapping) CanonicalFor(external string) (string, bool) {
	c, ok := m.byExternal[external]
	return c, ok
}

// ColumnOrder returns every external column the mapping can emit, in the
// deterministic order writers should use.
func (m *Mapping) ColumnOrder() []string {
	return append([]string(nil), m.columnOrder...)
}

// joinNotes applies the combined-description rule: both notes present joins
// them with the strand prefix, one present emits it (prefixed when it is the
// strand note), neither present yields "".
func joinNotes(sensory, strand string) string {
	sensory = strings.TrimSpace(sensory)
	strand = strings.TrimSpace(strand)
	switch {
	case sensory != "" && strand != "":
		return sensory + " | " + strandNotesPrefix + strand
	case strand != "":
		return strandNotesPrefix + strand
	default:
		return sensory
	}
}

// strandNotesPrefix labels the strand note inside the combined column. The
// wording is part of the compatibility contract with the deployed table.
const strandNotesPrefix = "Mô tả sợi: "
