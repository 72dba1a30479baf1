// Package catalog holds the in-memory reference data and answers the
// cascading lookups the entry form drives: site, then line, then process
// code, then permitted parameter ranges.
//
// A Catalog is immutable once built. Re-ingestion builds a fresh Catalog and
// swaps it into the Store in one step, so concurrent readers always see one
// consistent generation.
package catalog

import (
	"sort"
	"sync/atomic"

	"github.com/hoitkn/processqa/internal/refdata"
)

// Catalog indexes one generation of reference data.
type Catalog struct {
	generation uint64

	employees    []refdata.Employee
	noodle       []refdata.NoodleCondition
	riceNoodle   []refdata.RiceNoodleCondition
	noodleByCode map[string]*refdata.NoodleCondition
	riceByCode   map[string]*refdata.RiceNoodleCondition
}

// New builds a catalog from loader output. The slices are copied; the caller
// keeps no ownership over the indexed records.
func New(employees []refdata.Employee, noodle []refdata.NoodleCondition, riceNoodle []refdata.RiceNoodleCondition) *Catalog {
	c := &Catalog{
		employees:    append([]refdata.Employee(nil), employees...),
		noodle:       append([]refdata.NoodleCondition(nil), noodle...),
		riceNoodle:   append([]refdata.RiceNoodleCondition(nil), riceNoodle...),
		noodleByCode: make(map[string]*refdata.NoodleCondition, len(noodle)),
		riceByCode:   make(map[string]*refdata.RiceNoodleCondition, len(riceNoodle)),
	}
	// Index by process code so per-keystroke lookups stay O(1) as the
	// sheets grow. First occurrence wins within one ingestion.
	for i := range c.noodle {
		code := c.noodle[i].ProcessCode
		if _, ok := c.noodleByCode[code]; !ok {
			c.noodleByCode[code] = &c.noodle[i]
		}
	}
	for i := range c.riceNoodle {
		code := c.riceNoodle[i].ProcessCode
		if _, ok := c.riceByCode[code]; !ok {
			c.riceByCode[code] = &c.riceNoodle[i]
		}
	}
	return c
}

// Sites returns the sorted set of site identifiers present in the employee
// roster. Empty site values are excluded.
func (c *Catalog) Sites() []string {
	seen := make(map[string]bool)
	var sites []string
	for _, emp := range c.employees {
		if emp.Site == "" || seen[emp.Site] {
			continue
		}
		seen[emp.Site] = true
		sites = append(sites, emp.Site)
	}
	sort.Strings(sites)
	return sites
}

// EmployeesBySite returns active employees for a site.
func (c *Catalog) EmployeesBySite(site string) []refdata.Employee {
	var out []refdata.Employee
	for _, emp := range c.employees {
		if emp.Site == site && emp.Active {
			out = append(out, emp)
		}
	}
	return out
}

// LinesBySite returns the sorted set of distinct non-empty line values among
// conditions for a site.
func (c *Catalog) LinesBySite(site string) []string {
	seen := make(map[string]bool)
	var lines []string
	add := func(s, line string) {
		if s != site || line == "" || seen[line] {
			return
		}
		seen[line] = true
		lines = append(lines, line)
	}
	for _, cond := range c.noodle {
		add(cond.Site, cond.Line)
	}
	for _, cond := range c.riceNoodle {
		add(cond.Site, cond.Line)
	}
	sort.Strings(lines)
	return lines
}

// ConditionsByLineAndSite returns noodle conditions for a site, narrowed to a
// line when one is given. An empty line argument means "all lines for the
// site", not "conditions with an unknown line".
func (c *Catalog) ConditionsByLineAndSite(site, line string) []refdata.NoodleCondition {
	var out []refdata.NoodleCondition
	for _, cond := range c.noodle {
		if cond.Site == site && (line == "" || cond.Line == line) {
			out = append(out, cond)
		}
	}
	return out
}

// Conditions returns every noodle condition in ingestion order.
func (c *Catalog) Conditions() []refdata.NoodleCondition {
	return append([]refdata.NoodleCondition(nil), c.noodle...)
}

// ConditionByProcessCode returns the noodle condition for a process code, or
// nil when the code is unknown.
func (c *Catalog) ConditionByProcessCode(code string) *refdata.NoodleCondition {
	return c.noodleByCode[code]
}

// RiceConditionByProcessCode returns the rice-noodle condition for a process
// code, or nil when the code is unknown.
func (c *Catalog) RiceConditionByProcessCode(code string) *refdata.RiceNoodleCondition {
	return c.riceByCode[code]
}

// Counts reports record totals for logging.
func (c *Catalog) Counts() (employees, noodle, riceNoodle int) {
	return len(c.employees), len(c.noodle), len(c.riceNoodle)
}

// Generation is the swap counter assigned by the Store, 0 for a catalog that
// was never published.
func (c *Catalog) Generation() uint64 { return c.generation }

// Store publishes catalogs to concurrent readers. A swap is atomic: readers
// observe either the previous generation or the new one, never a partial
// build.
type Store struct {
	current atomic.Pointer[Catalog]
	swaps   atomic.Uint64
}

// NewStore returns a store seeded with an empty catalog so lookups are safe
// before the first ingestion completes.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(New(nil, nil, nil))
	return s
}

// Swap publishes a new catalog generation.
func (s *Store) Swap(c *Catalog) {
	c.generation = s.swaps.Add(1)
	s.current.Store(c)
}

// Current returns the latest published catalog.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}
