package table

import (
	"sort"

	"github.com/jask/formdesk/internal/fields"
)

// Section tags the group a table is listed under.
type Section string

const (
	SectionSelected Section = "Selected Creators"
	SectionAll      Section = "ALL SUBMISSIONS"
)

// Sections lists sections in display order.
var Sections = []Section{SectionSelected, SectionAll}

// DefaultTab is preferred as the initial tab when present.
const DefaultTab = "Creator Log"

// UnknownForm names the table of rows without a form name.
const UnknownForm = "Unknown Form"

// CollisionSuffix marks a submissions table whose form name is taken by a
// creator log table.
const CollisionSuffix = " (submissions)"

// Table is one logical table.
type Table struct {
	Name    string
	Section Section
	Columns []string
	Rows    []Row
	Config  fields.Configs
}

// Clone deep-copies the table.
func (t Table) Clone() Table {
	out := t
	if t.Columns != nil {
		out.Columns = append(make([]string, 0, len(t.Columns)), t.Columns...)
	}
	if t.Rows != nil {
		out.Rows = make([]Row, len(t.Rows))
		for i, r := range t.Rows {
			out.Rows[i] = r.Clone()
		}
	}
	out.Config = t.Config.Clone()
	return out
}

// Find returns the index of the row with key (see Row.Key), or -1.
func (t Table) Find(key string) int {
	for i, r := range t.Rows {
		if r.Key() == key {
			return i
		}
	}
	return -1
}

// DeriveColumns returns the union of payload keys across rows in first-seen
// order, with the columns of existing kept first.
func DeriveColumns(existing []string, rows []Row) []string {
	seen := make(map[string]struct{}, len(existing))
	out := make([]string, 0, len(existing))
	add := func(k string) {
		if IsReserved(k) {
			return
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	present := make(map[string]struct{})
	for _, r := range rows {
		for k := range r.Fields {
			present[k] = struct{}{}
		}
	}
	for _, k := range existing {
		if _, ok := present[k]; ok {
			add(k)
		}
	}
	for _, r := range rows {
		for _, k := range r.ColumnKeys() {
			add(k)
		}
	}
	return out
}

// Build groups rows into logical tables. Creator log rows form the
// "Selected Creators" section, submissions form "ALL SUBMISSIONS". A form
// name present in both keeps the creator log table; the submissions move to
// a table with CollisionSuffix appended. Rows are sorted newest first and
// tables keep first-seen order within their section.
func Build(rows []Row) []Table {
	type group struct {
		section Section
		rows    []Row
	}
	groups := make(map[string]*group)
	var order []string
	for _, origin := range []Origin{OriginCreatorLog, OriginSubmissions} {
		section := SectionAll
		if origin == OriginCreatorLog {
			section = SectionSelected
		}
		for _, r := range rows {
			if r.Origin != origin {
				continue
			}
			name := r.FormName
			if name == "" {
				name = UnknownForm
			}
			if g, ok := groups[name]; ok && g.section != section {
				name += CollisionSuffix
			}
			g, ok := groups[name]
			if !ok {
				g = &group{section: section}
				groups[name] = g
				order = append(order, name)
			}
			g.rows = append(g.rows, r)
		}
	}

	out := make([]Table, 0, len(order))
	for _, name := range order {
		g := groups[name]
		columns := DeriveColumns(nil, g.rows)
		SortNewestFirst(g.rows)
		out = append(out, Table{
			Name:    name,
			Section: g.section,
			Columns: columns,
			Rows:    g.rows,
		})
	}
	return out
}

// InitialTab picks the tab shown after a load.
func InitialTab(tables []Table) string {
	for _, t := range tables {
		if t.Name == DefaultTab {
			return t.Name
		}
	}
	if len(tables) > 0 {
		return tables[0].Name
	}
	return ""
}

// Index returns the position of the named table, or -1.
func Index(tables []Table, name string) int {
	for i, t := range tables {
		if t.Name == name {
			return i
		}
	}
	return -1
}

// BySection lists table names per section in display order.
func BySection(tables []Table) map[Section][]string {
	out := make(map[Section][]string, len(Sections))
	for _, t := range tables {
		out[t.Section] = append(out[t.Section], t.Name)
	}
	return out
}

// CloneAll deep-copies a table slice.
func CloneAll(tables []Table) []Table {
	if tables == nil {
		return nil
	}
	out := make([]Table, len(tables))
	for i, t := range tables {
		out[i] = t.Clone()
	}
	return out
}

func sortedKeys(m map[string]fields.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
