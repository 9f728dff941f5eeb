package filter

import (
	"github.com/jask/formdesk/internal/fields"
	"github.com/jask/formdesk/internal/table"
)

// Chip is the pill shown for an active filter. Index is the position of the
// filter behind it.
type Chip struct {
	Index  int
	Column string
	Value  string
	Type   fields.Type
}

// Set is an ordered filter list. Chips are derived from it, so removing a
// filter removes its chip and the other way round. Methods return new sets.
type Set struct {
	filters []Filter
}

// NewSet builds a set from filters.
func NewSet(filters ...Filter) Set {
	return Set{filters: append([]Filter(nil), filters...)}
}

// Len is the number of filters, complete or not.
func (s Set) Len() int { return len(s.filters) }

// Filters returns a copy of the filter list.
func (s Set) Filters() []Filter { return append([]Filter(nil), s.filters...) }

// At returns filter i.
func (s Set) At(i int) (Filter, bool) {
	if i < 0 || i >= len(s.filters) {
		return Filter{}, false
	}
	return s.filters[i], true
}

// Add appends a filter, typically a blank one for the editor.
func (s Set) Add(f Filter) Set {
	return Set{filters: append(s.Filters(), f)}
}

// Update replaces filter i. Out of range indexes are ignored.
func (s Set) Update(i int, f Filter) Set {
	if i < 0 || i >= len(s.filters) {
		return s
	}
	out := s.Filters()
	out[i] = f
	return Set{filters: out}
}

// Remove drops filter i.
func (s Set) Remove(i int) Set {
	if i < 0 || i >= len(s.filters) {
		return s
	}
	out := make([]Filter, 0, len(s.filters)-1)
	out = append(out, s.filters[:i]...)
	out = append(out, s.filters[i+1:]...)
	return Set{filters: out}
}

// RemoveChip drops the one filter behind c. A chip whose filter has since
// changed is ignored.
func (s Set) RemoveChip(c Chip) Set {
	f, ok := s.At(c.Index)
	if !ok || !f.Active() || f.Column != c.Column || f.Value != c.Value {
		return s
	}
	return s.Remove(c.Index)
}

// AddFromCell appends an equals filter for a dropped cell unless a chip
// with the same column and value exists.
func (s Set) AddFromCell(column, value string) Set {
	if column == "" || value == "" {
		return s
	}
	for _, f := range s.filters {
		if f.Active() && f.Column == column && f.Value == value {
			return s
		}
	}
	return s.Add(Filter{Column: column, Operator: Equals, Value: value})
}

// Active lists complete filters in order.
func (s Set) Active() []Filter {
	var out []Filter
	for _, f := range s.filters {
		if f.Active() {
			out = append(out, f)
		}
	}
	return out
}

// Chips derives one chip per active filter. The chip type is the classifier's
// view of the filter value in that column.
func (s Set) Chips(cfg fields.Configs) []Chip {
	out := make([]Chip, 0, len(s.filters))
	for i, f := range s.filters {
		if !f.Active() {
			continue
		}
		out = append(out, Chip{
			Index:  i,
			Column: f.Column,
			Value:  f.Value,
			Type:   fields.Classify(fields.String(f.Value), f.Column, cfg.For(f.Column)),
		})
	}
	return out
}

// Apply narrows rows by the set's active filters.
func (s Set) Apply(rows []table.Row) []table.Row {
	return Apply(rows, s.filters)
}
