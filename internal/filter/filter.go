// Package filter narrows table rows by free-text search and by column
// filters, and keeps the filter chips in step with the filter list.
package filter

import (
	"strings"

	"github.com/jask/formdesk/internal/fields"
	"github.com/jask/formdesk/internal/table"
)

// Operator is a filter comparison.
type Operator string

const (
	Equals      Operator = "equals"
	Contains    Operator = "contains"
	StartsWith  Operator = "startsWith"
	EndsWith    Operator = "endsWith"
	GreaterThan Operator = "greaterThan"
	LessThan    Operator = "lessThan"
	Between     Operator = "between"
)

// Operators lists operators in menu order.
var Operators = []Operator{Equals, Contains, StartsWith, EndsWith, GreaterThan, LessThan, Between}

// Label is the human form of an operator.
func (o Operator) Label() string {
	switch o {
	case Equals:
		return "equals"
	case Contains:
		return "contains"
	case StartsWith:
		return "starts with"
	case EndsWith:
		return "ends with"
	case GreaterThan:
		return "greater than"
	case LessThan:
		return "less than"
	case Between:
		return "between"
	}
	return string(o)
}

// Filter is one column predicate. Upper is only read by Between.
type Filter struct {
	Column   string
	Operator Operator
	Value    string
	Upper    string
}

// Active reports whether the filter is complete enough to apply.
func (f Filter) Active() bool {
	if f.Column == "" || f.Operator == "" || f.Value == "" {
		return false
	}
	if f.Operator == Between {
		return f.Upper != ""
	}
	return true
}

// Match evaluates the filter against one cell. A null or falsy cell never
// matches. Unknown operators match everything.
func (f Filter) Match(v fields.Value) bool {
	if !v.Truthy() {
		return false
	}
	s := v.String()
	switch f.Operator {
	case Equals:
		return s == f.Value
	case Contains:
		return strings.Contains(strings.ToLower(s), strings.ToLower(f.Value))
	case StartsWith:
		return strings.HasPrefix(strings.ToLower(s), strings.ToLower(f.Value))
	case EndsWith:
		return strings.HasSuffix(strings.ToLower(s), strings.ToLower(f.Value))
	case GreaterThan:
		return fields.Compare(s, f.Value) > 0
	case LessThan:
		return fields.Compare(s, f.Value) < 0
	case Between:
		return fields.Compare(s, f.Value) >= 0 && fields.Compare(s, f.Upper) <= 0
	}
	return true
}

// Apply keeps the rows that satisfy every active filter. Incomplete filters
// are ignored. The input slice is not modified.
func Apply(rows []table.Row, filters []Filter) []table.Row {
	active := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if f.Active() {
			active = append(active, f)
		}
	}
	if len(active) == 0 {
		return rows
	}
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		if matchAll(r, active) {
			out = append(out, r)
		}
	}
	return out
}

func matchAll(r table.Row, filters []Filter) bool {
	for _, f := range filters {
		if !f.Match(r.Get(f.Column)) {
			return false
		}
	}
	return true
}

// Search keeps rows where any of columns contains query, case-insensitively.
func Search(rows []table.Row, columns []string, query string) []table.Row {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return rows
	}
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		for _, c := range columns {
			if strings.Contains(strings.ToLower(r.Get(c).String()), q) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
