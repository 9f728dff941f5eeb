package table

import (
	"sort"

	"github.com/jask/formdesk/internal/fields"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Toggle returns the sort after the user picks field: the same field flips
// direction, a new field starts ascending.
func Toggle(curField string, curDir Direction, field string) (string, Direction) {
	if curField == field && curDir == Asc {
		return field, Desc
	}
	return field, Asc
}

// Sort orders rows by a column in place. Sorting is stable so equal keys keep
// their load order.
func Sort(rows []Row, field string, dir Direction) {
	if field == "" {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		c := fields.Compare(rows[i].Get(field).String(), rows[j].Get(field).String())
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})
}

// SortNewestFirst orders rows by creation time, latest first.
func SortNewestFirst(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
}
