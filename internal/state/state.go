// Package state holds the dashboard state and the pure reducer that applies
// user and I/O actions to it.
package state

import (
	"github.com/jask/formdesk/internal/fields"
	"github.com/jask/formdesk/internal/filter"
	"github.com/jask/formdesk/internal/table"
)

// Phase is the derived stage of a bulk move.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSelecting
	PhaseTargetChosen
	PhaseMoving
	PhaseCommitted
)

func (p Phase) String() string {
	switch p {
	case PhaseSelecting:
		return "selecting"
	case PhaseTargetChosen:
		return "target chosen"
	case PhaseMoving:
		return "moving"
	case PhaseCommitted:
		return "committed"
	}
	return "idle"
}

// Notice is a one-line message for the user.
type Notice struct {
	Text  string
	Error bool
}

// Move describes the move in flight.
type Move struct {
	Source string
	Target string
	Rows   []table.Row
}

// State is the whole dashboard state. Values are treated as immutable:
// Reduce returns a new State and never mutates slices or maps it was given.
type State struct {
	Loading bool
	LoadErr error

	Tables []table.Table
	Active string

	Search   string
	Filters  filter.Set
	SortBy   string
	SortDir  table.Direction
	Page     int
	PageSize int

	// selection of the active table, by Row.Key
	Selected map[string]struct{}
	Target   string
	InFlight *Move

	// pre-move tables, one level deep
	Snapshot  []table.Table
	CanRevert bool

	Notice *Notice
}

// New returns the initial state.
func New(pageSize int) State {
	if pageSize <= 0 {
		pageSize = table.DefaultPageSize
	}
	return State{Loading: true, PageSize: pageSize, SortDir: table.Asc}
}

// Phase derives the move stage.
func (s State) Phase() Phase {
	switch {
	case s.InFlight != nil:
		return PhaseMoving
	case len(s.Selected) > 0 && s.Target != "":
		return PhaseTargetChosen
	case len(s.Selected) > 0:
		return PhaseSelecting
	case s.CanRevert:
		return PhaseCommitted
	}
	return PhaseIdle
}

// Current returns the active table.
func (s State) Current() (table.Table, bool) {
	i := table.Index(s.Tables, s.Active)
	if i < 0 {
		return table.Table{}, false
	}
	return s.Tables[i], true
}

// Visible returns the rows of the active table after search, filters and
// sort. The returned slice is fresh.
func (s State) Visible() []table.Row {
	t, ok := s.Current()
	if !ok {
		return nil
	}
	rows := filter.Search(t.Rows, t.Columns, s.Search)
	rows = s.Filters.Apply(rows)
	out := append([]table.Row(nil), rows...)
	table.Sort(out, s.SortBy, s.SortDir)
	return out
}

// PageRows returns the visible rows on the current page.
func (s State) PageRows() []table.Row {
	return table.Page(s.Visible(), s.Page, s.PageSize)
}

// PageCount is the number of pages of visible rows.
func (s State) PageCount() int {
	return table.PageCount(len(s.Visible()), s.PageSize)
}

// IsSelected reports whether a row of the active table is selected.
func (s State) IsSelected(key string) bool {
	_, ok := s.Selected[key]
	return ok
}

// SelectedRows returns the selected rows of the active table in table order.
func (s State) SelectedRows() []table.Row {
	t, ok := s.Current()
	if !ok || len(s.Selected) == 0 {
		return nil
	}
	var out []table.Row
	for _, r := range t.Rows {
		if _, ok := s.Selected[r.Key()]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Targets lists tables a selection can move to.
func (s State) Targets() []string {
	var out []string
	for _, t := range s.Tables {
		if t.Name != s.Active {
			out = append(out, t.Name)
		}
	}
	return out
}

// Chips returns the active filter chips of the current table.
func (s State) Chips() []filter.Chip {
	t, _ := s.Current()
	return s.Filters.Chips(t.Config)
}

// ColumnConfig returns the overrides of a column in the active table.
func (s State) ColumnConfig(column string) fields.ColumnConfig {
	t, _ := s.Current()
	return t.Config.For(column)
}
