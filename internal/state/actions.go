package state

import (
	"github.com/jask/formdesk/internal/fields"
	"github.com/jask/formdesk/internal/filter"
	"github.com/jask/formdesk/internal/table"
)

// Action is anything Reduce understands.
type Action interface{ action() }

type (
	LoadStarted   struct{}
	LoadCompleted struct{ Tables []table.Table }
	LoadFailed    struct{ Err error }

	SwitchTab struct{ Name string }
	SetSearch struct{ Query string }

	// AddFilter appends a blank filter for editing.
	AddFilter    struct{}
	UpdateFilter struct {
		Index  int
		Filter filter.Filter
	}
	RemoveFilter struct{ Index int }
	RemoveChip   struct{ Chip filter.Chip }
	// DropCell turns a cell into an equals filter.
	DropCell struct{ Column, Value string }

	SortBy  struct{ Field string }
	SetPage struct{ Page int }

	ToggleRow struct{ Key string }
	// SelectPage selects every row on the visible page, or clears them when
	// all are already selected.
	SelectPage   struct{}
	ChooseTarget struct{ Name string }
	StartMove    struct{}
	MoveCompleted struct {
		Source  string
		Target  string
		Results []MoveResult
	}
	Revert struct{}

	NotesSaved struct {
		Table  string
		RowKey string
		Notes  string
	}
	SetColumnColor struct {
		Table  string
		Column string
		Value  string
		Color  fields.Color
	}
	SetColumnFlags struct {
		Table          string
		Column         string
		MultipleChoice bool
		Link           bool
		EmptyFlagged   bool
	}
	DismissNotice struct{}
)

// MoveResult is the outcome of mapping one source row, keyed by Row.Key.
type MoveResult struct {
	Key    string
	Fields map[string]fields.Value
	Keys   []string
	Err    error
}

func (LoadStarted) action()    {}
func (LoadCompleted) action()  {}
func (LoadFailed) action()     {}
func (SwitchTab) action()      {}
func (SetSearch) action()      {}
func (AddFilter) action()      {}
func (UpdateFilter) action()   {}
func (RemoveFilter) action()   {}
func (RemoveChip) action()     {}
func (DropCell) action()       {}
func (SortBy) action()         {}
func (SetPage) action()        {}
func (ToggleRow) action()      {}
func (SelectPage) action()     {}
func (ChooseTarget) action()   {}
func (StartMove) action()      {}
func (MoveCompleted) action()  {}
func (Revert) action()         {}
func (NotesSaved) action()     {}
func (SetColumnColor) action() {}
func (SetColumnFlags) action() {}
func (DismissNotice) action()  {}
