package state

import (
	"fmt"

	"github.com/jask/formdesk/internal/fields"
	"github.com/jask/formdesk/internal/filter"
	"github.com/jask/formdesk/internal/table"
)

// Reduce applies one action. It is pure: the input state is never mutated.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case LoadStarted:
		s.Loading = true
		s.LoadErr = nil
	case LoadCompleted:
		s = State{PageSize: s.PageSize, SortDir: table.Asc}
		s.Tables = a.Tables
		s.Active = table.InitialTab(a.Tables)
	case LoadFailed:
		s.Loading = false
		s.LoadErr = a.Err
		s.Tables = nil
		s.Active = ""
	case SwitchTab:
		if table.Index(s.Tables, a.Name) < 0 || a.Name == s.Active {
			return s
		}
		s.Active = a.Name
		s = resetView(s)
	case SetSearch:
		s.Search = a.Query
		s.Page = 0
	case AddFilter:
		s.Filters = s.Filters.Add(filter.Filter{Operator: filter.Equals})
	case UpdateFilter:
		s.Filters = s.Filters.Update(a.Index, a.Filter)
		s.Page = 0
	case RemoveFilter:
		s.Filters = s.Filters.Remove(a.Index)
		s.Page = 0
	case RemoveChip:
		s.Filters = s.Filters.RemoveChip(a.Chip)
		s.Page = 0
	case DropCell:
		s.Filters = s.Filters.AddFromCell(a.Column, a.Value)
		s.Page = 0
	case SortBy:
		s.SortBy, s.SortDir = table.Toggle(s.SortBy, s.SortDir, a.Field)
	case SetPage:
		s.Page = table.ClampPage(a.Page, s.PageSize, len(s.Visible()))
	case ToggleRow:
		s = toggleRow(s, a.Key)
	case SelectPage:
		s = selectPage(s)
	case ChooseTarget:
		if a.Name == s.Active || table.Index(s.Tables, a.Name) < 0 {
			return s
		}
		s.Target = a.Name
	case StartMove:
		s = startMove(s)
	case MoveCompleted:
		s = commitMove(s, a)
	case Revert:
		s = revert(s)
	case NotesSaved:
		s = replaceRow(s, a.Table, a.RowKey, func(r table.Row) table.Row { return r.WithNotes(a.Notes) })
	case SetColumnColor:
		s = updateConfig(s, a.Table, a.Column, func(c fields.ColumnConfig) fields.ColumnConfig {
			c = c.Clone()
			if a.Color == "" {
				delete(c.Colored, a.Value)
				return c
			}
			if c.Colored == nil {
				c.Colored = map[string]fields.Color{}
			}
			c.Colored[a.Value] = a.Color
			return c
		})
	case SetColumnFlags:
		s = updateConfig(s, a.Table, a.Column, func(c fields.ColumnConfig) fields.ColumnConfig {
			c = c.Clone()
			c.MultipleChoice = a.MultipleChoice
			c.Link = a.Link
			c.EmptyFlagged = a.EmptyFlagged
			return c
		})
	case DismissNotice:
		s.Notice = nil
	}
	return s
}

func resetView(s State) State {
	s.Search = ""
	s.Filters = filter.NewSet()
	s.SortBy = ""
	s.SortDir = table.Asc
	s.Page = 0
	s.Selected = nil
	s.Target = ""
	return s
}

func toggleRow(s State, key string) State {
	if s.InFlight != nil {
		return s
	}
	t, ok := s.Current()
	if !ok || t.Find(key) < 0 {
		return s
	}
	sel := copySelection(s.Selected)
	if _, ok := sel[key]; ok {
		delete(sel, key)
	} else {
		sel[key] = struct{}{}
	}
	s.Selected = sel
	return s
}

func selectPage(s State) State {
	if s.InFlight != nil {
		return s
	}
	rows := s.PageRows()
	if len(rows) == 0 {
		return s
	}
	all := true
	for _, r := range rows {
		if !s.IsSelected(r.Key()) {
			all = false
			break
		}
	}
	sel := copySelection(s.Selected)
	for _, r := range rows {
		if all {
			delete(sel, r.Key())
		} else {
			sel[r.Key()] = struct{}{}
		}
	}
	s.Selected = sel
	return s
}

func copySelection(in map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(in)+1)
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}

func startMove(s State) State {
	if s.InFlight != nil || s.Target == "" || s.Target == s.Active {
		return s
	}
	rows := s.SelectedRows()
	if len(rows) == 0 {
		return s
	}
	s.InFlight = &Move{Source: s.Active, Target: s.Target, Rows: rows}
	s.Notice = nil
	return s
}

// commitMove applies a finished move. Rows whose mapping failed stay in the
// source table.
func commitMove(s State, a MoveCompleted) State {
	if s.InFlight == nil || s.InFlight.Source != a.Source || s.InFlight.Target != a.Target {
		return s
	}
	move := s.InFlight
	s.InFlight = nil

	si := table.Index(s.Tables, move.Source)
	ti := table.Index(s.Tables, move.Target)
	if si < 0 || ti < 0 {
		s.Notice = &Notice{Text: "move target no longer exists", Error: true}
		return s
	}

	results := make(map[string]MoveResult, len(a.Results))
	for _, r := range a.Results {
		results[r.Key] = r
	}

	src := s.Tables[si]
	dst := s.Tables[ti]
	var kept, moved []table.Row
	var failed int
	for _, r := range src.Rows {
		res, ok := results[r.Key()]
		if !ok {
			kept = append(kept, r)
			continue
		}
		if res.Err != nil {
			failed++
			kept = append(kept, r)
			continue
		}
		moved = append(moved, table.Row{
			ID:        r.ID,
			FormName:  dst.Name,
			CreatedAt: r.CreatedAt,
			Notes:     r.Notes,
			Origin:    r.Origin,
			Fields:    res.Fields,
			Keys:      res.Keys,
			Ref:       r.StoredToken(),
			Mapped:    true,
		})
	}

	if len(moved) == 0 {
		s.Notice = &Notice{Text: fmt.Sprintf("no rows moved: %d of %d could not be mapped", failed, len(move.Rows)), Error: true}
		return s
	}

	snapshot := table.CloneAll(s.Tables)
	tables := make([]table.Table, len(s.Tables))
	copy(tables, s.Tables)

	src.Rows = kept
	src.Columns = table.DeriveColumns(src.Columns, kept)
	dstRows := make([]table.Row, 0, len(dst.Rows)+len(moved))
	dstRows = append(dstRows, dst.Rows...)
	dstRows = append(dstRows, moved...)
	dst.Rows = dstRows
	dst.Columns = table.DeriveColumns(dst.Columns, dstRows)
	tables[si] = src
	tables[ti] = dst

	s.Tables = tables
	s.Snapshot = snapshot
	s.CanRevert = true
	s.Selected = nil
	s.Target = ""
	s.Page = table.ClampPage(s.Page, s.PageSize, len(s.Visible()))

	text := fmt.Sprintf("moved %d rows to %s", len(moved), dst.Name)
	if failed > 0 {
		text += fmt.Sprintf("; %d rows could not be mapped and stayed in %s", failed, src.Name)
	}
	s.Notice = &Notice{Text: text, Error: failed > 0}
	return s
}

func revert(s State) State {
	if s.InFlight != nil || !s.CanRevert || s.Snapshot == nil {
		return s
	}
	s.Tables = s.Snapshot
	s.Snapshot = nil
	s.CanRevert = false
	s.Selected = nil
	s.Target = ""
	if table.Index(s.Tables, s.Active) < 0 {
		s.Active = table.InitialTab(s.Tables)
	}
	s.Page = table.ClampPage(s.Page, s.PageSize, len(s.Visible()))
	s.Notice = &Notice{Text: "move reverted"}
	return s
}

func replaceRow(s State, tableName, key string, fn func(table.Row) table.Row) State {
	ti := table.Index(s.Tables, tableName)
	if ti < 0 {
		return s
	}
	ri := s.Tables[ti].Find(key)
	if ri < 0 {
		return s
	}
	tables := make([]table.Table, len(s.Tables))
	copy(tables, s.Tables)
	t := tables[ti]
	rows := make([]table.Row, len(t.Rows))
	copy(rows, t.Rows)
	rows[ri] = fn(rows[ri])
	t.Rows = rows
	tables[ti] = t
	s.Tables = tables
	return s
}

func updateConfig(s State, tableName, column string, fn func(fields.ColumnConfig) fields.ColumnConfig) State {
	ti := table.Index(s.Tables, tableName)
	if ti < 0 || column == "" {
		return s
	}
	tables := make([]table.Table, len(s.Tables))
	copy(tables, s.Tables)
	t := tables[ti]
	cfg := t.Config.Clone()
	if cfg == nil {
		cfg = fields.Configs{}
	}
	cfg[column] = fn(cfg.For(column))
	t.Config = cfg
	tables[ti] = t
	s.Tables = tables
	return s
}
