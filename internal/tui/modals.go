package tui

import (
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/formdesk/internal/fields"
	"github.com/jask/formdesk/internal/filter"
	"github.com/jask/formdesk/internal/service"
	"github.com/jask/formdesk/internal/state"
	"github.com/jask/formdesk/internal/table"
)

// filter editor fields
const (
	filterFieldColumn = iota
	filterFieldOperator
	filterFieldValue
	filterFieldUpper
)

// openFilter edits filter idx, or appends a new one on the focused column when
// idx is negative.
func (a *App) openFilter(idx int) tea.Cmd {
	if idx < 0 {
		a.dispatch(state.AddFilter{})
		idx = a.st.Filters.Len() - 1
		if cols := a.columns(); a.colCur < len(cols) {
			f, _ := a.st.Filters.At(idx)
			f.Column = cols[a.colCur]
			a.dispatch(state.UpdateFilter{Index: idx, Filter: f})
		}
	}
	a.filterIdx = idx
	a.loadFilterInputs()
	a.filterField = filterFieldValue
	a.modal = modalFilter
	return a.focusFilterField()
}

func (a *App) loadFilterInputs() {
	f, _ := a.st.Filters.At(a.filterIdx)
	a.filterValue.SetValue(f.Value)
	a.filterUpper.SetValue(f.Upper)
}

func (a *App) focusFilterField() tea.Cmd {
	a.filterValue.Blur()
	a.filterUpper.Blur()
	switch a.filterField {
	case filterFieldValue:
		return a.filterValue.Focus()
	case filterFieldUpper:
		return a.filterUpper.Focus()
	}
	return nil
}

func (a *App) editFilter(fn func(*filter.Filter)) {
	f, ok := a.st.Filters.At(a.filterIdx)
	if !ok {
		return
	}
	fn(&f)
	a.dispatch(state.UpdateFilter{Index: a.filterIdx, Filter: f})
}

func (a *App) closeFilter() {
	if f, ok := a.st.Filters.At(a.filterIdx); ok && f.Value == "" {
		a.dispatch(state.RemoveFilter{Index: a.filterIdx})
	}
	a.closeModal()
}

func (a *App) handleFilterKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	f, ok := a.st.Filters.At(a.filterIdx)
	if !ok {
		a.closeModal()
		return a, nil
	}
	fieldCount := filterFieldValue + 1
	if f.Operator == filter.Between {
		fieldCount = filterFieldUpper + 1
	}

	switch m.String() {
	case "esc", "enter":
		a.closeFilter()
		return a, nil
	case "ctrl+x":
		a.dispatch(state.RemoveFilter{Index: a.filterIdx})
		a.closeModal()
		return a, nil
	case "tab":
		a.filterField = (a.filterField + 1) % fieldCount
		return a, a.focusFilterField()
	case "shift+tab":
		a.filterField = (a.filterField - 1 + fieldCount) % fieldCount
		return a, a.focusFilterField()
	case "ctrl+n", "ctrl+p":
		n := a.st.Filters.Len()
		if n < 2 {
			return a, nil
		}
		if f.Value == "" {
			a.status = "finish this filter first"
			return a, nil
		}
		step := 1
		if m.String() == "ctrl+p" {
			step = -1
		}
		a.filterIdx = (a.filterIdx + step + n) % n
		a.loadFilterInputs()
		return a, a.focusFilterField()
	}

	switch a.filterField {
	case filterFieldColumn:
		cols := a.columns()
		if len(cols) == 0 {
			return a, nil
		}
		if step := cycleStep(m); step != 0 {
			next := cycle(indexOf(cols, f.Column), step, len(cols))
			a.editFilter(func(f *filter.Filter) { f.Column = cols[next] })
		}
	case filterFieldOperator:
		if step := cycleStep(m); step != 0 {
			next := cycle(indexOf(filter.Operators, f.Operator), step, len(filter.Operators))
			a.editFilter(func(f *filter.Filter) { f.Operator = filter.Operators[next] })
			if filter.Operators[next] != filter.Between && a.filterField == filterFieldUpper {
				a.filterField = filterFieldValue
			}
		}
	case filterFieldValue:
		var cmd tea.Cmd
		a.filterValue, cmd = a.filterValue.Update(m)
		if v := a.filterValue.Value(); v != f.Value {
			a.editFilter(func(f *filter.Filter) { f.Value = v })
			a.rowCur = 0
		}
		return a, cmd
	case filterFieldUpper:
		var cmd tea.Cmd
		a.filterUpper, cmd = a.filterUpper.Update(m)
		if v := a.filterUpper.Value(); v != f.Upper {
			a.editFilter(func(f *filter.Filter) { f.Upper = v })
			a.rowCur = 0
		}
		return a, cmd
	}
	return a, nil
}

// notes editor fields; the last one is the free-text area
const notesFieldText = 3

var notesChoices = [][]string{
	service.WorkQualityChoices,
	service.TimelinessChoices,
	service.ProjectTypeChoices,
}

var notesLabels = []string{"Work quality", "Timeliness", "Project type", "Additional notes"}

func (a *App) openNotes(row table.Row) {
	a.notesRow = row
	a.notesTable = a.st.Active
	a.notes = service.ParseNotes(row.Notes)
	a.notesText.SetValue(a.notes.AdditionalNotes)
	a.notesField = 0
	a.notesErr = ""
	a.notesSaving = false
	a.modal = modalNotes
}

func (a *App) notesFocusCmd() tea.Cmd {
	if a.notesField == notesFieldText {
		return a.notesText.Focus()
	}
	a.notesText.Blur()
	return nil
}

func (a *App) notesChoice(i int) *string {
	switch i {
	case 0:
		return &a.notes.WorkQuality
	case 1:
		return &a.notes.Timeliness
	case 2:
		return &a.notes.ProjectType
	}
	return nil
}

func (a *App) handleNotesKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.notesSaving {
		return a, nil
	}
	switch m.String() {
	case "esc":
		a.closeModal()
		return a, nil
	case "ctrl+s":
		a.notes.AdditionalNotes = a.notesText.Value()
		a.notesSaving = true
		a.notesErr = ""
		return a, a.saveNotesCmd(a.notesTable, a.notesRow, a.notes)
	case "tab":
		a.notesField = (a.notesField + 1) % len(notesLabels)
		return a, a.notesFocusCmd()
	case "shift+tab":
		a.notesField = (a.notesField - 1 + len(notesLabels)) % len(notesLabels)
		return a, a.notesFocusCmd()
	}

	if a.notesField == notesFieldText {
		var cmd tea.Cmd
		a.notesText, cmd = a.notesText.Update(m)
		return a, cmd
	}
	if step := cycleStep(m); step != 0 {
		// "" leads each list and clears the choice
		options := append([]string{""}, notesChoices[a.notesField]...)
		p := a.notesChoice(a.notesField)
		*p = options[cycle(indexOf(options, *p), step, len(options))]
	}
	return a, nil
}

// valueCount is one distinct value of a column and how often it occurs.
type valueCount struct {
	Value string
	Count int
}

func countValues(rows []table.Row, column string) []valueCount {
	counts := map[string]int{}
	for _, r := range rows {
		counts[r.Get(column).String()]++
	}
	out := make([]valueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, valueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

func (a *App) openColumn(column string) {
	t, _ := a.st.Current()
	a.colName = column
	a.colValues = countValues(t.Rows, column)
	a.colValueAt = 0
	a.modal = modalColumn
}

func (a *App) handleColumnKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	cfg := a.st.ColumnConfig(a.colName)
	flags := state.SetColumnFlags{
		Table:          a.st.Active,
		Column:         a.colName,
		MultipleChoice: cfg.MultipleChoice,
		Link:           cfg.Link,
		EmptyFlagged:   cfg.EmptyFlagged,
	}
	switch s := m.String(); s {
	case "esc", "q":
		a.closeModal()
	case "up", "k":
		if a.colValueAt > 0 {
			a.colValueAt--
		}
	case "down", "j":
		if a.colValueAt < len(a.colValues)-1 {
			a.colValueAt++
		}
	case "1", "2", "3", "4", "5", "6":
		i := int(s[0] - '1')
		if i >= len(fields.Palette) || a.colValueAt >= len(a.colValues) {
			return a, nil
		}
		a.dispatch(state.SetColumnColor{
			Table:  a.st.Active,
			Column: a.colName,
			Value:  a.colValues[a.colValueAt].Value,
			Color:  fields.Palette[i],
		})
		return a, a.saveColumnsCmd()
	case "m":
		flags.MultipleChoice = !flags.MultipleChoice
		a.dispatch(flags)
		return a, a.saveColumnsCmd()
	case "l":
		flags.Link = !flags.Link
		a.dispatch(flags)
		return a, a.saveColumnsCmd()
	case "e":
		flags.EmptyFlagged = !flags.EmptyFlagged
		a.dispatch(flags)
		return a, a.saveColumnsCmd()
	}
	return a, nil
}

func cycleStep(m tea.KeyMsg) int {
	switch m.String() {
	case "right", "l", " ":
		return 1
	case "left", "h":
		return -1
	}
	return 0
}

func cycle(cur, step, n int) int {
	if n == 0 {
		return 0
	}
	if cur < 0 {
		if step > 0 {
			return 0
		}
		return n - 1
	}
	return (cur + step + n) % n
}

func indexOf[T comparable](list []T, v T) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return -1
}

func truncateText(s string, width int) string {
	return ansi.Truncate(s, width, "…")
}
