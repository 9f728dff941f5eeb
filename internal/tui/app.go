// Package tui is the bubbletea dashboard over the loaded form tables.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/formdesk/internal/fields"
	"github.com/jask/formdesk/internal/prefs"
	"github.com/jask/formdesk/internal/service"
	"github.com/jask/formdesk/internal/state"
	"github.com/jask/formdesk/internal/table"
)

// Loader reads every table from the store.
type Loader interface {
	Load(ctx context.Context) ([]table.Table, service.LoadReport, error)
}

// NotesSaver persists the notes of one row and returns the stored string.
type NotesSaver interface {
	Save(ctx context.Context, row table.Row, notes service.Notes) (string, error)
}

// RowMover maps the rows of a move onto the destination columns.
type RowMover interface {
	Map(ctx context.Context, move state.Move, columns []string) state.MoveCompleted
}

// ColumnSaver persists column colors and flags between runs.
type ColumnSaver interface {
	SaveColumns(cols prefs.Columns) error
}

type Services struct {
	Loader  Loader
	Notes   NotesSaver
	Mover   RowMover
	Columns ColumnSaver
}

// App is the root model.
type App struct {
	ctx      context.Context
	services Services
	log      *zap.Logger
	tz       *time.Location

	st     state.State
	status string

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	search   textinput.Model
	width    int
	height   int
	rowCur   int
	colCur   int
	modal    modalState
	copyText func(string) error

	// filter editor
	filterIdx   int
	filterField int
	filterValue textinput.Model
	filterUpper textinput.Model

	targetCur int

	// notes editor
	notesRow    table.Row
	notesTable  string
	notes       service.Notes
	notesField  int
	notesText   textarea.Model
	notesErr    string
	notesSaving bool

	// column config
	colName    string
	colValues  []valueCount
	colValueAt int
}

type modalState string

const (
	modalNone   modalState = ""
	modalSearch modalState = "search"
	modalFilter modalState = "filter"
	modalTarget modalState = "target"
	modalNotes  modalState = "notes"
	modalColumn modalState = "column"
)

// New builds the dashboard. pageSize and tz come from the ui config.
func New(ctx context.Context, services Services, log *zap.Logger, pageSize int, tz *time.Location) *App {
	if log == nil {
		log = zap.NewNop()
	}
	if tz == nil {
		tz = time.Local
	}
	search := textinput.New()
	search.Placeholder = "search all columns"
	search.Prompt = "/ "

	value := textinput.New()
	value.Placeholder = "value"
	upper := textinput.New()
	upper.Placeholder = "upper bound"

	notes := textarea.New()
	notes.Placeholder = "Additional notes"
	notes.SetWidth(60)
	notes.SetHeight(5)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = titleStyle

	return &App{
		ctx:         ctx,
		services:    services,
		log:         log,
		tz:          tz,
		st:          state.New(pageSize),
		keys:        defaultKeys(),
		help:        help.New(),
		spinner:     sp,
		search:      search,
		filterValue: value,
		filterUpper: upper,
		notesText:   notes,
		copyText:    clipboard.WriteAll,
	}
}

// State exposes the current dashboard state.
func (a *App) State() state.State { return a.st }

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadCmd(), a.spinner.Tick)
}

func (a *App) dispatch(act state.Action) {
	a.st = state.Reduce(a.st, act)
	a.clampCursor()
}

// messages
type loadedMsg struct {
	tables []table.Table
	report service.LoadReport
	err    error
}

type moveDoneMsg struct{ result state.MoveCompleted }

type notesSavedMsg struct {
	table  string
	rowKey string
	notes  string
	err    error
}

type columnsSavedMsg struct{ err error }

type copiedMsg struct {
	text string
	err  error
}

// commands

func (a *App) loadCmd() tea.Cmd {
	ctx, loader := a.ctx, a.services.Loader
	return func() tea.Msg {
		if loader == nil {
			return loadedMsg{err: fmt.Errorf("loader not configured")}
		}
		tables, report, err := loader.Load(ctx)
		return loadedMsg{tables: tables, report: report, err: err}
	}
}

func (a *App) moveCmd(move state.Move, columns []string) tea.Cmd {
	ctx, mover := a.ctx, a.services.Mover
	return func() tea.Msg {
		if mover == nil {
			out := state.MoveCompleted{Source: move.Source, Target: move.Target}
			for _, r := range move.Rows {
				out.Results = append(out.Results, state.MoveResult{Key: r.Key(), Err: fmt.Errorf("mapper not configured")})
			}
			return moveDoneMsg{out}
		}
		return moveDoneMsg{mover.Map(ctx, move, columns)}
	}
}

func (a *App) saveNotesCmd(tableName string, row table.Row, notes service.Notes) tea.Cmd {
	ctx, saver := a.ctx, a.services.Notes
	return func() tea.Msg {
		if saver == nil {
			return notesSavedMsg{table: tableName, rowKey: row.Key(), err: fmt.Errorf("notes store not configured")}
		}
		stored, err := saver.Save(ctx, row, notes)
		return notesSavedMsg{table: tableName, rowKey: row.Key(), notes: stored, err: err}
	}
}

func (a *App) saveColumnsCmd() tea.Cmd {
	saver := a.services.Columns
	if saver == nil {
		return nil
	}
	cols := prefs.Collect(a.st.Tables)
	return func() tea.Msg {
		return columnsSavedMsg{err: saver.SaveColumns(cols)}
	}
}

func (a *App) copyCmd(text string) tea.Cmd {
	write := a.copyText
	return func() tea.Msg {
		return copiedMsg{text: text, err: write(text)}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
		return a, nil
	case spinner.TickMsg:
		if !a.st.Loading && a.st.Phase() != state.PhaseMoving {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(m)
		return a, cmd
	case loadedMsg:
		a.rowCur, a.colCur = 0, 0
		if m.err != nil {
			a.log.Error("load failed", zap.Error(m.err))
			a.dispatch(state.LoadFailed{Err: m.err})
			return a, nil
		}
		a.dispatch(state.LoadCompleted{Tables: m.tables})
		a.status = loadSummary(m.report)
		return a, nil
	case moveDoneMsg:
		a.dispatch(m.result)
		a.status = ""
		return a, nil
	case notesSavedMsg:
		a.notesSaving = false
		if m.err != nil {
			a.log.Warn("notes save failed", zap.String("row", m.rowKey), zap.Error(m.err))
			a.notesErr = m.err.Error()
			return a, nil
		}
		a.dispatch(state.NotesSaved{Table: m.table, RowKey: m.rowKey, Notes: m.notes})
		if a.modal == modalNotes {
			a.closeModal()
		}
		a.status = "notes saved"
		return a, nil
	case columnsSavedMsg:
		if m.err != nil {
			a.log.Warn("column preferences not saved", zap.Error(m.err))
			a.status = "column colors not saved: " + m.err.Error()
		}
		return a, nil
	case copiedMsg:
		if m.err != nil {
			a.status = "copy failed: " + m.err.Error()
		} else {
			a.status = fmt.Sprintf("copied %q", truncateText(m.text, 40))
		}
		return a, nil
	case tea.KeyMsg:
		return a.handleKey(m)
	}
	return a, nil
}

func loadSummary(r service.LoadReport) string {
	if r.BadPayloads > 0 {
		return fmt.Sprintf("%d payloads unreadable", r.BadPayloads)
	}
	return ""
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.String() == "ctrl+c" {
		return a, tea.Quit
	}
	switch a.modal {
	case modalSearch:
		return a.handleSearchKey(m)
	case modalFilter:
		return a.handleFilterKey(m)
	case modalTarget:
		return a.handleTargetKey(m)
	case modalNotes:
		return a.handleNotesKey(m)
	case modalColumn:
		return a.handleColumnKey(m)
	}

	if key.Matches(m, a.keys.Quit) {
		return a, tea.Quit
	}
	if a.st.Loading {
		return a, nil
	}
	if a.st.LoadErr != nil {
		if key.Matches(m, a.keys.Reload) {
			return a, a.reload()
		}
		return a, nil
	}
	if a.st.Phase() == state.PhaseMoving {
		return a, nil
	}

	switch {
	case key.Matches(m, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	case key.Matches(m, a.keys.Reload):
		return a, a.reload()
	case key.Matches(m, a.keys.NextTab):
		a.switchTab(1)
	case key.Matches(m, a.keys.PrevTab):
		a.switchTab(-1)
	case key.Matches(m, a.keys.Up):
		if a.rowCur > 0 {
			a.rowCur--
		}
	case key.Matches(m, a.keys.Down):
		if a.rowCur < len(a.st.PageRows())-1 {
			a.rowCur++
		}
	case key.Matches(m, a.keys.Left):
		if a.colCur > 0 {
			a.colCur--
		}
	case key.Matches(m, a.keys.Right):
		if a.colCur < len(a.columns())-1 {
			a.colCur++
		}
	case key.Matches(m, a.keys.NextPage):
		a.dispatch(state.SetPage{Page: a.st.Page + 1})
		a.rowCur = 0
	case key.Matches(m, a.keys.PrevPage):
		a.dispatch(state.SetPage{Page: a.st.Page - 1})
		a.rowCur = 0
	case key.Matches(m, a.keys.Search):
		a.modal = modalSearch
		a.search.SetValue(a.st.Search)
		return a, a.search.Focus()
	case key.Matches(m, a.keys.AddFilter):
		return a, a.openFilter(-1)
	case key.Matches(m, a.keys.EditFilter):
		if a.st.Filters.Len() == 0 {
			a.status = "no filters"
			return a, nil
		}
		return a, a.openFilter(0)
	case key.Matches(m, a.keys.DropCell):
		col, v, ok := a.focusedCell()
		if !ok || !v.Truthy() {
			return a, nil
		}
		a.dispatch(state.DropCell{Column: col, Value: v.String()})
	case key.Matches(m, a.keys.PopChip):
		chips := a.st.Chips()
		if len(chips) == 0 {
			return a, nil
		}
		a.dispatch(state.RemoveChip{Chip: chips[len(chips)-1]})
	case key.Matches(m, a.keys.Sort):
		if cols := a.columns(); a.colCur < len(cols) {
			a.dispatch(state.SortBy{Field: cols[a.colCur]})
		}
	case key.Matches(m, a.keys.Select):
		if row, ok := a.focusedRow(); ok {
			a.dispatch(state.ToggleRow{Key: row.Key()})
		}
	case key.Matches(m, a.keys.SelectPage):
		a.dispatch(state.SelectPage{})
	case key.Matches(m, a.keys.Move):
		if len(a.st.Selected) == 0 {
			a.status = "select rows first"
			return a, nil
		}
		if len(a.st.Targets()) == 0 {
			a.status = "no other table to move to"
			return a, nil
		}
		a.modal = modalTarget
		a.targetCur = 0
	case key.Matches(m, a.keys.Revert):
		if !a.st.CanRevert {
			a.status = "nothing to revert"
			return a, nil
		}
		a.dispatch(state.Revert{})
		a.status = "move reverted"
	case key.Matches(m, a.keys.Notes):
		if row, ok := a.focusedRow(); ok {
			a.openNotes(row)
			return a, a.notesFocusCmd()
		}
	case key.Matches(m, a.keys.Column):
		if cols := a.columns(); a.colCur < len(cols) {
			a.openColumn(cols[a.colCur])
		}
	case key.Matches(m, a.keys.Copy):
		col, v, ok := a.focusedCell()
		if !ok {
			return a, nil
		}
		t := fields.Classify(v, col, a.st.ColumnConfig(col))
		return a, a.copyCmd(fields.Tooltip(v, t))
	case key.Matches(m, a.keys.Dismiss):
		a.dispatch(state.DismissNotice{})
		a.status = ""
	}
	return a, nil
}

func (a *App) reload() tea.Cmd {
	a.dispatch(state.LoadStarted{})
	a.status = ""
	return tea.Batch(a.loadCmd(), a.spinner.Tick)
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEnter:
		a.search.Blur()
		a.modal = modalNone
		return a, nil
	case tea.KeyEsc:
		a.search.SetValue("")
		a.search.Blur()
		a.modal = modalNone
		a.dispatch(state.SetSearch{Query: ""})
		return a, nil
	}
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(m)
	if a.search.Value() != a.st.Search {
		a.dispatch(state.SetSearch{Query: a.search.Value()})
		a.rowCur = 0
	}
	return a, cmd
}

func (a *App) handleTargetKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	targets := a.st.Targets()
	switch m.String() {
	case "esc":
		a.modal = modalNone
	case "up", "k":
		if a.targetCur > 0 {
			a.targetCur--
		}
	case "down", "j":
		if a.targetCur < len(targets)-1 {
			a.targetCur++
		}
	case "enter":
		a.modal = modalNone
		if a.targetCur >= len(targets) {
			return a, nil
		}
		a.dispatch(state.ChooseTarget{Name: targets[a.targetCur]})
		a.dispatch(state.StartMove{})
		if a.st.InFlight == nil {
			return a, nil
		}
		move := *a.st.InFlight
		var columns []string
		if i := table.Index(a.st.Tables, move.Target); i >= 0 {
			columns = a.st.Tables[i].Columns
		}
		a.status = fmt.Sprintf("mapping %d rows to %s", len(move.Rows), move.Target)
		a.log.Info("move started", zap.String("source", move.Source), zap.String("target", move.Target), zap.Int("rows", len(move.Rows)))
		return a, tea.Batch(a.moveCmd(move, columns), a.spinner.Tick)
	}
	return a, nil
}

func (a *App) closeModal() {
	a.modal = modalNone
	a.filterValue.Blur()
	a.filterUpper.Blur()
	a.notesText.Blur()
	a.notesErr = ""
}

// tabOrder lists table names section by section.
func (a *App) tabOrder() []string {
	by := table.BySection(a.st.Tables)
	var out []string
	for _, sec := range table.Sections {
		out = append(out, by[sec]...)
	}
	return out
}

func (a *App) switchTab(step int) {
	order := a.tabOrder()
	if len(order) < 2 {
		return
	}
	cur := 0
	for i, n := range order {
		if n == a.st.Active {
			cur = i
			break
		}
	}
	next := (cur + step + len(order)) % len(order)
	a.dispatch(state.SwitchTab{Name: order[next]})
	a.rowCur, a.colCur = 0, 0
	a.search.SetValue("")
}

func (a *App) columns() []string {
	t, ok := a.st.Current()
	if !ok {
		return nil
	}
	return t.Columns
}

func (a *App) focusedRow() (table.Row, bool) {
	rows := a.st.PageRows()
	if a.rowCur < 0 || a.rowCur >= len(rows) {
		return table.Row{}, false
	}
	return rows[a.rowCur], true
}

func (a *App) focusedCell() (string, fields.Value, bool) {
	row, ok := a.focusedRow()
	cols := a.columns()
	if !ok || a.colCur >= len(cols) {
		return "", fields.Null(), false
	}
	return cols[a.colCur], row.Get(cols[a.colCur]), true
}

func (a *App) clampCursor() {
	if n := len(a.st.PageRows()); a.rowCur >= n {
		a.rowCur = max(n-1, 0)
	}
	if n := len(a.columns()); a.colCur >= n {
		a.colCur = max(n-1, 0)
	}
}
