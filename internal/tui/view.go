package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/jask/formdesk/internal/fields"
	"github.com/jask/formdesk/internal/filter"
	"github.com/jask/formdesk/internal/state"
	"github.com/jask/formdesk/internal/table"
)

const (
	cellWidth    = 24
	minTableCols = 1
)

func (a *App) View() string {
	switch {
	case a.st.LoadErr != nil:
		return a.renderError()
	case a.st.Loading:
		return fmt.Sprintf("%s Loading submissions...\n\n%s", a.spinner.View(), dimStyle.Render("[q] Quit"))
	}

	parts := []string{
		titleStyle.Render("Form Submissions"),
		a.renderTabs(),
		a.renderSearch(),
	}
	if chips := a.renderChips(); chips != "" {
		parts = append(parts, chips)
	}
	parts = append(parts, a.renderTable(), a.renderFooter())
	if n := a.renderNotice(); n != "" {
		parts = append(parts, n)
	}
	if a.modal != modalNone && a.modal != modalSearch {
		parts = append(parts, a.renderModal())
	}
	parts = append(parts, a.help.View(a.keys))
	return strings.Join(parts, "\n")
}

func (a *App) renderError() string {
	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s",
		titleStyle.Render("Form Submissions"),
		errorStyle.Render("Could not load submissions"),
		a.st.LoadErr.Error(),
		dimStyle.Render("[r] Retry  [q] Quit"))
}

func (a *App) renderTabs() string {
	by := table.BySection(a.st.Tables)
	var lines []string
	for _, sec := range table.Sections {
		names := by[sec]
		if len(names) == 0 {
			continue
		}
		tabs := make([]string, 0, len(names))
		for _, n := range names {
			label := fmt.Sprintf("%s (%d)", n, a.tableSize(n))
			if n == a.st.Active {
				tabs = append(tabs, activeTab.Render(label))
			} else {
				tabs = append(tabs, tabStyle.Render(label))
			}
		}
		lines = append(lines, sectionStyle.Render(string(sec))+" "+lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	}
	return strings.Join(lines, "\n")
}

func (a *App) tableSize(name string) int {
	if i := table.Index(a.st.Tables, name); i >= 0 {
		return len(a.st.Tables[i].Rows)
	}
	return 0
}

func (a *App) renderSearch() string {
	if a.modal == modalSearch {
		return a.search.View()
	}
	if a.st.Search == "" {
		return dimStyle.Render("/ search all columns")
	}
	return "/ " + a.st.Search
}

func (a *App) renderChips() string {
	chips := a.st.Chips()
	if len(chips) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(chips))
	for _, c := range chips {
		color := cellColor(fields.ColorFor(c.Type, c.Value, a.st.ColumnConfig(c.Column)))
		rendered = append(rendered, chipStyle.Foreground(color).Render(c.Column+": "+truncateText(c.Value, cellWidth)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, rendered...)
}

// visibleColumns picks the window of columns that fits the width and keeps
// the focused column on screen.
func (a *App) visibleColumns(cols []string) (int, int) {
	if len(cols) == 0 {
		return 0, 0
	}
	fit := len(cols)
	if a.width > 0 {
		// row number and selection mark take about one cell
		fit = max((a.width-cellWidth)/(cellWidth+3), minTableCols)
	}
	start := 0
	if a.colCur >= fit {
		start = a.colCur - fit + 1
	}
	end := min(start+fit, len(cols))
	return start, end
}

func (a *App) renderTable() string {
	t, ok := a.st.Current()
	if !ok {
		return dimStyle.Render("No tables.")
	}
	rows := a.st.PageRows()
	if len(rows) == 0 {
		if len(t.Rows) == 0 {
			return dimStyle.Render("No submissions in this table.")
		}
		return dimStyle.Render("No rows match the current search and filters.")
	}

	start, end := a.visibleColumns(t.Columns)
	cols := t.Columns[start:end]
	from, _ := table.Bounds(a.st.Page, a.st.PageSize, len(a.st.Visible()))

	headers := make([]string, 0, len(cols)+2)
	headers = append(headers, "#", "")
	for _, c := range cols {
		label := truncateText(c, cellWidth)
		if c == a.st.SortBy {
			if a.st.SortDir == table.Desc {
				label += " ▼"
			} else {
				label += " ▲"
			}
		}
		headers = append(headers, label)
	}

	data := make([][]string, len(rows))
	colors := make([][]lipgloss.Color, len(rows))
	for i, r := range rows {
		line := make([]string, 0, len(cols)+2)
		tint := make([]lipgloss.Color, 0, len(cols)+2)
		mark := " "
		if a.st.IsSelected(r.Key()) {
			mark = "✓"
		}
		line = append(line, fmt.Sprintf("%d", from+i+1), mark)
		tint = append(tint, colorOverlay0, colorGreen)
		for _, c := range cols {
			v := r.Get(c)
			cfg := t.Config.For(c)
			typ := fields.Classify(v, c, cfg)
			line = append(line, truncateText(fields.Format(v, typ), cellWidth))
			tint = append(tint, cellColor(fields.ColorFor(typ, v.String(), cfg)))
		}
		data[i] = line
		colors[i] = tint
	}

	focusCol := a.colCur - start + 2
	tbl := ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(colors) || col >= len(colors[row]) {
				return cellStyle
			}
			s := cellStyle.Foreground(colors[row][col])
			if row == a.rowCur {
				if col == focusCol {
					return s.Inherit(focusStyle)
				}
				return s.Inherit(cursorStyle)
			}
			return s
		})
	return tbl.Render()
}

func (a *App) renderFooter() string {
	total := len(a.st.Visible())
	from, to := table.Bounds(a.st.Page, a.st.PageSize, total)
	shown := fmt.Sprintf("Showing %d to %d of %d", min(from+1, to), to, total)
	if total == 0 {
		shown = "Showing 0 to 0 of 0"
	}
	out := fmt.Sprintf("%s  ·  page %d/%d", shown, a.st.Page+1, a.st.PageCount())
	if n := len(a.st.Selected); n > 0 {
		out += "  ·  " + selectedStyle.Render(fmt.Sprintf("%d selected", n))
	}
	switch a.st.Phase() {
	case state.PhaseMoving:
		out += "  ·  " + a.spinner.View() + " moving to " + a.st.InFlight.Target
	case state.PhaseCommitted:
		out += "  ·  [u] revert last move"
	}
	return out
}

func (a *App) renderNotice() string {
	var lines []string
	if n := a.st.Notice; n != nil {
		if n.Error {
			lines = append(lines, errorStyle.Render(n.Text))
		} else {
			lines = append(lines, successStyle.Render(n.Text))
		}
	}
	if a.status != "" {
		lines = append(lines, dimStyle.Render(a.status))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderModal() string {
	var body string
	switch a.modal {
	case modalFilter:
		body = a.renderFilterModal()
	case modalTarget:
		body = a.renderTargetModal()
	case modalNotes:
		body = a.renderNotesModal()
	case modalColumn:
		body = a.renderColumnModal()
	}
	return modalStyle.Render(body)
}

func marker(on bool) string {
	if on {
		return "▶"
	}
	return " "
}

func (a *App) renderFilterModal() string {
	f, _ := a.st.Filters.At(a.filterIdx)
	col := f.Column
	if col == "" {
		col = "(choose column)"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Filter %d of %d", a.filterIdx+1, a.st.Filters.Len())) + "\n")
	fmt.Fprintf(&b, "%s Column:   ‹ %s ›\n", marker(a.filterField == filterFieldColumn), col)
	fmt.Fprintf(&b, "%s Operator: ‹ %s ›\n", marker(a.filterField == filterFieldOperator), f.Operator.Label())
	fmt.Fprintf(&b, "%s Value:    %s\n", marker(a.filterField == filterFieldValue), a.filterValue.View())
	if f.Operator == filter.Between {
		fmt.Fprintf(&b, "%s Upper:    %s\n", marker(a.filterField == filterFieldUpper), a.filterUpper.View())
	}
	b.WriteString(dimStyle.Render("[tab] Next field  [←/→] Change  [ctrl+n/p] Other filter  [ctrl+x] Remove  [enter] Done"))
	return b.String()
}

func (a *App) renderTargetModal() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Move %d rows to", len(a.st.Selected))) + "\n")
	for i, name := range a.st.Targets() {
		fmt.Fprintf(&b, "%s %s\n", marker(i == a.targetCur), name)
	}
	b.WriteString(dimStyle.Render("[enter] Move  [esc] Cancel"))
	return b.String()
}

func (a *App) renderNotesModal() string {
	var b strings.Builder
	title := fmt.Sprintf("Notes · %s", a.notesRow.Token())
	if !a.notesRow.CreatedAt.IsZero() {
		title += " · " + a.notesRow.CreatedAt.In(a.tz).Format(fields.DisplayDateLayout)
	}
	b.WriteString(titleStyle.Render(title) + "\n")
	for i := 0; i < notesFieldText; i++ {
		v := *a.notesChoice(i)
		if v == "" {
			v = "(none)"
		}
		fmt.Fprintf(&b, "%s %-14s ‹ %s ›\n", marker(a.notesField == i), notesLabels[i]+":", v)
	}
	fmt.Fprintf(&b, "%s %s\n%s\n", marker(a.notesField == notesFieldText), notesLabels[notesFieldText]+":", a.notesText.View())
	switch {
	case a.notesSaving:
		b.WriteString(a.spinner.View() + " saving...\n")
	case a.notesErr != "":
		b.WriteString(errorStyle.Render("save failed: "+a.notesErr) + "\n")
	}
	b.WriteString(dimStyle.Render("[tab] Next field  [←/→] Choose  [ctrl+s] Save  [esc] Cancel"))
	return b.String()
}

func (a *App) renderColumnModal() string {
	cfg := a.st.ColumnConfig(a.colName)
	var b strings.Builder
	b.WriteString(titleStyle.Render("Column · "+a.colName) + "\n")
	fmt.Fprintf(&b, "[m] multiple choice: %v  [l] link: %v  [e] flag empty: %v\n\n", cfg.MultipleChoice, cfg.Link, cfg.EmptyFlagged)
	for i, vc := range a.colValues {
		label := fields.Display(fields.String(vc.Value))
		swatch := "  "
		if c, ok := cfg.Colored[vc.Value]; ok {
			swatch = lipgloss.NewStyle().Foreground(cellColor(c)).Render("● ")
		}
		fmt.Fprintf(&b, "%s %s%-*s %d\n", marker(i == a.colValueAt), swatch, cellWidth, truncateText(label, cellWidth), vc.Count)
	}
	var palette []string
	for i, c := range fields.Palette {
		name := string(c)
		if name == "" {
			name = "none"
		}
		palette = append(palette, fmt.Sprintf("[%d] %s", i+1, name))
	}
	b.WriteString("\n" + dimStyle.Render(strings.Join(palette, "  ")+"  [esc] Close"))
	return b.String()
}
