package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/formdesk/internal/fields"
)

// Catppuccin Mocha
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorSky      lipgloss.Color = "#89dceb"
	colorSapphire lipgloss.Color = "#74c7ec"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
)

var cellColors = map[fields.Color]lipgloss.Color{
	fields.ColorAccent:  colorMauve,
	fields.ColorWarning: colorRed,
	fields.ColorSuccess: colorGreen,
	fields.ColorDanger:  colorRed,
	fields.ColorCaution: colorYellow,
	fields.ColorInfo:    colorSky,
	fields.ColorPerson:  colorPink,
	fields.ColorContact: colorTeal,
	fields.ColorDate:    colorLavender,
	fields.ColorNumber:  colorPeach,
	fields.ColorNeutral: colorText,

	fields.ColorBlue:   colorBlue,
	fields.ColorRed:    colorRed,
	fields.ColorGreen:  colorGreen,
	fields.ColorYellow: colorYellow,
	fields.ColorPurple: colorMauve,
}

func cellColor(c fields.Color) lipgloss.Color {
	if lc, ok := cellColors[c]; ok {
		return lc
	}
	return colorText
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPink)
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorOverlay0)
	tabStyle      = lipgloss.NewStyle().Padding(0, 1).Foreground(colorSubtext0)
	activeTab     = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(colorLavender).Underline(true)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorSapphire).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	cursorStyle   = lipgloss.NewStyle().Background(colorSurface0)
	focusStyle    = lipgloss.NewStyle().Background(colorSurface1).Bold(true)
	chipStyle     = lipgloss.NewStyle().Padding(0, 1).Foreground(colorMauve).Border(lipgloss.RoundedBorder()).BorderForeground(colorSurface1)
	dimStyle      = lipgloss.NewStyle().Foreground(colorOverlay0)
	errorStyle    = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	successStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	modalStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorLavender).Padding(1, 2)
	selectedStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
)
