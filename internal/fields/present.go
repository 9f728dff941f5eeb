package fields

import (
	"strings"
	"time"
)

// Color is a display category. The renderer owns the actual palette.
type Color string

const (
	ColorAccent  Color = "accent"
	ColorWarning Color = "warning"
	ColorSuccess Color = "success"
	ColorDanger  Color = "danger"
	ColorCaution Color = "caution"
	ColorInfo    Color = "info"
	ColorPerson  Color = "person"
	ColorContact Color = "contact"
	ColorDate    Color = "date"
	ColorNumber  Color = "number"
	ColorNeutral Color = "neutral"

	// user-assignable overrides
	ColorBlue   Color = "blue"
	ColorRed    Color = "red"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorPurple Color = "purple"
)

// Palette lists the colors a user may assign to a column value, in menu order.
// The empty Color clears an override.
var Palette = []Color{ColorBlue, ColorRed, ColorGreen, ColorYellow, ColorPurple, ""}

var typeColors = map[Type]Color{
	TypeLocation: ColorInfo,
	TypeState:    ColorInfo,
	TypePerson:   ColorPerson,
	TypeContact:  ColorContact,
	TypeDate:     ColorDate,
	TypeNumber:   ColorNumber,
	TypeCurrency: ColorSuccess,
	TypeLink:     ColorInfo,
}

var statusColors = map[string]Color{
	"approved":    ColorSuccess,
	"rejected":    ColorDanger,
	"pending":     ColorCaution,
	"completed":   ColorSuccess,
	"in progress": ColorInfo,
	"cancelled":   ColorDanger,
}

// ColorFor picks the display color of a cell. str is the stringified cell
// value as shown to the user.
func ColorFor(t Type, str string, cfg ColumnConfig) Color {
	if c, ok := cfg.Colored[str]; ok {
		return c
	}
	switch t {
	case TypeMultipleChoice, TypeLink:
		return ColorAccent
	case TypeEmpty:
		return ColorWarning
	case TypeBoolean:
		if str == "true" {
			return ColorSuccess
		}
		return ColorDanger
	case TypeStatus:
		if c, ok := statusColors[strings.ToLower(str)]; ok {
			return c
		}
		return ColorNeutral
	}
	if c, ok := typeColors[t]; ok {
		return c
	}
	return ColorNeutral
}

// Placeholder is shown for null and empty cells.
const Placeholder = "-"

// Format renders a cell for display.
func Format(v Value, t Type) string {
	if t == TypeDate {
		if d, ok := asDate(v); ok {
			return d.Format(DisplayDateLayout)
		}
	}
	return Display(v)
}

// Display is the plain string form with the placeholder for empty values.
func Display(v Value) string {
	s := v.String()
	if s == "" {
		return Placeholder
	}
	return s
}

// Tooltip is the full text behind a cell, used for detail views and copying.
func Tooltip(v Value, t Type) string {
	s := Display(v)
	if t == TypeCurrency && s != Placeholder && !strings.HasPrefix(s, "$") {
		return "$" + s
	}
	return s
}

func asDate(v Value) (time.Time, bool) {
	switch v.Kind() {
	case KindString:
		s := v.Str()
		if d, ok := parseISO(strings.TrimSpace(s)); ok {
			return d, true
		}
		if d, ok := ParseEpoch(s); ok {
			return d, true
		}
		return parseGeneric(strings.TrimSpace(s))
	case KindNumber:
		return time.UnixMilli(int64(v.Num())).UTC(), true
	}
	return time.Time{}, false
}
