// Package fields infers display types for cell values and maps them to
// colors and display strings.
package fields

import (
	"regexp"
	"strings"
)

// Type is the inferred semantic type of a cell.
type Type string

const (
	TypeMultipleChoice Type = "multiple-choice"
	TypeLink           Type = "link"
	TypeEmpty          Type = "empty"
	TypeBoolean        Type = "boolean"
	TypePerson         Type = "person"
	TypeContact        Type = "contact"
	TypeDate           Type = "date"
	TypeLocation       Type = "location"
	TypeState          Type = "state"
	TypeText           Type = "text"
	TypeStatus         Type = "status"
	TypeCurrency       Type = "currency"
	TypeNumber         Type = "number"
)

// ColumnConfig holds per-column display overrides.
type ColumnConfig struct {
	MultipleChoice bool             `json:"isMultipleChoice,omitempty"`
	Link           bool             `json:"isLink,omitempty"`
	EmptyFlagged   bool             `json:"isEmptyRed,omitempty"`
	Colored        map[string]Color `json:"coloredValues,omitempty"`
}

// Clone returns a deep copy.
func (c ColumnConfig) Clone() ColumnConfig {
	out := c
	if c.Colored != nil {
		out.Colored = make(map[string]Color, len(c.Colored))
		for k, v := range c.Colored {
			out.Colored[k] = v
		}
	}
	return out
}

// Configs maps column name to its overrides. A nil Configs is valid.
type Configs map[string]ColumnConfig

// For returns the config of a column, or the zero config.
func (c Configs) For(column string) ColumnConfig {
	if c == nil {
		return ColumnConfig{}
	}
	return c[column]
}

// Clone returns a deep copy.
func (c Configs) Clone() Configs {
	if c == nil {
		return nil
	}
	out := make(Configs, len(c))
	for k, v := range c {
		out[k] = v.Clone()
	}
	return out
}

type keywordRule struct {
	keywords []string
	typ      Type
}

// checked against the name as written, in both lower and Capitalized form
var exactNameRules = []keywordRule{
	{[]string{"email"}, TypePerson},
	{[]string{"phone"}, TypeContact},
	{[]string{"date"}, TypeDate},
	{[]string{"address"}, TypeLocation},
	{[]string{"city"}, TypeLocation},
	{[]string{"state"}, TypeState},
	{[]string{"postal"}, TypeLocation},
	{[]string{"name"}, TypeText},
	{[]string{"website"}, TypeLink},
	{[]string{"instagram"}, TypeLink},
	{[]string{"social"}, TypeLink},
}

// checked against the lower-cased name
var lowerNameRules = []keywordRule{
	{[]string{"email"}, TypePerson},
	{[]string{"phone"}, TypeContact},
	{[]string{"date"}, TypeDate},
	{[]string{"status"}, TypeStatus},
	{[]string{"location", "country"}, TypeLocation},
	{[]string{"state"}, TypeState},
	{[]string{"amount", "price", "total"}, TypeCurrency},
	{[]string{"age", "count", "quantity"}, TypeNumber},
	{[]string{"name"}, TypeText},
}

var (
	stateRe    = regexp.MustCompile(`^[A-Z]{2}$`)
	currencyRe = regexp.MustCompile(`^\$?\d+(\.\d{2})?$`)
	phoneRe    = regexp.MustCompile(`^\d{3}[-.]?\d{3}[-.]?\d{4}$`)
)

var statusWords = map[string]struct{}{
	"pending": {}, "approved": {}, "rejected": {}, "completed": {}, "in progress": {}, "cancelled": {},
}

var emptyWords = map[string]struct{}{
	"n/a": {}, "na": {}, "no": {}, "none": {}, "null": {}, "undefined": {}, "": {},
}

// Classify infers the semantic type of a cell. It never fails; anything it
// cannot place is TypeText.
func Classify(v Value, column string, cfg ColumnConfig) Type {
	if cfg.MultipleChoice {
		return TypeMultipleChoice
	}
	if cfg.Link {
		return TypeLink
	}
	if cfg.EmptyFlagged && flaggedEmpty(v) {
		return TypeEmpty
	}

	if v.Kind() == KindBool {
		return TypeBoolean
	}

	if t, ok := classifyByName(v, column); ok {
		return t
	}

	switch v.Kind() {
	case KindNumber:
		return TypeNumber
	case KindString:
		return classifyString(v.Str())
	}
	return TypeText
}

func flaggedEmpty(v Value) bool {
	if !v.Truthy() {
		return true
	}
	s := v.String()
	return s == "n/a" || s == "no" || strings.HasPrefix(strings.ToLower(s), "n")
}

func classifyByName(v Value, column string) (Type, bool) {
	for _, r := range exactNameRules {
		for _, kw := range r.keywords {
			if !strings.Contains(column, kw) && !strings.Contains(column, capitalize(kw)) {
				continue
			}
			if r.typ == TypeLink && kw == "website" && negative(v) {
				return TypeEmpty, true
			}
			return r.typ, true
		}
	}

	lower := strings.ToLower(column)
	for _, r := range lowerNameRules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.typ, true
			}
		}
	}
	if strings.Contains(column, "title") {
		return TypeText, true
	}
	return "", false
}

// negative reports an empty answer or one that reads as "no"/"none"/"n/a".
func negative(v Value) bool {
	if !v.Truthy() {
		return true
	}
	return strings.HasPrefix(strings.ToLower(v.String()), "n")
}

func classifyString(s string) Type {
	if _, ok := ParseDate(s); ok {
		return TypeDate
	}
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(s, "@"):
		return TypePerson
	case stateRe.MatchString(s):
		return TypeState
	case currencyRe.MatchString(s):
		return TypeCurrency
	case phoneRe.MatchString(s):
		return TypeContact
	}
	if _, ok := statusWords[lower]; ok {
		return TypeStatus
	}
	if strings.HasPrefix(s, "http") {
		return TypeLink
	}
	if _, ok := emptyWords[lower]; ok {
		return TypeEmpty
	}
	return TypeText
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
