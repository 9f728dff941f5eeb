package fields

import (
	"encoding/json"
	"math"
	"strconv"
)

// Kind enumerates the closed set of cell value shapes.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindNested
)

// Value is a single cell. The zero value is null.
type Value struct {
	kind   Kind
	str    string
	num    float64
	b      bool
	nested any
}

// Null returns the null value.
func Null() Value { return Value{} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number wraps a JSON number.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Nested wraps a decoded JSON object or array.
func Nested(v any) Value { return Value{kind: KindNested, nested: v} }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str is the raw string of a string value, "" for other kinds.
func (v Value) Str() string { return v.str }

// Num is the number of a number value, 0 for other kinds.
func (v Value) Num() float64 { return v.num }

// BoolVal is the boolean of a bool value, false for other kinds.
func (v Value) BoolVal() bool { return v.b }

// NestedVal is the decoded object or array of a nested value, nil otherwise.
func (v Value) NestedVal() any { return v.nested }

// FromAny converts a decoded JSON value (or a Go scalar) into a Value.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return Number(f)
		}
		return String(t.String())
	default:
		return Nested(t)
	}
}

// Any is the inverse of FromAny, used when a row is serialized.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindNested:
		return v.nested
	}
	return nil
}

// String renders the value the way a browser would stringify it, except that
// nested values become compact JSON. Null renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return formatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNested:
		b, err := json.Marshal(v.nested)
		if err != nil {
			return ""
		}
		return string(b)
	}
	return ""
}

// Truthy reports whether the value would pass a JavaScript truthiness check.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindString:
		return v.str != ""
	case KindNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case KindBool:
		return v.b
	case KindNested:
		return v.nested != nil
	}
	return false
}

// Equal compares two values structurally; nested values compare by JSON form.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindNested:
		return v.String() == o.String()
	}
	return true
}

// MarshalJSON writes the underlying scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// UnmarshalJSON accepts any JSON value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var x any
	if err := json.Unmarshal(data, &x); err != nil {
		return err
	}
	*v = FromAny(x)
	return nil
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
