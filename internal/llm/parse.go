package llm

import (
	"errors"
	"strings"

	"github.com/jask/formdesk/internal/fields"
)

// ErrUnparsable is returned when no JSON object can be recovered from a
// backend reply.
var ErrUnparsable = errors.New("unparsable mapping response")

// UnparsableError carries the raw reply alongside ErrUnparsable.
type UnparsableError struct {
	Raw string
}

func (e *UnparsableError) Error() string { return ErrUnparsable.Error() }

func (e *UnparsableError) Unwrap() error { return ErrUnparsable }

// ParseMapping recovers a JSON object from free text. It tries the whole
// text first, then each balanced {...} block in order.
func ParseMapping(text string) (Mapped, error) {
	if m, err := decodeObject([]byte(strings.TrimSpace(text))); err == nil {
		return m, nil
	}
	for from := 0; from < len(text); {
		block, end, ok := extractJSONObject(text, from)
		if !ok {
			break
		}
		if m, err := decodeObject([]byte(block)); err == nil {
			return m, nil
		}
		from = end
	}
	return Mapped{}, &UnparsableError{Raw: text}
}

func decodeObject(data []byte) (Mapped, error) {
	values, keys, err := fields.DecodeObject(data)
	if err != nil {
		return Mapped{}, err
	}
	return Mapped{Fields: values, Keys: keys}, nil
}

// extractJSONObject finds the first balanced {...} block at or after from,
// skipping braces inside string literals. end is the offset to resume from.
func extractJSONObject(s string, from int) (block string, end int, ok bool) {
	for start := from; start < len(s); start++ {
		if s[start] != '{' {
			continue
		}
		if i, found := closingBrace(s, start); found {
			return s[start : i+1], start + 1, true
		}
	}
	return "", len(s), false
}

func closingBrace(s string, start int) (int, bool) {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
