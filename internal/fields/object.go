package fields

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// DecodeObject decodes a JSON object into values, returning its top-level
// keys in document order. Trailing data after the object is an error.
func DecodeObject(data []byte) (map[string]Value, []string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}
	values := map[string]Value{}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected key, got %v", tok)
		}
		var v Value
		if err := dec.Decode(&v); err != nil {
			return nil, nil, err
		}
		if _, dup := values[key]; !dup {
			keys = append(keys, key)
		}
		values[key] = v
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	if dec.More() {
		return nil, nil, errors.New("trailing data after object")
	}
	return values, keys, nil
}

// DecodePayload decodes a stored payload that is either a JSON object or a
// JSON string holding one. Empty and null payloads decode to an empty object.
func DecodePayload(data []byte) (map[string]Value, []string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return map[string]Value{}, nil, nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, nil, err
		}
		if s == "" || s == "null" {
			return map[string]Value{}, nil, nil
		}
		return DecodeObject([]byte(s))
	}
	return DecodeObject(trimmed)
}
