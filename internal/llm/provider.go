// Package llm maps a source row onto the columns of a destination table,
// either through a text-generation backend or with an offline heuristic.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jask/formdesk/internal/fields"
)

// DefaultTimeout bounds a single mapping call.
const DefaultTimeout = 60 * time.Second

// Mapper maps one row onto destination columns.
type Mapper interface {
	MapRow(ctx context.Context, row map[string]fields.Value, columns []string) (Mapped, error)
}

// MapRequest is the wire form of a mapping request.
type MapRequest struct {
	Row     map[string]fields.Value `json:"row"`
	Columns []string                `json:"columns"`
}

// Mapped is a mapping result. Keys keeps the order the backend produced.
type Mapped struct {
	Fields map[string]fields.Value
	Keys   []string
}

// MarshalJSON writes the fields as a flat object.
func (m Mapped) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Fields)
}

// Get returns a mapped value or null.
func (m Mapped) Get(key string) fields.Value {
	return m.Fields[key]
}

const promptTemplate = `
Given this row of data:
%s
And these are the destination table columns:
%s
Return a new object that maps as much relevant data as possible from the row to the destination columns. If a column cannot be filled, leave it out or set it to null.
Return only the object as JSON.`

// BuildPrompt renders the mapping prompt for a row.
func BuildPrompt(row map[string]fields.Value, columns []string) (string, error) {
	rowJSON, err := json.MarshalIndent(row, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal row: %w", err)
	}
	if columns == nil {
		columns = []string{}
	}
	colJSON, err := json.Marshal(columns)
	if err != nil {
		return "", fmt.Errorf("failed to marshal columns: %w", err)
	}
	return fmt.Sprintf(promptTemplate, rowJSON, colJSON), nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultTimeout
	}
	return context.WithTimeout(ctx, d)
}

func newClient() *http.Client {
	return &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
}
