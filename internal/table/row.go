// Package table groups raw submission records into logical tables and owns
// the column, sort and paging rules applied to them.
package table

import (
	"time"

	"github.com/jask/formdesk/internal/fields"
)

// Origin names the record set a row was read from.
type Origin string

const (
	OriginSubmissions Origin = "form_submissions"
	OriginCreatorLog  Origin = "creator_log"
)

// TokenField is the payload key used to address a submission on update.
const TokenField = "Token"

// reserved record columns never shown as payload columns
var reserved = map[string]struct{}{
	"id":         {},
	"created_at": {},
	"notes":      {},
	"form_name":  {},
}

// IsReserved reports whether a key belongs to the record rather than the payload.
func IsReserved(key string) bool {
	_, ok := reserved[key]
	return ok
}

// Row is an immutable snapshot of one record. Updates replace the whole row.
type Row struct {
	ID        string
	FormName  string
	CreatedAt time.Time
	Notes     string
	Origin    Origin
	Fields    map[string]fields.Value
	// order keys were first seen in the payload
	Keys []string
	// Ref is the Token of the stored record, captured when it was read.
	Ref string
	// Mapped is set once Fields come from a move rather than the store.
	Mapped bool
}

// Key identifies the row across tables. Record ids are only unique within
// their origin, and a moved row keeps the origin of its stored record.
func (r Row) Key() string {
	return string(r.Origin) + "/" + r.ID
}

// StoredToken is the Token addressing the row's record, or "" when the
// record has none. Mapped fields never supply it.
func (r Row) StoredToken() string {
	if r.Ref != "" || r.Mapped {
		return r.Ref
	}
	if v := r.Get(TokenField); v.Truthy() {
		return v.String()
	}
	return ""
}

// Get returns the value of a payload column, or null.
func (r Row) Get(column string) fields.Value {
	if r.Fields == nil {
		return fields.Null()
	}
	return r.Fields[column]
}

// Token is the key used to address the row's record on update: the payload's
// Token field when present, the record id otherwise.
func (r Row) Token() string {
	if tok := r.StoredToken(); tok != "" {
		return tok
	}
	return r.ID
}

// WithNotes returns a copy of the row carrying new notes.
func (r Row) WithNotes(notes string) Row {
	out := r.Clone()
	out.Notes = notes
	return out
}

// Clone returns a deep copy of the row's maps and slices. Nested values are
// shared; they are never mutated in place.
func (r Row) Clone() Row {
	out := r
	if r.Fields != nil {
		out.Fields = make(map[string]fields.Value, len(r.Fields))
		for k, v := range r.Fields {
			out.Fields[k] = v
		}
	}
	if r.Keys != nil {
		out.Keys = append(make([]string, 0, len(r.Keys)), r.Keys...)
	}
	return out
}

// ColumnKeys lists payload keys in first-seen order, falling back to sorted
// map order for rows built without Keys.
func (r Row) ColumnKeys() []string {
	if len(r.Keys) > 0 {
		return r.Keys
	}
	return sortedKeys(r.Fields)
}
