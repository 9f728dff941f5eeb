package repository

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when an update matches no record.
var ErrNotFound = errors.New("record not found")

// Table names a record set.
type Table string

const (
	FormSubmissions Table = "form_submissions"
	CreatorLog      Table = "creator_log"
)

// Record is one stored submission. Submission holds the raw payload, which
// is either a JSON object or a JSON string containing one.
type Record struct {
	ID         string
	FormName   string
	Submission []byte
	CreatedAt  time.Time
	Notes      sql.NullString
}
