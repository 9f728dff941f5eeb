package repository

import (
	"strconv"
	"strings"
)

// Dialect covers the SQL differences between the supported stores.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// DialectFor maps a driver name to its dialect.
func DialectFor(driver string) Dialect {
	if driver == "postgres" {
		return Postgres
	}
	return SQLite
}

// Rebind rewrites ? placeholders to $N for postgres.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// tokenExpr selects the payload's Token field as text.
func (d Dialect) tokenExpr() string {
	if d == Postgres {
		return "submission->>'Token'"
	}
	return "json_extract(submission, '$.Token')"
}
