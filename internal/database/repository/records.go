package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// RecordRepo reads and updates one record table.
type RecordRepo struct {
	db      *sql.DB
	dialect Dialect
	table   Table
}

// NewRecordRepo returns a repo over table.
func NewRecordRepo(db *sql.DB, d Dialect, table Table) *RecordRepo {
	return &RecordRepo{db: db, dialect: d, table: table}
}

// NewSubmissionRepo returns the form_submissions repo.
func NewSubmissionRepo(db *sql.DB, d Dialect) *RecordRepo {
	return NewRecordRepo(db, d, FormSubmissions)
}

// NewCreatorLogRepo returns the creator_log repo.
func NewCreatorLogRepo(db *sql.DB, d Dialect) *RecordRepo {
	return NewRecordRepo(db, d, CreatorLog)
}

// Table reports which table the repo serves.
func (r *RecordRepo) Table() Table { return r.table }

const recordColumns = "id, form_name, submission, created_at, notes"

// Probe checks the table is reachable.
func (r *RecordRepo) Probe(ctx context.Context) error {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf("SELECT form_name FROM %s LIMIT 1", r.table))
	if err != nil {
		return fmt.Errorf("failed to probe %s: %w", r.table, err)
	}
	defer rows.Close()
	return rows.Err()
}

// Count returns the number of records.
func (r *RecordRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", r.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", r.table, err)
	}
	return n, nil
}

// Page returns up to limit records starting at offset, in a stable order.
func (r *RecordRepo) Page(ctx context.Context, offset, limit int) ([]Record, error) {
	q := r.dialect.Rebind(fmt.Sprintf("SELECT %s FROM %s ORDER BY created_at, id LIMIT ? OFFSET ?", recordColumns, r.table))
	return r.query(ctx, q, limit, offset)
}

// All returns every record.
func (r *RecordRepo) All(ctx context.Context) ([]Record, error) {
	return r.query(ctx, fmt.Sprintf("SELECT %s FROM %s ORDER BY created_at, id", recordColumns, r.table))
}

// Insert stores a record.
func (r *RecordRepo) Insert(ctx context.Context, rec Record) error {
	q := r.dialect.Rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?)", r.table, recordColumns))
	if _, err := r.db.ExecContext(ctx, q, rec.ID, rec.FormName, string(rec.Submission), rec.CreatedAt, rec.Notes); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", r.table, err)
	}
	return nil
}

// UpdateNotesByToken sets notes on the records whose payload Token matches.
func (r *RecordRepo) UpdateNotesByToken(ctx context.Context, token, notes string) error {
	q := r.dialect.Rebind(fmt.Sprintf("UPDATE %s SET notes = ? WHERE %s = ?", r.table, r.dialect.tokenExpr()))
	return r.update(ctx, q, notes, token)
}

// UpdateNotesByID sets notes on one record.
func (r *RecordRepo) UpdateNotesByID(ctx context.Context, id, notes string) error {
	q := r.dialect.Rebind(fmt.Sprintf("UPDATE %s SET notes = ? WHERE id = ?", r.table))
	return r.update(ctx, q, notes, id)
}

func (r *RecordRepo) update(ctx context.Context, q string, args ...any) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s notes: %w", r.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update %s notes: %w", r.table, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var rec Record
	if err := s.Scan(&rec.ID, &rec.FormName, &rec.Submission, &rec.CreatedAt, &rec.Notes); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (r *RecordRepo) query(ctx context.Context, q string, args ...any) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.table, err)
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", r.table, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.table, err)
	}
	return out, nil
}
