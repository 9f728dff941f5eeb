// Package prefs keeps per-user display preferences outside the record store.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jask/formdesk/internal/fields"
	"github.com/jask/formdesk/internal/table"
)

const columnsFile = "columns.json"

// Columns holds column overrides per table name.
type Columns map[string]fields.Configs

// Store reads and writes preference files under Dir.
type Store struct {
	Dir string
}

// Default returns the store under the user config directory.
func Default() (Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return Store{}, err
	}
	return Store{Dir: filepath.Join(dir, "formdesk")}, nil
}

func (s Store) columnsPath() (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, columnsFile), nil
}

// SaveColumns replaces the stored column overrides.
func (s Store) SaveColumns(cols Columns) error {
	path, err := s.columnsPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cols, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadColumns returns the stored overrides; a missing file is not an error.
func (s Store) LoadColumns() (Columns, error) {
	path, err := s.columnsPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var cols Columns
	if err := json.Unmarshal(data, &cols); err != nil {
		return nil, fmt.Errorf("parse %s: %w", columnsFile, err)
	}
	return cols, nil
}

// Collect gathers the non-empty overrides of each table.
func Collect(tables []table.Table) Columns {
	out := Columns{}
	for _, t := range tables {
		if len(t.Config) > 0 {
			out[t.Name] = t.Config.Clone()
		}
	}
	return out
}

// Apply returns tables carrying the stored overrides. Tables without stored
// overrides are returned as they are.
func Apply(tables []table.Table, cols Columns) []table.Table {
	if len(cols) == 0 {
		return tables
	}
	out := make([]table.Table, len(tables))
	for i, t := range tables {
		if cfg, ok := cols[t.Name]; ok {
			t.Config = cfg.Clone()
		}
		out[i] = t
	}
	return out
}
