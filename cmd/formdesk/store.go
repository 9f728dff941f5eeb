package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jask/formdesk/internal/database"
	"github.com/jask/formdesk/internal/database/repository"
	"github.com/jask/formdesk/internal/prefs"
	"github.com/jask/formdesk/internal/service"
	"github.com/jask/formdesk/internal/table"
)

const notesTimeout = 15 * time.Second

// openStore migrates and connects the configured database.
func (a *app) openStore(ctx context.Context) (*sql.DB, repository.Dialect, error) {
	driver := database.Driver(a.cfg.Database.Driver)
	target := a.cfg.Target()
	if driver == database.SQLite {
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, repository.SQLite, fmt.Errorf("mkdir db dir: %w", err)
		}
	}
	if err := database.RunMigrations(driver, target); err != nil {
		return nil, repository.SQLite, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Connect(ctx, driver, target)
	if err != nil {
		return nil, repository.SQLite, err
	}
	return db, repository.DialectFor(string(driver)), nil
}

// store connects on first use so a store that is down shows up as a load
// error in the dashboard and can be retried from there.
type store struct {
	app *app
	// column preferences; nil keeps them in memory only
	prefs *prefs.Store

	mu     sync.Mutex
	db     *sql.DB
	loader *service.LoaderService
	notes  *service.NotesService
}

func (s *store) open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return nil
	}
	db, d, err := s.app.openStore(ctx)
	if err != nil {
		return err
	}
	subs := repository.NewSubmissionRepo(db, d)
	creators := repository.NewCreatorLogRepo(db, d)
	s.db = db
	s.loader = &service.LoaderService{
		Submissions: subs,
		CreatorLog:  creators,
		ChunkSize:   s.app.cfg.Database.ChunkSize,
		Log:         s.app.log,
	}
	s.notes = &service.NotesService{
		Submissions: subs,
		CreatorLog:  creators,
		Timeout:     notesTimeout,
		Log:         s.app.log,
	}
	return nil
}

func (s *store) Load(ctx context.Context) ([]table.Table, service.LoadReport, error) {
	if err := s.open(ctx); err != nil {
		return nil, service.LoadReport{}, fmt.Errorf("store connection: %w", err)
	}
	tables, rep, err := s.loader.Load(ctx)
	if err != nil || s.prefs == nil {
		return tables, rep, err
	}
	cols, perr := s.prefs.LoadColumns()
	if perr != nil {
		s.app.log.Warn("column preferences not loaded", zap.Error(perr))
		return tables, rep, nil
	}
	return prefs.Apply(tables, cols), rep, nil
}

func (s *store) SaveColumns(cols prefs.Columns) error {
	if s.prefs == nil {
		return nil
	}
	return s.prefs.SaveColumns(cols)
}

func (s *store) Save(ctx context.Context, row table.Row, notes service.Notes) (string, error) {
	if err := s.open(ctx); err != nil {
		return "", fmt.Errorf("store connection: %w", err)
	}
	return s.notes.Save(ctx, row, notes)
}

func (s *store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
