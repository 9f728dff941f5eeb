package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/formdesk/internal/database"
	"github.com/jask/formdesk/internal/database/repository"
)

func setupStore(t *testing.T) (*sql.DB, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(database.SQLite, dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, ctx
}

func insert(t *testing.T, ctx context.Context, repo *repository.RecordRepo, id, form, payload string, at time.Time) {
	t.Helper()
	require.NoError(t, repo.Insert(ctx, repository.Record{ID: id, FormName: form, Submission: []byte(payload), CreatedAt: at}))
}
