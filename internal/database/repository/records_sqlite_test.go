package repository_test

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

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(database.SQLite, dbPath))
	t.Log("migrations applied")

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLite_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db := openTestDB(t)
	repo := repository.NewSubmissionRepo(db, repository.SQLite)

	require.NoError(t, repo.Probe(ctx))
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, tok := range []string{"t0", "t1", "t2"} {
		require.NoError(t, repo.Insert(ctx, repository.Record{
			ID:         tok + "-id",
			FormName:   "Spring",
			Submission: []byte(`{"Token":"` + tok + `","Name":"n"}`),
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}))
	}

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	page, err := repo.Page(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "t1-id", page[0].ID)
	require.True(t, page[0].CreatedAt.Equal(base.Add(time.Hour)))

	require.NoError(t, repo.UpdateNotesByToken(ctx, "t2", "hello"))
	require.ErrorIs(t, repo.UpdateNotesByToken(ctx, "nope", "x"), repository.ErrNotFound)
	require.NoError(t, repo.UpdateNotesByID(ctx, "t0-id", "by id"))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "by id", all[0].Notes.String)
	require.False(t, all[1].Notes.Valid)
	require.Equal(t, "hello", all[2].Notes.String)

	version, dirty, err := database.SchemaVersion(database.SQLite, filepath.Join(t.TempDir(), "fresh.db"))
	require.NoError(t, err)
	require.False(t, dirty)
	require.Zero(t, version)
}

func TestSQLite_CreatorLogSeparate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)
	subs := repository.NewSubmissionRepo(db, repository.SQLite)
	logs := repository.NewCreatorLogRepo(db, repository.SQLite)

	require.NoError(t, logs.Insert(ctx, repository.Record{ID: "c1", FormName: "Creator Log", Submission: []byte(`{}`), CreatedAt: time.Now()}))
	n, err := subs.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
	n, err = logs.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, repository.CreatorLog, logs.Table())
}
