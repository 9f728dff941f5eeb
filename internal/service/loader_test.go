package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jask/formdesk/internal/database"
	"github.com/jask/formdesk/internal/database/repository"
	"github.com/jask/formdesk/internal/table"
)

func TestLoad_GroupsAndChunks(t *testing.T) {
	t.Parallel()
	db, ctx := setupStore(t)

	subs := repository.NewSubmissionRepo(db, repository.SQLite)
	logs := repository.NewCreatorLogRepo(db, repository.SQLite)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	insert(t, ctx, logs, "c1", "Creator Log", `{"Creator":"Ann"}`, base)
	insert(t, ctx, subs, "s1", "Spring", `{"Name":"Bob","Token":"t1"}`, base)
	insert(t, ctx, subs, "s2", "Spring", `"{\"Name\":\"Cy\"}"`, base.Add(time.Hour))
	insert(t, ctx, subs, "s3", "Fall", `{not json`, base)
	insert(t, ctx, subs, "s4", "", `{"Q":1}`, base)

	svc := &LoaderService{Submissions: subs, CreatorLog: logs, ChunkSize: 2, Log: zap.NewNop()}
	tables, rep, err := svc.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, rep.Submissions)
	require.Equal(t, 1, rep.CreatorLog)
	require.Equal(t, 1, rep.BadPayloads)

	require.Equal(t, "Creator Log", table.InitialTab(tables))
	spring := tables[table.Index(tables, "Spring")]
	require.Equal(t, table.SectionAll, spring.Section)
	require.Equal(t, []string{"s2", "s1"}, []string{spring.Rows[0].ID, spring.Rows[1].ID})
	require.Equal(t, "Cy", spring.Rows[0].Get("Name").String())

	fall := tables[table.Index(tables, "Fall")]
	require.Empty(t, fall.Rows[0].Fields)
	require.GreaterOrEqual(t, table.Index(tables, table.UnknownForm), 0)
}

func TestLoad_FailedChunkFailsLoad(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"id", "form_name", "submission", "created_at", "notes"}
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT form_name FROM form_submissions LIMIT 1")).
		WillReturnRows(sqlmock.NewRows([]string{"form_name"}).AddRow("Spring"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM creator_log ORDER BY created_at, id")).
		WillReturnRows(sqlmock.NewRows(cols))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM form_submissions")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $1 OFFSET $2")).WithArgs(2, 0).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("s1", "Spring", []byte(`{"a":1}`), at, nil).
			AddRow("s2", "Spring", []byte(`{"a":2}`), at, nil))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $1 OFFSET $2")).WithArgs(2, 2).
		WillReturnError(errors.New("statement timeout"))

	svc := &LoaderService{
		Submissions: repository.NewSubmissionRepo(db, repository.Postgres),
		CreatorLog:  repository.NewCreatorLogRepo(db, repository.Postgres),
		ChunkSize:   2,
	}
	tables, _, err := svc.Load(context.Background())
	require.ErrorContains(t, err, "load chunk 2")
	require.ErrorContains(t, err, "statement timeout")
	require.Nil(t, tables, "no partial tables")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_ProbeFailureFailsLoad(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT form_name FROM form_submissions LIMIT 1")).
		WillReturnError(errors.New("connection refused"))

	svc := &LoaderService{
		Submissions: repository.NewSubmissionRepo(db, repository.Postgres),
		CreatorLog:  repository.NewCreatorLogRepo(db, repository.Postgres),
	}
	tables, _, err := svc.Load(context.Background())
	require.ErrorContains(t, err, "store connection")
	require.Nil(t, tables)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_SeededStore(t *testing.T) {
	t.Parallel()
	db, ctx := setupStore(t)

	require.NoError(t, database.SeedDemo(ctx, db, repository.SQLite, 30, 7))
	svc := &LoaderService{
		Submissions: repository.NewSubmissionRepo(db, repository.SQLite),
		CreatorLog:  repository.NewCreatorLogRepo(db, repository.SQLite),
		ChunkSize:   8,
	}
	tables, rep, err := svc.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 30, rep.Submissions)
	require.Equal(t, 3, rep.CreatorLog)
	require.Len(t, tables, 4)
	require.Error(t, database.SeedDemo(ctx, db, repository.SQLite, 1, 7), "same seed collides")
}
