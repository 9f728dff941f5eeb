package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jask/formdesk/internal/database/repository"
	"github.com/jask/formdesk/internal/fields"
	"github.com/jask/formdesk/internal/table"
)

// DefaultChunkSize is the number of submissions read per query.
const DefaultChunkSize = 1000

// LoaderService reads every record and groups them into logical tables.
type LoaderService struct {
	Submissions *repository.RecordRepo
	CreatorLog  *repository.RecordRepo
	ChunkSize   int
	Log         *zap.Logger
}

// LoadReport summarizes a load.
type LoadReport struct {
	Submissions int
	CreatorLog  int
	BadPayloads int
}

// Load probes the store, reads the creator log, then reads submissions in
// sequential chunks. Any store error fails the whole load so no partial
// tables are shown; only unreadable payloads are tolerated, per row.
func (s *LoaderService) Load(ctx context.Context) ([]table.Table, LoadReport, error) {
	log := s.logger()
	var rep LoadReport

	if err := s.Submissions.Probe(ctx); err != nil {
		return nil, rep, fmt.Errorf("store connection: %w", err)
	}

	logRecs, err := s.CreatorLog.All(ctx)
	if err != nil {
		return nil, rep, fmt.Errorf("load creator log: %w", err)
	}
	rows := make([]table.Row, 0, len(logRecs))
	for _, rec := range logRecs {
		rows = append(rows, s.toRow(rec, table.OriginCreatorLog, &rep))
	}
	rep.CreatorLog = len(logRecs)
	log.Info("creator log loaded", zap.Int("rows", len(logRecs)))

	total, err := s.Submissions.Count(ctx)
	if err != nil {
		return nil, rep, fmt.Errorf("count submissions: %w", err)
	}

	size := s.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	for offset := 0; offset < total; offset += size {
		if err := ctx.Err(); err != nil {
			return nil, rep, err
		}
		recs, err := s.Submissions.Page(ctx, offset, size)
		if err != nil {
			if ctx.Err() != nil {
				return nil, rep, ctx.Err()
			}
			log.Error("submission chunk failed", zap.Int("offset", offset), zap.Int("size", size), zap.Error(err))
			return nil, rep, fmt.Errorf("load chunk %d: %w", offset, err)
		}
		for _, rec := range recs {
			rows = append(rows, s.toRow(rec, table.OriginSubmissions, &rep))
		}
		rep.Submissions += len(recs)
		log.Debug("submission chunk loaded", zap.Int("offset", offset), zap.Int("rows", len(recs)))
	}

	tables := table.Build(rows)
	log.Info("load complete",
		zap.Int("tables", len(tables)),
		zap.Int("submissions", rep.Submissions),
		zap.Int("bad_payloads", rep.BadPayloads),
	)
	return tables, rep, nil
}

func (s *LoaderService) toRow(rec repository.Record, origin table.Origin, rep *LoadReport) table.Row {
	values, keys, err := fields.DecodePayload(rec.Submission)
	if err != nil {
		s.logger().Warn("malformed submission payload",
			zap.String("table", string(origin)),
			zap.String("id", rec.ID),
			zap.Error(err),
		)
		rep.BadPayloads++
		values, keys = map[string]fields.Value{}, nil
	}
	row := table.Row{
		ID:        rec.ID,
		FormName:  rec.FormName,
		CreatedAt: rec.CreatedAt,
		Notes:     rec.Notes.String,
		Origin:    origin,
		Fields:    values,
		Keys:      keys,
	}
	row.Ref = row.StoredToken()
	return row
}

func (s *LoaderService) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
