package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jask/formdesk/internal/fields"
	"github.com/jask/formdesk/internal/llm"
	"github.com/jask/formdesk/internal/state"
)

// MoverService maps the rows of a move onto the destination columns.
type MoverService struct {
	Mapper llm.Mapper
	// per-row bound on top of the mapper's own timeout
	Timeout time.Duration
	Log     *zap.Logger
}

// Map runs the mapper over each row in order. Failures are recorded per row;
// once ctx is done the remaining rows fail with its error.
func (s *MoverService) Map(ctx context.Context, move state.Move, columns []string) state.MoveCompleted {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	out := state.MoveCompleted{Source: move.Source, Target: move.Target}
	for _, row := range move.Rows {
		if err := ctx.Err(); err != nil {
			out.Results = append(out.Results, state.MoveResult{Key: row.Key(), Err: err})
			continue
		}
		mapped, err := s.mapOne(ctx, row.Fields, columns)
		if err != nil {
			log.Warn("row mapping failed", zap.String("id", row.ID), zap.String("target", move.Target), zap.Error(err))
			out.Results = append(out.Results, state.MoveResult{Key: row.Key(), Err: err})
			continue
		}
		out.Results = append(out.Results, state.MoveResult{Key: row.Key(), Fields: mapped.Fields, Keys: mapped.Keys})
	}
	return out
}

func (s *MoverService) mapOne(ctx context.Context, row map[string]fields.Value, columns []string) (llm.Mapped, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	return s.Mapper.MapRow(ctx, row, columns)
}
