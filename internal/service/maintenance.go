package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/formdesk/internal/database"
	"github.com/jask/formdesk/internal/database/repository"
)

// MaintenanceService houses destructive/ops actions surfaced through the CLI.
type MaintenanceService struct {
	DB      *sql.DB
	Dialect repository.Dialect
}

// Reset wipes all records. It keeps the schema intact.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		for _, t := range []repository.Table{repository.CreatorLog, repository.FormSubmissions} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+string(t)); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	if s.Dialect == repository.SQLite {
		_, _ = s.DB.ExecContext(ctx, "VACUUM")
	}
	return nil
}
