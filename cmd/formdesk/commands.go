package main

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/formdesk/internal/config"
	"github.com/jask/formdesk/internal/database"
	"github.com/jask/formdesk/internal/mapserver"
	"github.com/jask/formdesk/internal/prefs"
	"github.com/jask/formdesk/internal/service"
	"github.com/jask/formdesk/internal/tui"
)

func (a *app) runDashboard(ctx context.Context) error {
	st := &store{app: a}
	defer st.Close()
	if ps, err := prefs.Default(); err == nil {
		st.prefs = &ps
	} else {
		a.log.Warn("column preferences disabled", zap.Error(err))
	}

	mapper := buildMapper(a.cfg.Mapper, a.log)
	if c, ok := mapper.(io.Closer); ok {
		defer c.Close()
	}
	mover := &service.MoverService{Mapper: mapper, Timeout: a.cfg.Mapper.Timeout, Log: a.log}

	model := tui.New(ctx, tui.Services{Loader: st, Notes: st, Mover: mover, Columns: st}, a.log, a.cfg.UI.PageSize, a.cfg.Location())
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations to the configured store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			driver := database.Driver(a.cfg.Database.Driver)
			db, _, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			version, dirty, err := database.SchemaVersion(driver, a.cfg.Target())
			if err != nil {
				return fmt.Errorf("schema version: %w", err)
			}
			a.log.Info("migrations applied", zap.String("driver", string(driver)), zap.Uint("version", version), zap.Bool("dirty", dirty))
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return nil
		},
	}
}

func (a *app) seedCmd() *cobra.Command {
	var (
		count int
		seed  int64
		reset bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo submissions and creator log records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, d, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			if reset {
				m := &service.MaintenanceService{DB: db, Dialect: d}
				if err := m.Reset(ctx); err != nil {
					return fmt.Errorf("reset: %w", err)
				}
				a.log.Info("store reset")
			}
			if err := database.SeedDemo(ctx, db, d, count, seed); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			a.log.Info("demo data inserted", zap.Int("submissions", count), zap.Int64("seed", seed))
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d submissions\n", count)
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 30, "number of submissions to insert")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed; reuse to reproduce a data set")
	cmd.Flags().BoolVar(&reset, "reset", false, "delete all records first")
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the row mapping service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			// the service fronts a model; pointing it at itself would loop
			mcfg := a.cfg.Mapper
			if mcfg.Provider == config.ProviderHTTP {
				mcfg.Provider = config.ProviderOllama
			}
			mapper := buildMapper(mcfg, a.log)
			srv := mapserver.New(mapper, a.log, mapserver.Options{Rate: a.cfg.Server.Rate, Burst: a.cfg.Server.Burst})
			a.log.Info("mapping service listening", zap.String("addr", addr), zap.String("provider", mcfg.Provider))
			return srv.Run(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
