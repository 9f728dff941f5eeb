package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/formdesk/internal/config"
	"github.com/jask/formdesk/internal/llm"
	"github.com/jask/formdesk/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app carries what every command needs once config is loaded.
type app struct {
	cfg config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "formdesk",
		Short:        "Review, annotate and triage form submissions",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDashboard(cmd.Context())
		},
	}
	root.AddCommand(a.migrateCmd(), a.seedCmd(), a.serveCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	a.cfg = cfg

	// the dashboard owns the terminal; subcommands may log to stderr
	build := logging.New
	if cmd.HasParent() {
		build = logging.Console
	}
	logger, err := build(cfg.Log)
	if err != nil {
		return err
	}
	a.log = logger
	return nil
}

// buildMapper picks the row mapper named by the config.
func buildMapper(cfg config.MapperConfig, log *zap.Logger) llm.Mapper {
	switch cfg.Provider {
	case config.ProviderHTTP:
		return llm.NewHTTPMapper(cfg.ServiceURL, cfg.Timeout)
	case config.ProviderHeuristic:
		return llm.NewHeuristicMapper()
	default:
		return llm.NewOllamaMapper(cfg.Endpoint, cfg.Model, cfg.Timeout, log)
	}
}
