package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/wikimigrate/internal/config"
	ferrors "git.home.luguber.info/inful/wikimigrate/internal/foundation/errors"
	"git.home.luguber.info/inful/wikimigrate/internal/logfields"
	"git.home.luguber.info/inful/wikimigrate/internal/metrics"
	"git.home.luguber.info/inful/wikimigrate/internal/migrate"
	"git.home.luguber.info/inful/wikimigrate/internal/source"
)

// MigrateCmd implements the 'migrate' command.
type MigrateCmd struct {
	Workers int    `short:"w" help:"Pages transformed in parallel (overrides workers)"`
	Output  string `short:"o" help:"Output directory (overrides output.directory)"`
	Limit   int    `help:"Only migrate the first N pages after filtering"`
}

func (m *MigrateCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if m.Workers > 0 {
		cfg.Workers = m.Workers
	}
	if m.Output != "" {
		cfg.Output.Directory = m.Output
	}
	logger := root.applyLogging(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	loader, err := source.New(string(cfg.Source.Format), cfg.Source.Path, cfg.Source.Query)
	if err != nil {
		return err
	}
	pages, err := source.SkipExtensions(loader, cfg.Source.SkipExtensions, logger).Load(ctx)
	if err != nil {
		return err
	}
	if m.Limit > 0 && m.Limit < len(pages) {
		pages = pages[:m.Limit]
	}

	p, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	report, runErr := p.runner.Run(ctx, pages)
	if report != nil {
		if err := report.Write(os.Stdout); err != nil {
			return err
		}
	}
	if p.registry != nil {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile, p.registry); err != nil {
			logger.Warn("Failed to write metrics textfile", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}
	if report != nil && len(report.Failed) > 0 {
		return failedPagesError(report)
	}
	return nil
}

func loadConfig(root *CLI) (*config.Config, error) {
	return config.Load(root.Config)
}

// failedPagesError turns a run with failed pages into a non-zero exit.
func failedPagesError(report *migrate.Report) error {
	return ferrors.ConversionError(fmt.Sprintf("%d of %d pages failed", len(report.Failed), report.Total)).
		WithContext("run_id", report.RunID).
		Build()
}
