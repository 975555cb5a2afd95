package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/wikimigrate/internal/assets"
	"git.home.luguber.info/inful/wikimigrate/internal/config"
	"git.home.luguber.info/inful/wikimigrate/internal/convert"
	ferrors "git.home.luguber.info/inful/wikimigrate/internal/foundation/errors"
	"git.home.luguber.info/inful/wikimigrate/internal/journal"
	"git.home.luguber.info/inful/wikimigrate/internal/metrics"
	"git.home.luguber.info/inful/wikimigrate/internal/migrate"
	"git.home.luguber.info/inful/wikimigrate/internal/retry"
	"git.home.luguber.info/inful/wikimigrate/internal/rewrite"
	"git.home.luguber.info/inful/wikimigrate/internal/sink"
	"git.home.luguber.info/inful/wikimigrate/internal/transform"
	prom "github.com/prometheus/client_golang/prometheus"
)

// pipeline is everything a migrate run needs, built from configuration.
type pipeline struct {
	runner   *migrate.Runner
	sink     sink.Sink
	journal  journal.Store
	registry *prom.Registry
}

func buildPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pipeline, error) {
	p := &pipeline{}
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Metrics.Textfile != "" {
		p.registry = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(p.registry)
	}

	if _, err := os.Stat(cfg.Assets.Root); err != nil {
		return nil, ferrors.ConfigError("asset root not accessible").
			WithCause(err).
			WithContext("path", cfg.Assets.Root).
			Build()
	}
	resolverOpts := []assets.Option{assets.WithLogger(logger)}
	if cfg.Assets.Cache {
		resolverOpts = append(resolverOpts, assets.WithCache())
	}
	resolver := assets.NewResolver(os.DirFS(cfg.Assets.Root), resolverOpts...)

	rewriter := rewrite.New(resolver,
		rewrite.WithFileNamespaces(cfg.Assets.FileNamespaces...),
		rewrite.WithLogger(logger))

	transformer := transform.New(rewriter, newConverter(cfg.Converter, logger), cfg.Target.BookID, cfg.Links.BaseURL,
		transform.WithTags(transform.TagConfig{
			EditorTag:       cfg.Tags.Editor,
			ModifiedTag:     cfg.Tags.Modified,
			TimestampLayout: cfg.Tags.TimestampLayout,
		}),
		transform.WithRecorder(recorder),
		transform.WithLogger(logger))

	out, err := newSink(ctx, cfg.Output, logger)
	if err != nil {
		return nil, err
	}
	p.sink = out

	opts := []migrate.Option{
		migrate.WithWorkers(cfg.Workers),
		migrate.WithRecorder(recorder),
		migrate.WithLogger(logger),
	}
	if cfg.Journal.Path != "" {
		store, err := journal.NewSQLiteStore(cfg.Journal.Path)
		if err != nil {
			_ = out.Close()
			return nil, err
		}
		p.journal = store
		opts = append(opts, migrate.WithJournal(store))
	}

	p.runner = migrate.New(transformer, out, opts...)
	return p, nil
}

func (p *pipeline) Close() {
	var errs []error
	if p.sink != nil {
		errs = append(errs, p.sink.Close())
	}
	if p.journal != nil {
		errs = append(errs, p.journal.Close())
	}
	if err := errors.Join(errs...); err != nil {
		slog.Warn("Failed to close outputs", "error", err)
	}
}

func newConverter(c config.ConverterConfig, logger *slog.Logger) convert.Converter {
	pandoc := &convert.Pandoc{
		Command:   c.Command,
		From:      c.From,
		To:        c.To,
		ExtraArgs: c.Args,
		Timeout:   c.TimeoutDuration(),
		Logger:    logger,
	}
	switch c.Type {
	case config.ConverterNone:
		return convert.Func(func(_ context.Context, in string) (string, error) { return in, nil })
	case config.ConverterPandocHTML:
		return convert.Chain{pandoc, convert.HTMLToMarkdown{}}
	default:
		return pandoc
	}
}

func newSink(ctx context.Context, out config.OutputConfig, logger *slog.Logger) (sink.Sink, error) {
	var sinks sink.Tee
	if out.Directory != "" {
		dir, err := sink.NewDir(out.Directory, logger)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, dir)
	}
	if out.NATS.Enabled {
		n, err := sink.DialNATS(ctx, sink.NATSConfig{
			URL:     out.NATS.URL,
			Subject: out.NATS.Subject,
			Stream:  out.NATS.Stream,
			Retry:   retry.FromConfig(out.NATS.Retry),
		}, logger)
		if err != nil {
			_ = sinks.Close()
			return nil, err
		}
		sinks = append(sinks, n)
	}
	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return sinks, nil
}
