// Package migrate runs the page transformer over a batch of pages with bounded
// parallelism and hands every result to a sink.
package migrate

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/wikimigrate/internal/journal"
	"git.home.luguber.info/inful/wikimigrate/internal/logfields"
	"git.home.luguber.info/inful/wikimigrate/internal/metrics"
	"git.home.luguber.info/inful/wikimigrate/internal/page"
	"git.home.luguber.info/inful/wikimigrate/internal/sink"
)

// PageTransformer transforms one page.
type PageTransformer interface {
	Transform(ctx context.Context, src page.SourcePage) (*page.OutputPage, []page.Warning, error)
}

// Runner transforms pages concurrently. A failing page never stops the others;
// only context cancellation or a broken journal ends a run early.
type Runner struct {
	transformer PageTransformer
	sink        sink.Sink
	journal     journal.Store
	recorder    metrics.Recorder
	logger      *slog.Logger
	workers     int
	newRunID    func() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers bounds the number of pages transformed at once. Values below one
// select runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithJournal records every warning in store.
func WithJournal(store journal.Store) Option {
	return func(r *Runner) { r.journal = store }
}

func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Runner) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New returns a Runner feeding transformed pages to out.
func New(t PageTransformer, out sink.Sink, opts ...Option) *Runner {
	r := &Runner{
		transformer: t,
		sink:        out,
		recorder:    metrics.NoopRecorder{},
		logger:      slog.Default(),
		workers:     runtime.NumCPU(),
		newRunID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type result struct {
	src      page.SourcePage
	warnings []page.Warning
	err      error
}

// Run transforms pages and returns the run report. The report is returned even
// when the run is cut short.
func (r *Runner) Run(ctx context.Context, pages []page.SourcePage) (*Report, error) {
	report := &Report{
		RunID:    r.newRunID(),
		Started:  time.Now(),
		Total:    len(pages),
		Warnings: make(map[page.WarningKind]int),
	}
	logger := r.logger.With(logfields.RunID(report.RunID))
	logger.Info("Migration started", slog.Int("pages", len(pages)), slog.Int("workers", r.workers))

	var (
		mu      sync.Mutex
		results []result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, src := range pages {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res := r.runPage(gctx, logger, src)
			if err := r.record(gctx, report.RunID, res.warnings); err != nil {
				return err
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	r.summarize(report, results)
	report.Duration = time.Since(report.Started)
	r.recorder.ObserveRunDuration(report.Duration)
	logger.Info("Migration finished",
		slog.Int("transformed", report.Transformed),
		slog.Int("failed", len(report.Failed)),
		slog.Int("warnings", report.WarningCount()),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
	return report, err
}

func (r *Runner) runPage(ctx context.Context, logger *slog.Logger, src page.SourcePage) result {
	start := time.Now()
	logger = logger.With(logfields.PageID(src.ID), logfields.PageTitle(src.Title))

	out, warnings, err := r.transformer.Transform(ctx, src)
	if err == nil {
		err = r.sink.Put(ctx, out)
	} else {
		warnings = append(warnings, page.Warning{
			PageID: src.ID,
			Node:   src.Title,
			Kind:   page.WarningConversion,
			Detail: err.Error(),
		})
	}

	r.recorder.ObservePageDuration(time.Since(start))
	switch {
	case err != nil:
		r.recorder.IncPageResult(metrics.ResultFailed)
		logger.Error("Page failed", logfields.Error(err))
	case len(warnings) > 0:
		r.recorder.IncPageResult(metrics.ResultWarning)
	default:
		r.recorder.IncPageResult(metrics.ResultSuccess)
	}
	return result{src: src, warnings: warnings, err: err}
}

func (r *Runner) record(ctx context.Context, runID string, warnings []page.Warning) error {
	if r.journal == nil || len(warnings) == 0 {
		return nil
	}
	return r.journal.Append(ctx, runID, warnings)
}

func (r *Runner) summarize(report *Report, results []result) {
	sort.Slice(results, func(i, j int) bool { return results[i].src.ID < results[j].src.ID })
	for i := range results {
		res := &results[i]
		for _, w := range res.warnings {
			report.Warnings[w.Kind]++
		}
		if res.err != nil {
			report.Failed = append(report.Failed, FailedPage{ID: res.src.ID, Title: res.src.Title, Err: res.err.Error()})
		} else {
			report.Transformed++
		}
		if report.Oldest == nil || res.src.Timestamp.Before(report.Oldest.Timestamp) {
			oldest := res.src
			report.Oldest = &oldest
		}
	}
}
