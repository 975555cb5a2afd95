// Package transform turns a SourcePage into an OutputPage: rewrite the markup,
// convert it to the target format, and attach tags.
package transform

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/wikimigrate/internal/convert"
	ferrors "git.home.luguber.info/inful/wikimigrate/internal/foundation/errors"
	"git.home.luguber.info/inful/wikimigrate/internal/logfields"
	"git.home.luguber.info/inful/wikimigrate/internal/markdown"
	"git.home.luguber.info/inful/wikimigrate/internal/metrics"
	"git.home.luguber.info/inful/wikimigrate/internal/page"
)

// MarkupRewriter rewrites links and embeds in page markup.
type MarkupRewriter interface {
	Rewrite(markup, linkBaseURL string) (string, []page.Warning)
}

// Transformer holds everything needed to transform pages. It has no per-page
// state; one Transformer serves all workers.
type Transformer struct {
	rewriter  MarkupRewriter
	converter convert.Converter
	bookID    int64
	linkBase  string
	tags      TagConfig
	recorder  metrics.Recorder
	logger    *slog.Logger
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithTags overrides the metadata tag names and timestamp layout.
func WithTags(tags TagConfig) Option {
	return func(t *Transformer) { t.tags = tags.withDefaults() }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(t *Transformer) {
		if r != nil {
			t.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transformer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// New returns a Transformer producing pages for the container bookID, with
// internal links pointing at linkBaseURL+slug.
func New(rewriter MarkupRewriter, converter convert.Converter, bookID int64, linkBaseURL string, opts ...Option) *Transformer {
	t := &Transformer{
		rewriter:  rewriter,
		converter: converter,
		bookID:    bookID,
		linkBase:  linkBaseURL,
		tags:      TagConfig{}.withDefaults(),
		recorder:  metrics.NoopRecorder{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform converts one page. Problems with individual links and images are
// returned as warnings alongside the page. The only error is a failed
// conversion, which matches convert.ErrConversion and yields no page.
func (t *Transformer) Transform(ctx context.Context, src page.SourcePage) (*page.OutputPage, []page.Warning, error) {
	logger := t.logger.With(logfields.PageID(src.ID), logfields.PageTitle(src.Title))

	rewritten, warnings := t.rewriter.Rewrite(src.Content, t.linkBase)
	warnings = page.WithPage(src.ID, warnings)
	for _, w := range warnings {
		t.recorder.IncWarning(string(w.Kind))
		logger.Warn("Node left unchanged",
			logfields.WarningKind(string(w.Kind)),
			logfields.Node(w.Node),
			slog.String("detail", w.Detail))
	}

	start := time.Now()
	body, err := t.converter.Convert(ctx, rewritten)
	t.recorder.ObserveConversionDuration(time.Since(start), err == nil)
	if err != nil {
		return nil, warnings, conversionFailure(err, src)
	}

	if logger.Enabled(ctx, slog.LevelDebug) {
		t.logSummary(logger, body)
	}

	return &page.OutputPage{
		SourceID: src.ID,
		BookID:   t.bookID,
		Name:     src.DisplayName(),
		Markdown: body,
		Tags:     t.tags.synthesize(src),
	}, warnings, nil
}

func conversionFailure(err error, src page.SourcePage) error {
	if classified, ok := ferrors.AsClassified(err); ok && errors.Is(err, convert.ErrConversion) {
		return classified.WithContext("page_id", src.ID).WithContext("page_title", src.Title)
	}
	return convert.ErrConversion.
		WithCause(err).
		WithContext("page_id", src.ID).
		WithContext("page_title", src.Title)
}

// logSummary parses the converted body, inlined images included, so callers
// only invoke it when debug output is enabled.
func (t *Transformer) logSummary(logger *slog.Logger, body string) {
	summary, err := markdown.Summarize([]byte(body), t.linkBase)
	if err != nil {
		return
	}
	logger.Debug("Page converted",
		slog.Int("links", summary.Links),
		slog.Int("internal_links", summary.Internal),
		slog.Int("images", summary.Images),
		slog.Int("embedded_images", summary.EmbeddedImages))
}
