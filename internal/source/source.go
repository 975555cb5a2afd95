// Package source loads the pages exported from the source wiki.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/wikimigrate/internal/foundation/errors"
	"git.home.luguber.info/inful/wikimigrate/internal/logfields"
	"git.home.luguber.info/inful/wikimigrate/internal/page"
)

// MediaWikiTimestamp is the layout of MediaWiki's rev_timestamp columns.
const MediaWikiTimestamp = "20060102150405"

// Supported source formats.
const (
	FormatSQLite = "sqlite"
	FormatJSON   = "json"
)

// DefaultSkipExtensions lists title extensions of pages that describe uploaded
// files rather than articles.
var DefaultSkipExtensions = []string{"png", "jpeg", "jpg", "gif", "pdf"}

// Loader produces the pages to migrate.
type Loader interface {
	Load(ctx context.Context) ([]page.SourcePage, error)
}

// New returns the loader for format reading from path. query only applies to
// SQLite sources; empty selects DefaultQuery.
func New(format, path, query string) (Loader, error) {
	switch strings.ToLower(format) {
	case FormatSQLite, "":
		return &SQLite{Path: path, Query: query}, nil
	case FormatJSON:
		return &JSONFile{Path: path}, nil
	default:
		return nil, ferrors.ValidationError("unsupported source format").
			WithContext("format", format).
			Build()
	}
}

// filtered drops pages whose title ends in one of a set of extensions.
type filtered struct {
	next   Loader
	skip   map[string]struct{}
	logger *slog.Logger
}

// SkipExtensions wraps next so pages titled like "Logo.png" are dropped.
// Matching is case-insensitive on the part after the last dot.
func SkipExtensions(next Loader, extensions []string, logger *slog.Logger) Loader {
	if logger == nil {
		logger = slog.Default()
	}
	skip := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			skip[ext] = struct{}{}
		}
	}
	return &filtered{next: next, skip: skip, logger: logger}
}

func (f *filtered) Load(ctx context.Context) ([]page.SourcePage, error) {
	pages, err := f.next.Load(ctx)
	if err != nil {
		return nil, err
	}
	kept := pages[:0]
	for _, p := range pages {
		if f.skipped(p.Title) {
			f.logger.Debug("Skipping file page", logfields.PageID(p.ID), logfields.PageTitle(p.Title))
			continue
		}
		kept = append(kept, p)
	}
	return kept, nil
}

// skipped compares the text after the last dot. A title without a dot is
// compared whole, so a page named "PDF" is dropped too.
func (f *filtered) skipped(title string) bool {
	ext := title[strings.LastIndexByte(title, '.')+1:]
	_, ok := f.skip[strings.ToLower(ext)]
	return ok
}

// parseTimestamp accepts MediaWiki's compact form and RFC 3339. Compact
// timestamps are UTC.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(MediaWikiTimestamp, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// splitCategories splits a comma separated category list, dropping blanks.
func splitCategories(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
