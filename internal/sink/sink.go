// Package sink hands transformed pages to whatever uploads them: a directory of
// JSON records or a NATS JetStream subject.
package sink

import (
	"context"
	"errors"
	"strings"

	"git.home.luguber.info/inful/wikimigrate/internal/page"
	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"
)

// Sink receives output pages. Put may be called from several goroutines.
type Sink interface {
	Put(ctx context.Context, p *page.OutputPage) error
	Close() error
}

// Record is the wire form of an OutputPage.
type Record struct {
	SourceID    int64      `json:"source_id"`
	BookID      int64      `json:"book_id"`
	Name        string     `json:"name"`
	Markdown    string     `json:"markdown"`
	Tags        []page.Tag `json:"tags"`
	Fingerprint string     `json:"fingerprint"`
}

// NewRecord builds the wire record for p.
func NewRecord(p *page.OutputPage) (*Record, error) {
	fp, err := Fingerprint(p)
	if err != nil {
		return nil, err
	}
	return &Record{
		SourceID:    p.SourceID,
		BookID:      p.BookID,
		Name:        p.Name,
		Markdown:    p.Markdown,
		Tags:        p.TagList(),
		Fingerprint: fp,
	}, nil
}

// Fingerprint hashes the page body together with its name, book and tags, so
// re-running a migration over unchanged input yields the same value.
func Fingerprint(p *page.OutputPage) (string, error) {
	meta := map[string]any{
		"book_id": p.BookID,
		"name":    p.Name,
	}
	if len(p.Tags) > 0 {
		meta["tags"] = p.Tags
	}
	serialized, err := yaml.Marshal(meta)
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(serialized), "\n"), p.Markdown), nil
}

// Tee forwards every page to each sink in order.
type Tee []Sink

func (t Tee) Put(ctx context.Context, p *page.OutputPage) error {
	for _, s := range t {
		if err := s.Put(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (t Tee) Close() error {
	var errs []error
	for _, s := range t {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
