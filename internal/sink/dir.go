package sink

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	ferrors "git.home.luguber.info/inful/wikimigrate/internal/foundation/errors"
	"git.home.luguber.info/inful/wikimigrate/internal/logfields"
	"git.home.luguber.info/inful/wikimigrate/internal/page"
)

// Dir writes one JSON record per page to <root>/<source id>.json. A record whose
// fingerprint matches the file already on disk is not rewritten.
type Dir struct {
	root   string
	logger *slog.Logger
}

// NewDir creates root if needed and returns a Dir sink writing into it.
func NewDir(root string, logger *slog.Logger) (*Dir, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, ferrors.FileSystemError("create output directory").
			WithCause(err).
			WithContext("path", root).
			Build()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dir{root: root, logger: logger}, nil
}

// PathFor returns the file the record for sourceID is written to.
func (d *Dir) PathFor(sourceID int64) string {
	return filepath.Join(d.root, strconv.FormatInt(sourceID, 10)+".json")
}

func (d *Dir) Put(ctx context.Context, p *page.OutputPage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rec, err := NewRecord(p)
	if err != nil {
		return ferrors.SinkError("build page record").WithCause(err).WithContext("page_id", p.SourceID).Build()
	}

	path := d.PathFor(p.SourceID)
	if d.unchanged(path, rec.Fingerprint) {
		d.logger.Debug("Page unchanged, not rewritten", logfields.PageID(p.SourceID), logfields.Path(path))
		return nil
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return ferrors.SinkError("encode page record").WithCause(err).WithContext("page_id", p.SourceID).Build()
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o600); err != nil {
		return ferrors.SinkError("write page record").WithCause(err).WithContext("path", tmp).Build()
	}
	if err := os.Rename(tmp, path); err != nil {
		return ferrors.SinkError("write page record").WithCause(err).WithContext("path", path).Build()
	}
	return nil
}

func (d *Dir) unchanged(path, fingerprint string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var existing struct {
		Fingerprint string `json:"fingerprint"`
	}
	return json.Unmarshal(data, &existing) == nil && existing.Fingerprint == fingerprint
}

func (d *Dir) Close() error { return nil }
