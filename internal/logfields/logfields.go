package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID       = "run_id"
	KeyPageID      = "page_id"
	KeyPageTitle   = "page_title"
	KeyNode        = "node"
	KeyFilename    = "filename"
	KeyWarningKind = "warning_kind"
	KeyStage       = "stage"
	KeyDurationMS  = "duration_ms"
	KeyPath        = "path"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func PageID(id int64) slog.Attr       { return slog.Int64(KeyPageID, id) }
func PageTitle(t string) slog.Attr    { return slog.String(KeyPageTitle, t) }
func Node(raw string) slog.Attr       { return slog.String(KeyNode, raw) }
func Filename(name string) slog.Attr  { return slog.String(KeyFilename, name) }
func WarningKind(k string) slog.Attr  { return slog.String(KeyWarningKind, k) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

