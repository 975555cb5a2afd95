package migrate

import (
	"fmt"
	"io"
	"sort"
	"time"

	"git.home.luguber.info/inful/wikimigrate/internal/page"
)

// Report summarizes one run.
type Report struct {
	RunID       string
	Started     time.Time
	Duration    time.Duration
	Total       int
	Transformed int
	Failed      []FailedPage
	Warnings    map[page.WarningKind]int
	// Oldest is the page with the earliest last-modified timestamp, nil when
	// the run saw no pages.
	Oldest *page.SourcePage
}

// FailedPage names a page that produced no output.
type FailedPage struct {
	ID    int64
	Title string
	Err   string
}

// WarningCount returns the total number of warnings.
func (r *Report) WarningCount() int {
	n := 0
	for _, c := range r.Warnings {
		n += c
	}
	return n
}

// Write prints a human readable summary.
func (r *Report) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Run %s: %d pages, %d transformed, %d failed, %d warnings (%s)\n",
		r.RunID, r.Total, r.Transformed, len(r.Failed), r.WarningCount(), r.Duration.Round(time.Millisecond)); err != nil {
		return err
	}

	kinds := make([]string, 0, len(r.Warnings))
	for k := range r.Warnings {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		if _, err := fmt.Fprintf(w, "  %-26s %d\n", k, r.Warnings[page.WarningKind(k)]); err != nil {
			return err
		}
	}
	for _, f := range r.Failed {
		if _, err := fmt.Fprintf(w, "  failed: %d %s: %s\n", f.ID, f.Title, f.Err); err != nil {
			return err
		}
	}
	if r.Oldest != nil {
		if _, err := fmt.Fprintf(w, "Oldest page: %s (%s)\n",
			r.Oldest.Title, r.Oldest.Timestamp.Format(time.DateTime)); err != nil {
			return err
		}
	}
	return nil
}
