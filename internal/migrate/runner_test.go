package migrate

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"git.home.luguber.info/inful/wikimigrate/internal/convert"
	"git.home.luguber.info/inful/wikimigrate/internal/journal"
	"git.home.luguber.info/inful/wikimigrate/internal/page"
	"github.com/stretchr/testify/require"
)

type fakeTransformer struct {
	inFlight, peak atomic.Int32
	fail           map[int64]bool
	warn           map[int64]bool
}

func (f *fakeTransformer) Transform(_ context.Context, src page.SourcePage) (*page.OutputPage, []page.Warning, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	var warnings []page.Warning
	if f.warn[src.ID] {
		warnings = append(warnings, page.Warning{PageID: src.ID, Node: "[[File:x.png]]", Kind: page.WarningAssetNotFound})
	}
	if f.fail[src.ID] {
		return nil, warnings, convert.ErrConversion
	}
	return &page.OutputPage{SourceID: src.ID, Name: src.DisplayName()}, warnings, nil
}

type memSink struct {
	mu  sync.Mutex
	ids []int64
}

func (m *memSink) Put(_ context.Context, p *page.OutputPage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = append(m.ids, p.SourceID)
	return nil
}

func (m *memSink) Close() error { return nil }

func pages(n int) []page.SourcePage {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]page.SourcePage, n)
	for i := range out {
		out[i] = page.SourcePage{
			ID:        int64(i + 1),
			Title:     "Page_" + string(rune('A'+i)),
			Timestamp: base.AddDate(0, 0, n-i),
		}
	}
	return out
}

func TestRun_IsolatesFailures(t *testing.T) {
	tr := &fakeTransformer{fail: map[int64]bool{2: true}, warn: map[int64]bool{3: true}}
	out := &memSink{}
	store, err := journal.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	r := New(tr, out, WithWorkers(2), WithJournal(store))
	r.newRunID = func() string { return "run-1" }

	report, err := r.Run(context.Background(), pages(4))
	require.NoError(t, err)

	require.Equal(t, "run-1", report.RunID)
	require.Equal(t, 4, report.Total)
	require.Equal(t, 3, report.Transformed)
	require.Len(t, report.Failed, 1)
	require.Equal(t, int64(2), report.Failed[0].ID)
	require.Equal(t, map[page.WarningKind]int{
		page.WarningAssetNotFound: 1,
		page.WarningConversion:    1,
	}, report.Warnings)
	require.ElementsMatch(t, []int64{1, 3, 4}, out.ids)

	entries, err := store.ByRun(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestRun_BoundsParallelism(t *testing.T) {
	tr := &fakeTransformer{}
	_, err := New(tr, &memSink{}, WithWorkers(3)).Run(context.Background(), pages(12))
	require.NoError(t, err)
	require.LessOrEqual(t, tr.peak.Load(), int32(3))
	require.GreaterOrEqual(t, tr.peak.Load(), int32(1))
}

func TestRun_OldestPage(t *testing.T) {
	report, err := New(&fakeTransformer{}, &memSink{}).Run(context.Background(), pages(5))
	require.NoError(t, err)
	require.NotNil(t, report.Oldest)
	require.Equal(t, int64(5), report.Oldest.ID)
}

func TestRun_Empty(t *testing.T) {
	report, err := New(&fakeTransformer{}, &memSink{}).Run(context.Background(), nil)
	require.NoError(t, err)
	require.Zero(t, report.Total)
	require.Nil(t, report.Oldest)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := New(&fakeTransformer{}, &memSink{}).Run(ctx, pages(3))
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
}

type failingJournal struct{ journal.Store }

func (failingJournal) Append(context.Context, string, []page.Warning) error {
	return errors.New("disk full")
}

func TestRun_JournalFailureStopsRun(t *testing.T) {
	tr := &fakeTransformer{warn: map[int64]bool{1: true}}
	_, err := New(tr, &memSink{}, WithWorkers(1), WithJournal(failingJournal{})).Run(context.Background(), pages(3))
	require.ErrorContains(t, err, "disk full")
}

func TestReport_Write(t *testing.T) {
	report := &Report{
		RunID:       "r",
		Total:       2,
		Transformed: 1,
		Failed:      []FailedPage{{ID: 2, Title: "B", Err: "boom"}},
		Warnings:    map[page.WarningKind]int{page.WarningConversion: 1},
		Oldest:      &page.SourcePage{Title: "A", Timestamp: time.Date(2019, 3, 4, 5, 6, 7, 0, time.UTC)},
	}
	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf))
	out := buf.String()
	require.Contains(t, out, "Run r: 2 pages, 1 transformed, 1 failed, 1 warnings")
	require.Contains(t, out, "ConversionFailure")
	require.Contains(t, out, "failed: 2 B: boom")
	require.Contains(t, out, "Oldest page: A (2019-03-04 05:06:07)")
}
