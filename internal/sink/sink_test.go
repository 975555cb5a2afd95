package sink

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"git.home.luguber.info/inful/wikimigrate/internal/config"
	ferrors "git.home.luguber.info/inful/wikimigrate/internal/foundation/errors"
	"git.home.luguber.info/inful/wikimigrate/internal/page"
	"git.home.luguber.info/inful/wikimigrate/internal/retry"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
)

func outputPage() *page.OutputPage {
	return &page.OutputPage{
		SourceID: 42,
		BookID:   7,
		Name:     "Haupt Seite",
		Markdown: "# Hallo\n",
		Tags:     map[string]string{"Letzter Author": "a@b.com", "Intern": ""},
	}
}

func TestFingerprint_StableAndSensitive(t *testing.T) {
	p := outputPage()
	a, err := Fingerprint(p)
	require.NoError(t, err)
	b, err := Fingerprint(outputPage())
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.NotEmpty(t, a)

	p.Markdown = "# Hallo!\n"
	c, err := Fingerprint(p)
	require.NoError(t, err)
	require.NotEqual(t, a, c)

	p = outputPage()
	p.Tags["Intern"] = "x"
	d, err := Fingerprint(p)
	require.NoError(t, err)
	require.NotEqual(t, a, d)
}

func TestNewRecord_SortedTags(t *testing.T) {
	rec, err := NewRecord(outputPage())
	require.NoError(t, err)
	require.Equal(t, []page.Tag{
		{Name: "Intern", Value: ""},
		{Name: "Letzter Author", Value: "a@b.com"},
	}, rec.Tags)
}

func TestDir_WritesRecord(t *testing.T) {
	d, err := NewDir(t.TempDir(), nil)
	require.NoError(t, err)
	require.NoError(t, d.Put(context.Background(), outputPage()))

	data, err := os.ReadFile(d.PathFor(42))
	require.NoError(t, err)
	var rec Record
	require.NoError(t, json.Unmarshal(data, &rec))
	require.Equal(t, int64(7), rec.BookID)
	require.Equal(t, "Haupt Seite", rec.Name)
	require.Equal(t, "# Hallo\n", rec.Markdown)
	require.Len(t, rec.Tags, 2)
}

func TestDir_SkipsUnchanged(t *testing.T) {
	d, err := NewDir(t.TempDir(), nil)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, d.Put(ctx, outputPage()))

	path := d.PathFor(42)
	// Tamper with the markdown but keep the fingerprint: an unchanged page must
	// not overwrite the file.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rec Record
	require.NoError(t, json.Unmarshal(data, &rec))
	rec.Markdown = "sentinel"
	data, err = json.Marshal(rec)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	require.NoError(t, d.Put(ctx, outputPage()))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "sentinel")

	changed := outputPage()
	changed.Markdown = "new"
	require.NoError(t, d.Put(ctx, changed))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "sentinel")
}

type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
	payloads [][]byte
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, subject string, data []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return &jetstream.PubAck{Stream: DefaultStream, Sequence: uint64(len(f.payloads))}, nil
}

func TestNATS_Publishes(t *testing.T) {
	pub := &fakePublisher{}
	s := NewNATS(pub, "", nil)
	require.NoError(t, s.Put(context.Background(), outputPage()))
	require.NoError(t, s.Close())

	require.Equal(t, []string{DefaultSubject}, pub.subjects)
	var rec Record
	require.NoError(t, json.Unmarshal(pub.payloads[0], &rec))
	require.Equal(t, int64(42), rec.SourceID)
	require.NotEmpty(t, rec.Fingerprint)
}

func TestNATS_PublishFailureIsSinkError(t *testing.T) {
	s := NewNATS(&fakePublisher{err: errors.New("no responders")}, "pages", nil)
	err := s.Put(context.Background(), outputPage())
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategorySink))
}

type recordingSink struct {
	ids    []int64
	closed bool
}

func (r *recordingSink) Put(_ context.Context, p *page.OutputPage) error {
	r.ids = append(r.ids, p.SourceID)
	return nil
}

func (r *recordingSink) Close() error {
	r.closed = true
	return nil
}

func TestTee(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	tee := Tee{a, b}
	require.NoError(t, tee.Put(context.Background(), outputPage()))
	require.NoError(t, tee.Close())
	require.Equal(t, []int64{42}, a.ids)
	require.Equal(t, []int64{42}, b.ids)
	require.True(t, a.closed && b.closed)
}

type flakyPublisher struct {
	fakePublisher
	failures int
}

func (f *flakyPublisher) Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("timeout")
	}
	return f.fakePublisher.Publish(ctx, subject, data, opts...)
}

func TestNATS_RetriesTransientFailures(t *testing.T) {
	pub := &flakyPublisher{failures: 2}
	s := NewNATS(pub, "", nil).WithRetry(retry.NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 2))
	require.NoError(t, s.Put(context.Background(), outputPage()))
	require.Len(t, pub.payloads, 1)

	pub = &flakyPublisher{failures: 1}
	s = NewNATS(pub, "", nil)
	require.Error(t, s.Put(context.Background(), outputPage()), "no retries by default")
}
