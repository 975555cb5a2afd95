package transform

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"git.home.luguber.info/inful/wikimigrate/internal/assets"
	"git.home.luguber.info/inful/wikimigrate/internal/convert"
	"git.home.luguber.info/inful/wikimigrate/internal/page"
	"git.home.luguber.info/inful/wikimigrate/internal/rewrite"
	"github.com/stretchr/testify/require"
)

const base = "https://wiki.example/"

// echo returns its input unchanged, standing in for the external converter.
var echo = convert.Func(func(_ context.Context, in string) (string, error) { return in, nil })

func newTransformer(fsys fstest.MapFS, conv convert.Converter, opts ...Option) *Transformer {
	return New(rewrite.New(assets.NewResolver(fsys)), conv, 7, base, opts...)
}

func source() page.SourcePage {
	return page.SourcePage{
		ID:            42,
		Title:         "Haupt_Seite",
		Content:       "Siehe [[Über uns|hier]] und [[File:Missing.png]].",
		Timestamp:     time.Date(2023, 4, 5, 6, 7, 8, 0, time.UTC),
		LastUserEmail: "a@b.com",
		Categories:    []string{"Intern", "Letzter Author"},
	}
}

func TestTransform_ProducesOutputPage(t *testing.T) {
	out, warnings, err := newTransformer(fstest.MapFS{}, echo).Transform(context.Background(), source())
	require.NoError(t, err)

	require.Equal(t, int64(42), out.SourceID)
	require.Equal(t, int64(7), out.BookID)
	require.Equal(t, "Haupt Seite", out.Name)
	require.Equal(t, "Siehe [https://wiki.example/uber-uns hier] und [[File:Missing.png]].", out.Markdown)

	require.Len(t, warnings, 1)
	require.Equal(t, int64(42), warnings[0].PageID)
	require.Equal(t, page.WarningAssetNotFound, warnings[0].Kind)
}

func TestTransform_MetadataTagsWinOverCategories(t *testing.T) {
	out, _, err := newTransformer(fstest.MapFS{}, echo).Transform(context.Background(), source())
	require.NoError(t, err)

	require.Equal(t, map[string]string{
		"Intern":          "",
		"Letzter Author":  "a@b.com",
		"Letzte Änderung": "2023-04-05 06:07",
	}, out.Tags)
}

func TestTransform_CustomTags(t *testing.T) {
	tr := newTransformer(fstest.MapFS{}, echo, WithTags(TagConfig{
		EditorTag:       "Editor",
		TimestampLayout: time.RFC3339,
	}))
	src := source()
	src.Categories = nil

	out, _, err := tr.Transform(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"Editor":          "a@b.com",
		"Letzte Änderung": "2023-04-05T06:07:08Z",
	}, out.Tags)
}

func TestTransform_ConverterSeesRewrittenMarkup(t *testing.T) {
	var seen string
	conv := convert.Func(func(_ context.Context, in string) (string, error) {
		seen = in
		return strings.ToUpper(in), nil
	})

	out, _, err := newTransformer(fstest.MapFS{}, conv).Transform(context.Background(), source())
	require.NoError(t, err)
	require.Contains(t, seen, "[https://wiki.example/uber-uns hier]")
	require.Equal(t, strings.ToUpper(seen), out.Markdown)
}

func TestTransform_ConversionFailureFailsOnlyThisPage(t *testing.T) {
	boom := errors.New("exit status 1")
	conv := convert.Func(func(context.Context, string) (string, error) { return "", boom })

	out, warnings, err := newTransformer(fstest.MapFS{}, conv).Transform(context.Background(), source())
	require.Nil(t, out)
	require.ErrorIs(t, err, convert.ErrConversion)
	require.ErrorIs(t, err, boom)
	require.Len(t, warnings, 1, "rewrite warnings are still returned")
}

func TestTransform_ClassifiedConversionFailureKeepsContext(t *testing.T) {
	conv := convert.Func(func(context.Context, string) (string, error) {
		return "", convert.ErrConversion.WithContext("command", "pandoc")
	})

	_, _, err := newTransformer(fstest.MapFS{}, conv).Transform(context.Background(), source())
	require.ErrorIs(t, err, convert.ErrConversion)
	require.Contains(t, err.Error(), "conversion failed")
}

func TestTransform_EmptyCategoriesIgnored(t *testing.T) {
	src := source()
	src.Categories = []string{"", "  "}

	out, _, err := newTransformer(fstest.MapFS{}, echo).Transform(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, out.Tags, 2)
}

func TestTransform_SummaryOnlyLoggedAtDebug(t *testing.T) {
	for _, tc := range []struct {
		level slog.Level
		want  bool
	}{
		{slog.LevelInfo, false},
		{slog.LevelDebug, true},
	} {
		t.Run(tc.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: tc.level}))

			_, _, err := newTransformer(fstest.MapFS{}, echo, WithLogger(logger)).Transform(context.Background(), source())
			require.NoError(t, err)
			require.Equal(t, tc.want, strings.Contains(buf.String(), "Page converted"))
		})
	}
}
