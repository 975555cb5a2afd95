package convert

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChain(t *testing.T) {
	upper := Func(func(_ context.Context, in string) (string, error) { return strings.ToUpper(in), nil })
	exclaim := Func(func(_ context.Context, in string) (string, error) { return in + "!", nil })

	out, err := Chain{upper, exclaim}.Convert(context.Background(), "hi")
	require.NoError(t, err)
	require.Equal(t, "HI!", out)

	out, err = Chain{}.Convert(context.Background(), "same")
	require.NoError(t, err)
	require.Equal(t, "same", out)
}

func TestChainStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	called := false
	fail := Func(func(context.Context, string) (string, error) { return "", boom })
	never := Func(func(context.Context, string) (string, error) { called = true; return "", nil })

	_, err := Chain{fail, never}.Convert(context.Background(), "x")
	require.ErrorIs(t, err, boom)
	require.False(t, called)
}

func TestHTMLToMarkdown(t *testing.T) {
	in := `<h2>Title</h2><p>Some <strong>bold</strong> and <a href="https://wiki.example/home">Home</a>.</p>`

	out, err := HTMLToMarkdown{}.Convert(context.Background(), in)
	require.NoError(t, err)
	require.Contains(t, out, "## Title")
	require.Contains(t, out, "**bold**")
	require.Contains(t, out, "[Home](https://wiki.example/home)")
}

func TestPandocMissingBinary(t *testing.T) {
	p := &Pandoc{Command: "definitely-not-pandoc-wikimigrate", From: "mediawiki", To: "gfm"}
	_, err := p.Convert(context.Background(), "== x ==")
	require.ErrorIs(t, err, ErrConversion)
}

func TestPandocFailingCommand(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false(1) not available")
	}
	p := &Pandoc{Command: "false"}
	_, err := p.Convert(context.Background(), "x")
	require.ErrorIs(t, err, ErrConversion)
}

func TestPandocMediaWikiToMarkdown(t *testing.T) {
	if _, err := exec.LookPath("pandoc"); err != nil {
		t.Skip("pandoc not installed")
	}
	p := &Pandoc{From: "mediawiki", To: "gfm", Timeout: 30 * time.Second}

	out, err := p.Convert(context.Background(), "== Heading ==\n'''bold''' [https://wiki.example/home Home]\n")
	require.NoError(t, err)
	require.Contains(t, out, "## Heading")
	require.Contains(t, out, "**bold**")
	require.Contains(t, out, "[Home](https://wiki.example/home)")
}
