package convert

import (
	"context"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

// HTMLToMarkdown converts an HTML document or fragment to Markdown. It is meant
// to run after a Pandoc step writing HTML.
type HTMLToMarkdown struct{}

func (HTMLToMarkdown) Convert(_ context.Context, input string) (string, error) {
	doc, err := html.Parse(strings.NewReader(input))
	if err != nil {
		return "", ErrConversion.WithCause(err).WithContext("stage", "parse html")
	}

	markdown, err := htmltomarkdown.ConvertNode(doc)
	if err != nil {
		return "", ErrConversion.WithCause(err).WithContext("stage", "html to markdown")
	}
	return strings.TrimSpace(string(markdown)) + "\n", nil
}
