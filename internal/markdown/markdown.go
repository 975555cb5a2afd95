// Package markdown applies byte-range edits to markup and inspects converted
// Markdown bodies.
package markdown

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// ExtractLinks parses a Markdown body and extracts link-like constructs.
//
// This is an analysis API; it does not attempt to re-render Markdown. Links inside
// code spans and code blocks are not reported.
func ExtractLinks(body []byte) ([]Link, error) {
	md := goldmark.New()
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	links := make([]Link, 0)
	err := gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination), Title: string(node.Title)})
		case *gmast.Link:
			// Goldmark resolves reference-style links to a Link node with a Destination.
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination), Title: string(node.Title)})
		}
		return gmast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	// Reference definitions are stored in the parse context (not represented as AST nodes).
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}

	return links, nil
}

// Summary counts the outbound references of a converted page.
type Summary struct {
	Links          int
	Images         int
	EmbeddedImages int
	// Internal counts links whose destination starts with the configured link base.
	Internal int
}

// Summarize extracts links from body and counts them. Destinations starting with
// linkBase count as internal; data URIs count as embedded images.
func Summarize(body []byte, linkBase string) (Summary, error) {
	links, err := ExtractLinks(body)
	if err != nil {
		return Summary{}, err
	}

	var s Summary
	for _, l := range links {
		switch l.Kind {
		case LinkKindImage:
			s.Images++
			if strings.HasPrefix(l.Destination, "data:") {
				s.EmbeddedImages++
			}
		case LinkKindReferenceDefinition:
			continue
		default:
			s.Links++
			if linkBase != "" && strings.HasPrefix(l.Destination, linkBase) {
				s.Internal++
			}
		}
	}
	return s, nil
}
