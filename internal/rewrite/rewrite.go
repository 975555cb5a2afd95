// Package rewrite rewrites internal links and file embeds in wikitext so the
// page survives the move to the target platform: links point at the target's
// slugged URLs and images are embedded inline.
//
// Rewriting decides what to replace from the parsed nodes but applies the
// replacements textually: every occurrence of a node's exact markup is replaced,
// wherever it appears in the page.
package rewrite

import (
	"errors"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/wikimigrate/internal/assets"
	ferrors "git.home.luguber.info/inful/wikimigrate/internal/foundation/errors"
	"git.home.luguber.info/inful/wikimigrate/internal/logfields"
	"git.home.luguber.info/inful/wikimigrate/internal/page"
	"git.home.luguber.info/inful/wikimigrate/internal/slug"
	"git.home.luguber.info/inful/wikimigrate/internal/wikitext"
)

// ErrSubstitutionApply marks a replacement whose markup no longer occurs in the
// page when replacements are applied.
var ErrSubstitutionApply = ferrors.MarkupError("substitution not applied").Build()

// AssetResolver finds the file behind an embed.
type AssetResolver interface {
	Resolve(rawName string) (*assets.Asset, error)
}

// Rewriter rewrites a page's markup. It holds no per-page state and is safe for
// concurrent use when its resolver is.
type Rewriter struct {
	parser   *wikitext.Parser
	resolver AssetResolver
	slugify  func(string) string
	logger   *slog.Logger
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithFileNamespaces overrides the namespace prefixes treated as file embeds.
func WithFileNamespaces(namespaces ...string) Option {
	return func(r *Rewriter) { r.parser = wikitext.NewParser(namespaces...) }
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Rewriter) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New returns a Rewriter resolving embeds with resolver.
func New(resolver AssetResolver, opts ...Option) *Rewriter {
	r := &Rewriter{
		parser:   wikitext.NewParser(),
		resolver: resolver,
		slugify:  slug.Slugify,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rewrite returns markup with internal links pointing at linkBaseURL+slug and
// resolvable images embedded as data URIs. Nodes that cannot be rewritten are
// left as they are and reported as warnings; Rewrite itself never fails. The
// returned warnings carry no page id.
func (r *Rewriter) Rewrite(markup, linkBaseURL string) (string, []page.Warning) {
	var (
		subs     []substitution
		seen     = make(map[string]struct{})
		warnings []page.Warning
	)

	for _, node := range r.parser.Parse(markup) {
		if _, dup := seen[node.Raw]; dup {
			continue
		}

		var (
			replacement string
			ok          bool
		)
		switch node.Kind {
		case wikitext.KindLink:
			replacement, ok = r.rewriteLink(node, linkBaseURL)
		case wikitext.KindFile:
			var w *page.Warning
			replacement, w = r.rewriteFile(node)
			if w != nil {
				warnings = append(warnings, *w)
			}
			ok = w == nil && replacement != ""
		}
		seen[node.Raw] = struct{}{}
		if !ok {
			continue
		}
		subs = append(subs, substitution{key: node.Raw, replacement: replacement})
	}

	out, unapplied := applySubstitutions(markup, subs)
	for _, s := range unapplied {
		r.logger.Debug("Substitution not applied", logfields.Node(s.key))
		warnings = append(warnings, page.Warning{
			Node:   s.key,
			Kind:   page.WarningSubstitutionApply,
			Detail: ErrSubstitutionApply.Message(),
		})
	}
	return out, warnings
}

// rewriteLink turns [[Target|Text]] into [base+slug Text]. Links into another
// namespace or to a section are left alone.
func (r *Rewriter) rewriteLink(node wikitext.Node, linkBaseURL string) (string, bool) {
	if strings.ContainsAny(node.Target, ":#") {
		return "", false
	}
	text := node.Target
	if node.HasText && strings.TrimSpace(node.Text) != "" {
		text = node.Text
	}
	return "[" + linkBaseURL + r.slugify(node.Target) + " " + text + "]", true
}

// rewriteFile embeds the referenced file inline, captioned with its name.
func (r *Rewriter) rewriteFile(node wikitext.Node) (string, *page.Warning) {
	if node.Filename == "" || strings.HasPrefix(strings.ToLower(node.Filename), "data:") {
		return "", nil
	}

	asset, err := r.resolver.Resolve(node.Filename)
	if err != nil {
		kind := page.WarningAssetNotFound
		if errors.Is(err, assets.ErrUnsupportedAssetType) {
			kind = page.WarningUnsupportedAssetType
		}
		return "", &page.Warning{
			Node:   node.Raw,
			Kind:   kind,
			Detail: node.Filename + ": " + err.Error(),
		}
	}

	r.logger.Debug("Embedding asset",
		logfields.Filename(node.Filename), logfields.Path(asset.Path))
	return "[[File:" + asset.DataURI() + "|" + node.Filename + "]]", nil
}
