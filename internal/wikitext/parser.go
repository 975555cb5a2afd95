package wikitext

import "strings"

// DefaultFileNamespaces are the namespace prefixes recognized as file embeds.
var DefaultFileNamespaces = []string{"File", "Image", "Datei", "Bild"}

// verbatimTags hold content that MediaWiki never parses for links.
var verbatimTags = []string{"nowiki", "pre", "syntaxhighlight", "source", "math"}

// Parser scans wikitext. The zero value is not usable; use NewParser.
type Parser struct {
	fileNamespaces map[string]struct{}
}

// NewParser returns a Parser treating the given namespace prefixes (compared
// case-insensitively) as file embeds. With none, DefaultFileNamespaces apply.
func NewParser(fileNamespaces ...string) *Parser {
	if len(fileNamespaces) == 0 {
		fileNamespaces = DefaultFileNamespaces
	}
	ns := make(map[string]struct{}, len(fileNamespaces))
	for _, n := range fileNamespaces {
		ns[strings.ToLower(strings.TrimSpace(n))] = struct{}{}
	}
	return &Parser{fileNamespaces: ns}
}

// Parse returns the nodes of src ordered by start offset. Top-level text,
// link, file and verbatim nodes tile the source; links nested inside another
// link (such as those in a file caption) follow their parent.
func (p *Parser) Parse(src string) []Node {
	var nodes []Node
	p.scan(src, 0, len(src), true, &nodes)
	return nodes
}

func (p *Parser) scan(src string, from, to int, top bool, nodes *[]Node) {
	textStart := from
	flush := func(end int) {
		if top && end > textStart {
			*nodes = append(*nodes, Node{Kind: KindText, Start: textStart, End: end, Raw: src[textStart:end]})
		}
	}

	i := from
	for i < to {
		if end, ok := verbatimEnd(src[:to], i); ok {
			flush(i)
			if top {
				*nodes = append(*nodes, Node{Kind: KindOther, Start: i, End: end, Raw: src[i:end]})
			}
			i, textStart = end, end
			continue
		}

		if !strings.HasPrefix(src[i:to], "[[") {
			i++
			continue
		}
		// "[[[x]]]" is a bracket followed by the link [[x]].
		if i+2 < to && src[i+2] == '[' {
			i++
			continue
		}

		end, ok := linkEnd(src[:to], i)
		if !ok {
			i += 2
			continue
		}
		node, ok := p.linkNode(src, i, end)
		if !ok {
			i += 2
			continue
		}

		flush(i)
		*nodes = append(*nodes, node)
		p.scan(src, i+2, end-2, false, nodes)
		i, textStart = end, end
	}
	flush(to)
}

// linkEnd returns the offset just past the "]]" closing the link opened at start.
func linkEnd(src string, start int) (int, bool) {
	depth := 0
	for j := start; j < len(src); {
		if end, ok := verbatimEnd(src, j); ok {
			j = end
			continue
		}
		switch {
		case strings.HasPrefix(src[j:], "[["):
			depth++
			j += 2
		case strings.HasPrefix(src[j:], "]]"):
			depth--
			j += 2
			if depth == 0 {
				return j, true
			}
		default:
			j++
		}
	}
	return 0, false
}

func (p *Parser) linkNode(src string, start, end int) (Node, bool) {
	inner := src[start+2 : end-2]
	target, text, hasText := splitPipe(inner)
	target = strings.TrimSpace(target)
	if !validTarget(target) {
		return Node{}, false
	}

	node := Node{
		Kind:    KindLink,
		Start:   start,
		End:     end,
		Raw:     src[start:end],
		Target:  target,
		Text:    text,
		HasText: hasText,
	}
	if ns, name, ok := strings.Cut(target, ":"); ok {
		if _, isFile := p.fileNamespaces[strings.ToLower(strings.TrimSpace(ns))]; isFile {
			node.Kind = KindFile
			node.Namespace = strings.TrimSpace(ns)
			node.Filename = strings.TrimSpace(name)
		}
	}
	return node, true
}

// splitPipe splits at the first pipe not nested in [[...]] or {{...}}.
func splitPipe(s string) (before, after string, found bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], "[[") || strings.HasPrefix(s[i:], "{{"):
			depth++
			i++
		case strings.HasPrefix(s[i:], "]]") || strings.HasPrefix(s[i:], "}}"):
			if depth > 0 {
				depth--
			}
			i++
		case s[i] == '|' && depth == 0:
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

// validTarget rejects targets MediaWiki would not treat as a page title.
func validTarget(target string) bool {
	if target == "" {
		return false
	}
	return !strings.ContainsAny(target, "\n[]{}<>|")
}

// verbatimEnd reports whether a comment or verbatim element starts at i and
// returns the offset just past it. Unterminated comments run to the end of
// src; unterminated verbatim tags are not verbatim.
func verbatimEnd(src string, i int) (int, bool) {
	if src[i] != '<' {
		return 0, false
	}
	if strings.HasPrefix(src[i:], "<!--") {
		if end := strings.Index(src[i+4:], "-->"); end >= 0 {
			return i + 4 + end + 3, true
		}
		return len(src), true
	}

	for _, tag := range verbatimTags {
		if !hasPrefixFold(src[i+1:], tag) {
			continue
		}
		after := i + 1 + len(tag)
		if after >= len(src) || (src[after] != '>' && src[after] != ' ' && src[after] != '\t' && src[after] != '\n' && src[after] != '/') {
			continue
		}
		openClose := strings.IndexByte(src[after:], '>')
		if openClose < 0 {
			return 0, false
		}
		bodyStart := after + openClose + 1
		if src[bodyStart-2] == '/' {
			// Self-closing, e.g. <nowiki/>.
			return bodyStart, true
		}
		closing := indexFold(src[bodyStart:], "</"+tag)
		if closing < 0 {
			return 0, false
		}
		closeStart := bodyStart + closing
		closeEnd := strings.IndexByte(src[closeStart:], '>')
		if closeEnd < 0 {
			return 0, false
		}
		return closeStart + closeEnd + 1, true
	}
	return 0, false
}

// hasPrefixFold is an ASCII case-insensitive HasPrefix.
func hasPrefixFold(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	for k := 0; k < len(prefix); k++ {
		if lowerASCII(s[k]) != lowerASCII(prefix[k]) {
			return false
		}
	}
	return true
}

// indexFold is an ASCII case-insensitive strings.Index. Offsets stay byte exact
// because no case mapping is applied to s.
func indexFold(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if hasPrefixFold(s[i:], substr) {
			return i
		}
	}
	return -1
}

func lowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
