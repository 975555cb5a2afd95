// Package wikitext scans MediaWiki markup into the spans the migration cares
// about: internal links, file embeds, verbatim regions, and the plain text
// between them. It is not a renderer; nodes only record where constructs are and
// what they contain.
package wikitext

// Kind tags a Node.
type Kind int

const (
	KindText Kind = iota
	KindLink
	KindFile
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindLink:
		return "link"
	case KindFile:
		return "file"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// Node is one span of the source. Start and End are byte offsets, End exclusive,
// and Raw is exactly source[Start:End].
type Node struct {
	Kind  Kind
	Start int
	End   int
	Raw   string

	// Target is the trimmed text before the first pipe of a link or file node.
	Target string
	// Text is everything after the first pipe, untrimmed. HasText distinguishes
	// [[A|]] from [[A]].
	Text    string
	HasText bool

	// Namespace and Filename are set for KindFile: the prefix as written and the
	// file reference after the colon.
	Namespace string
	Filename  string
}
