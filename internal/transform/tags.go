package transform

import (
	"strings"

	"git.home.luguber.info/inful/wikimigrate/internal/page"
)

const (
	DefaultEditorTag       = "Letzter Author"
	DefaultModifiedTag     = "Letzte Änderung"
	DefaultTimestampLayout = "2006-01-02 15:04"
)

// TagConfig names the metadata tags added to every page.
type TagConfig struct {
	EditorTag       string
	ModifiedTag     string
	TimestampLayout string // Go reference-time layout
}

func (c TagConfig) withDefaults() TagConfig {
	if c.EditorTag == "" {
		c.EditorTag = DefaultEditorTag
	}
	if c.ModifiedTag == "" {
		c.ModifiedTag = DefaultModifiedTag
	}
	if c.TimestampLayout == "" {
		c.TimestampLayout = DefaultTimestampLayout
	}
	return c
}

// synthesize returns one empty tag per category, then the editor and modified
// tags. The metadata tags are written last and so win over a category of the
// same name.
func (c TagConfig) synthesize(src page.SourcePage) map[string]string {
	tags := make(map[string]string, len(src.Categories)+2)
	for _, category := range src.Categories {
		category = strings.TrimSpace(category)
		if category == "" {
			continue
		}
		tags[category] = ""
	}
	tags[c.EditorTag] = src.LastUserEmail
	tags[c.ModifiedTag] = src.Timestamp.Format(c.TimestampLayout)
	return tags
}
