// Package page holds the records flowing through the migration: pages as exported
// from the source wiki, pages as handed to the uploader, and the warnings produced
// while transforming one into the other.
package page

import (
	"sort"
	"strings"
	"time"
)

// SourcePage is a page as exported from the source wiki. It is never mutated
// after loading.
type SourcePage struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Timestamp     time.Time `json:"timestamp"`
	LastUserEmail string    `json:"last_user_email"`
	Categories    []string  `json:"categories"`
}

// DisplayName returns the title as shown to readers: the source wiki stores
// titles with underscores in place of spaces.
func (p SourcePage) DisplayName() string {
	return strings.ReplaceAll(p.Title, "_", " ")
}

// OutputPage is the transformed page handed to the uploader.
type OutputPage struct {
	SourceID int64
	BookID   int64
	Name     string
	Markdown string
	Tags     map[string]string
}

// Tag is one name/value pair in the uploader's wire format.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// TagList returns the tag map as a list of pairs sorted by name.
func (p *OutputPage) TagList() []Tag {
	tags := make([]Tag, 0, len(p.Tags))
	for name, value := range p.Tags {
		tags = append(tags, Tag{Name: name, Value: value})
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags
}
