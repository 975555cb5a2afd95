package source

import (
	"context"
	"encoding/json"
	"os"

	ferrors "git.home.luguber.info/inful/wikimigrate/internal/foundation/errors"
	"git.home.luguber.info/inful/wikimigrate/internal/page"
)

// JSONFile loads pages from a JSON array of page objects.
type JSONFile struct {
	Path string
}

type jsonPage struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Categories    []string `json:"categories"`
	LastUserEmail string   `json:"last_user_email"`
	Timestamp     string   `json:"timestamp"`
}

func (j *JSONFile) Load(ctx context.Context) ([]page.SourcePage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(j.Path)
	if err != nil {
		return nil, ferrors.SourceError("read page file").WithCause(err).WithContext("path", j.Path).Build()
	}

	var raw []jsonPage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, ferrors.SourceError("decode page file").WithCause(err).WithContext("path", j.Path).Build()
	}

	pages := make([]page.SourcePage, 0, len(raw))
	for _, r := range raw {
		ts, err := parseTimestamp(r.Timestamp)
		if err != nil {
			return nil, ferrors.SourceError("invalid page timestamp").
				WithCause(err).
				WithContext("page_id", r.ID).
				Build()
		}
		pages = append(pages, page.SourcePage{
			ID:            r.ID,
			Title:         r.Title,
			Content:       r.Content,
			Timestamp:     ts,
			LastUserEmail: r.LastUserEmail,
			Categories:    r.Categories,
		})
	}
	return pages, nil
}
