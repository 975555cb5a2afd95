package source

import (
	"context"
	"database/sql"
	"fmt"

	ferrors "git.home.luguber.info/inful/wikimigrate/internal/foundation/errors"
	"git.home.luguber.info/inful/wikimigrate/internal/page"

	_ "modernc.org/sqlite"
)

// DefaultQuery reads the page export table. Any replacement must yield the same
// columns in the same order.
const DefaultQuery = `SELECT id, title, content, categories, last_user_email, timestamp FROM pages ORDER BY id`

// SQLite loads pages from an SQLite export of the wiki.
type SQLite struct {
	Path  string
	Query string
}

func (s *SQLite) Load(ctx context.Context) ([]page.SourcePage, error) {
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, s.fail("open sqlite database", err)
	}
	defer func() { _ = db.Close() }()

	query := s.Query
	if query == "" {
		query = DefaultQuery
	}
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, s.fail("query pages", err)
	}
	defer func() { _ = rows.Close() }()

	var pages []page.SourcePage
	for rows.Next() {
		var (
			p                                       page.SourcePage
			title, content, categories, email, stmp any
		)
		if err := rows.Scan(&p.ID, &title, &content, &categories, &email, &stmp); err != nil {
			return nil, s.fail("scan page", err)
		}
		p.Title = text(title)
		p.Content = text(content)
		p.Categories = splitCategories(text(categories))
		p.LastUserEmail = text(email)
		if p.Timestamp, err = parseTimestamp(text(stmp)); err != nil {
			return nil, ferrors.SourceError("invalid page timestamp").
				WithCause(err).
				WithContext("page_id", p.ID).
				Build()
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("iterate pages", err)
	}
	return pages, nil
}

func (s *SQLite) fail(msg string, err error) error {
	return ferrors.SourceError(msg).WithCause(err).WithContext("path", s.Path).Build()
}

// text decodes a column that may be stored as TEXT, BLOB, integer or NULL.
func text(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
