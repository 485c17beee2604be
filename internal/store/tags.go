package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Tag is a stored tag row. Tags are a shared, append-only vocabulary:
// created lazily on first use, never updated or deleted.
type Tag struct {
	ID   int64
	Name string
}

// EnsureTag returns the tag with the given name, creating it if necessary.
//
// Uses INSERT ... ON CONFLICT(name) DO NOTHING followed by a lookup, so
// concurrent calls racing to create the same name all converge on one row.
// A lost race is not an error - the loser simply reads the winner's row.
func (s *Store) EnsureTag(ctx context.Context, name string) (Tag, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (name) VALUES (?)
		ON CONFLICT(name) DO NOTHING
	`, name)
	if err != nil {
		return Tag{}, fmt.Errorf("ensure tag %q: %w", name, err)
	}

	var t Tag
	err = s.db.QueryRowContext(ctx, `
		SELECT id, name FROM tags WHERE name = ?
	`, name).Scan(&t.ID, &t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		// Insert was a no-op and the lookup found nothing: the row vanished
		// between the two statements. Tags are never deleted, so this means
		// the storage layer misbehaved.
		return Tag{}, fmt.Errorf("ensure tag %q: %w", name, ErrDuplicate)
	}
	if err != nil {
		return Tag{}, fmt.Errorf("ensure tag %q: %w", name, err)
	}
	return t, nil
}

// ListTags returns all tag names ordered alphabetically.
// Returns an empty slice (not nil) when no tags exist.
func (s *Store) ListTags(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	return names, nil
}

// tagsForArticles loads tag names for a set of article ids in one query.
// The returned map contains an ordered (alphabetical) name list per id;
// articles without tags are absent from the map.
func (s *Store) tagsForArticles(ctx context.Context, ids []int64) (map[int64][]string, error) {
	if len(ids) == 0 {
		return map[int64][]string{}, nil
	}

	query := `
		SELECT at.article_id, t.name
		FROM article_tags at
		JOIN tags t ON t.id = at.tag_id
		WHERE at.article_id IN (` + placeholders(len(ids)) + `)
		ORDER BY t.name ASC`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query article tags: %w", err)
	}
	defer rows.Close()

	tags := map[int64][]string{}
	for rows.Next() {
		var articleID int64
		var name string
		if err := rows.Scan(&articleID, &name); err != nil {
			return nil, fmt.Errorf("scan article tag: %w", err)
		}
		tags[articleID] = append(tags[articleID], name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate article tags: %w", err)
	}
	return tags, nil
}

// placeholders returns a comma-separated list of n SQL placeholders.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, 0, n*2-1)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, '?')
	}
	return string(b)
}
