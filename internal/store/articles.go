package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Article is a stored article row joined with its author and tag names.
// FavouritesCount mirrors the favorites cardinality; it is maintained by
// Favorite/Unfavorite and is never written from anywhere else.
type Article struct {
	ID              int64
	Slug            string
	Title           string
	Description     string
	Body            string
	AuthorID        int64
	FavouritesCount int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	TagList         []string
	Author          User
}

// ArticleQuery filters and paginates article listings.
// All filters are conjunctive. Zero values mean "no filter".
type ArticleQuery struct {
	Tag         string  // articles carrying this tag name
	Author      string  // articles authored by this username
	FavoritedBy int64   // articles favorited by this user id
	AuthorIDs   []int64 // articles authored by any of these ids (feed)
	Limit       int
	Offset      int
}

const articleColumns = `
	a.id, a.slug, a.title, a.description, a.body, a.author_id,
	a.favourites_count, a.created_at, a.updated_at,
	u.id, u.email, u.username, u.password, u.bio, u.image`

// CreateArticle inserts the article and its tag associations in one
// transaction. Returns ErrDuplicate if the slug is already taken.
func (s *Store) CreateArticle(ctx context.Context, a Article, tagIDs []int64) (Article, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO articles (slug, title, description, body, author_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, a.Slug, a.Title, a.Description, a.Body, a.AuthorID,
			a.CreatedAt.UnixMilli(), a.UpdatedAt.UnixMilli())
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("insert article: %w", ErrDuplicate)
			}
			return fmt.Errorf("insert article: %w", err)
		}

		a.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert article: %w", err)
		}

		return insertArticleTags(ctx, tx, a.ID, tagIDs)
	})
	if err != nil {
		return Article{}, err
	}

	return s.ArticleBySlug(ctx, a.Slug)
}

// ArticleBySlug returns the article with the given slug, or ErrNotFound.
func (s *Store) ArticleBySlug(ctx context.Context, slug string) (Article, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+articleColumns+`
		FROM articles a
		JOIN users u ON u.id = a.author_id
		WHERE a.slug = ?
	`, slug)

	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Article{}, fmt.Errorf("article %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return Article{}, err
	}

	if err := s.attachTags(ctx, []*Article{&a}); err != nil {
		return Article{}, err
	}
	return a, nil
}

// OwnedArticleBySlug returns the article only if it exists AND is authored
// by authorID. A missing article and a non-owned article are both reported
// as ErrNotFound, so callers cannot tell "not mine" from "doesn't exist".
func (s *Store) OwnedArticleBySlug(ctx context.Context, slug string, authorID int64) (Article, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+articleColumns+`
		FROM articles a
		JOIN users u ON u.id = a.author_id
		WHERE a.slug = ? AND a.author_id = ?
	`, slug, authorID)

	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Article{}, fmt.Errorf("article %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return Article{}, err
	}

	if err := s.attachTags(ctx, []*Article{&a}); err != nil {
		return Article{}, err
	}
	return a, nil
}

// UpdateArticle rewrites the article's mutable fields. When replaceTags is
// true the tag associations are replaced with tagIDs in the same
// transaction. Returns ErrDuplicate on a slug collision.
func (s *Store) UpdateArticle(ctx context.Context, a Article, tagIDs []int64, replaceTags bool) (Article, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE articles
			SET slug = ?, title = ?, description = ?, body = ?, updated_at = ?
			WHERE id = ?
		`, a.Slug, a.Title, a.Description, a.Body, a.UpdatedAt.UnixMilli(), a.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("update article: %w", ErrDuplicate)
			}
			return fmt.Errorf("update article: %w", err)
		}

		if !replaceTags {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM article_tags WHERE article_id = ?`, a.ID); err != nil {
			return fmt.Errorf("clear article tags: %w", err)
		}
		return insertArticleTags(ctx, tx, a.ID, tagIDs)
	})
	if err != nil {
		return Article{}, err
	}

	return s.ArticleBySlug(ctx, a.Slug)
}

// DeleteArticle removes the article row. Foreign keys cascade the delete
// to comments, favorites, and tag associations; tag rows survive.
func (s *Store) DeleteArticle(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete article %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListArticles returns articles matching the query, newest first.
// Ordering is deterministic: created_at DESC with id DESC as tiebreak.
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListArticles(ctx context.Context, q ArticleQuery) ([]Article, error) {
	where, args := buildArticleWhere(q)

	query := `
		SELECT ` + articleColumns + `
		FROM articles a
		JOIN users u ON u.id = a.author_id` + where + `
		ORDER BY a.created_at DESC, a.id DESC`

	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", q.Limit, q.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	articles := []Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}

	refs := make([]*Article, len(articles))
	for i := range articles {
		refs[i] = &articles[i]
	}
	if err := s.attachTags(ctx, refs); err != nil {
		return nil, err
	}
	return articles, nil
}

// CountArticles returns the number of articles matching the query,
// ignoring pagination.
func (s *Store) CountArticles(ctx context.Context, q ArticleQuery) (int64, error) {
	where, args := buildArticleWhere(q)

	var count int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM articles a
		JOIN users u ON u.id = a.author_id`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}

func buildArticleWhere(q ArticleQuery) (string, []any) {
	var conds []string
	var args []any

	if q.Tag != "" {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM article_tags at JOIN tags t ON t.id = at.tag_id
			WHERE at.article_id = a.id AND t.name = ?)`)
		args = append(args, q.Tag)
	}
	if q.Author != "" {
		conds = append(conds, `u.username = ?`)
		args = append(args, q.Author)
	}
	if q.FavoritedBy != 0 {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM favorites f
			WHERE f.article_id = a.id AND f.user_id = ?)`)
		args = append(args, q.FavoritedBy)
	}
	if len(q.AuthorIDs) > 0 {
		conds = append(conds, `a.author_id IN (`+placeholders(len(q.AuthorIDs))+`)`)
		for _, id := range q.AuthorIDs {
			args = append(args, id)
		}
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "\n\t\tWHERE " + strings.Join(conds, " AND "), args
}

// insertArticleTags links the article to each tag id. INSERT OR IGNORE
// tolerates duplicate names in the input list.
func insertArticleTags(ctx context.Context, tx *sql.Tx, articleID int64, tagIDs []int64) error {
	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO article_tags (article_id, tag_id) VALUES (?, ?)
		`, articleID, tagID)
		if err != nil {
			return fmt.Errorf("insert article tag: %w", err)
		}
	}
	return nil
}

// attachTags loads tag lists for the given articles in one batched query.
// Every article gets a non-nil TagList.
func (s *Store) attachTags(ctx context.Context, articles []*Article) error {
	ids := make([]int64, len(articles))
	for i, a := range articles {
		ids[i] = a.ID
	}

	tags, err := s.tagsForArticles(ctx, ids)
	if err != nil {
		return err
	}
	for _, a := range articles {
		if names, ok := tags[a.ID]; ok {
			a.TagList = names
		} else {
			a.TagList = []string{}
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (Article, error) {
	var a Article
	var createdAt, updatedAt int64
	err := row.Scan(
		&a.ID, &a.Slug, &a.Title, &a.Description, &a.Body, &a.AuthorID,
		&a.FavouritesCount, &createdAt, &updatedAt,
		&a.Author.ID, &a.Author.Email, &a.Author.Username, &a.Author.Password,
		&a.Author.Bio, &a.Author.Image,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Article{}, err
		}
		return Article{}, fmt.Errorf("scan article: %w", err)
	}
	a.CreatedAt = time.UnixMilli(createdAt).UTC()
	a.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return a, nil
}
