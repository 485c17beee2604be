package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Comment is a stored comment row joined with its author.
type Comment struct {
	ID        int64
	ArticleID int64
	AuthorID  int64
	Body      string
	CreatedAt time.Time
	Author    User
}

// CreateComment inserts a comment on an article.
func (s *Store) CreateComment(ctx context.Context, c Comment) (Comment, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (article_id, author_id, body, created_at)
		VALUES (?, ?, ?, ?)
	`, c.ArticleID, c.AuthorID, c.Body, c.CreatedAt.UnixMilli())
	if err != nil {
		return Comment{}, fmt.Errorf("insert comment: %w", err)
	}

	c.ID, err = res.LastInsertId()
	if err != nil {
		return Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	return s.CommentByID(ctx, c.ID)
}

// CommentByID returns a single comment, or ErrNotFound.
func (s *Store) CommentByID(ctx context.Context, id int64) (Comment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.article_id, c.author_id, c.body, c.created_at,
		       u.id, u.email, u.username, u.password, u.bio, u.image
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = ?
	`, id)

	c, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Comment{}, fmt.Errorf("comment %d: %w", id, ErrNotFound)
	}
	return c, err
}

// CommentsForArticle returns all comments on an article, newest first.
// Returns an empty slice (not nil) for an article with no comments.
func (s *Store) CommentsForArticle(ctx context.Context, articleID int64) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.article_id, c.author_id, c.body, c.created_at,
		       u.id, u.email, u.username, u.password, u.bio, u.image
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.article_id = ?
		ORDER BY c.created_at DESC, c.id DESC
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}

// DeleteOwnedComment removes the comment only if it belongs to the given
// article and author. Missing and not-owned are both ErrNotFound.
func (s *Store) DeleteOwnedComment(ctx context.Context, commentID, articleID, authorID int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM comments WHERE id = ? AND article_id = ? AND author_id = ?
	`, commentID, articleID, authorID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete comment %d: %w", commentID, ErrNotFound)
	}
	return nil
}

func scanComment(row rowScanner) (Comment, error) {
	var c Comment
	var createdAt int64
	err := row.Scan(
		&c.ID, &c.ArticleID, &c.AuthorID, &c.Body, &createdAt,
		&c.Author.ID, &c.Author.Email, &c.Author.Username, &c.Author.Password,
		&c.Author.Bio, &c.Author.Image,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Comment{}, err
		}
		return Comment{}, fmt.Errorf("scan comment: %w", err)
	}
	c.CreatedAt = time.UnixMilli(createdAt).UTC()
	return c, nil
}
