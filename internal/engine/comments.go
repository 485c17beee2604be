package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"conduit/internal/store"
	"conduit/internal/view"
)

// AddComment attaches a comment by userID to the article with the given
// slug.
func (e *Engine) AddComment(ctx context.Context, userID int64, slug, body string) (view.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return view.Comment{}, Validation("comment body must not be empty")
	}

	a, err := e.store.ArticleBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return view.Comment{}, NotFound("article not found")
		}
		return view.Comment{}, fmt.Errorf("add comment: %w", err)
	}

	c, err := e.store.CreateComment(ctx, store.Comment{
		ArticleID: a.ID,
		AuthorID:  userID,
		Body:      body,
		CreatedAt: e.now(),
	})
	if err != nil {
		return view.Comment{}, fmt.Errorf("add comment: %w", err)
	}

	e.log.Info("comment added",
		zap.String("slug", slug),
		zap.Int64("author", userID))

	// Commenters never follow themselves.
	return view.NewComment(c, false), nil
}

// ListComments returns the comments on the article, newest first, as seen
// by viewerID (0 = anonymous).
func (e *Engine) ListComments(ctx context.Context, viewerID int64, slug string) ([]view.Comment, error) {
	a, err := e.store.ArticleBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFound("article not found")
		}
		return nil, fmt.Errorf("list comments: %w", err)
	}

	comments, err := e.store.CommentsForArticle(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	authorIDs := make([]int64, len(comments))
	for i, c := range comments {
		authorIDs[i] = c.AuthorID
	}
	following, err := e.store.FollowingSet(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	views := make([]view.Comment, len(comments))
	for i, c := range comments {
		views[i] = view.NewComment(c, following[c.AuthorID])
	}
	return views, nil
}

// DeleteComment removes the requester's comment from the article. Missing
// and not-owned comments are both reported as forbidden, matching the
// article ownership conflation.
func (e *Engine) DeleteComment(ctx context.Context, requesterID int64, slug string, commentID int64) error {
	a, err := e.store.ArticleBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NotFound("article not found")
		}
		return fmt.Errorf("delete comment: %w", err)
	}

	if err := e.store.DeleteOwnedComment(ctx, commentID, a.ID, requesterID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Forbidden()
		}
		return fmt.Errorf("delete comment: %w", err)
	}

	e.log.Info("comment deleted",
		zap.String("slug", slug),
		zap.Int64("comment", commentID),
		zap.Int64("author", requesterID))

	return nil
}
