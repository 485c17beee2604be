package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"conduit/internal/store"
	"conduit/internal/view"
)

// ArticleInput carries the fields for article creation.
type ArticleInput struct {
	Title       string
	Description string
	Body        string
	TagList     []string
}

// ArticlePatch carries optional replacements for article update.
// A nil field is left unchanged; a present TagList replaces the tag set.
type ArticlePatch struct {
	Title       *string
	Description *string
	Body        *string
	TagList     *[]string
}

// ListFilter filters and paginates article listings. Filters combine
// conjunctively.
type ListFilter struct {
	Tag       string // tag name
	Author    string // author username
	Favorited string // username whose favorites to list
	Limit     int
	Offset    int
}

// ArticleList is a page of articles plus the unpaginated total.
type ArticleList struct {
	Articles []view.Article
	Total    int64
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// CreateArticle creates an article for the author, resolving each tag
// name through the tag registry and generating a unique slug.
//
// Tag resolutions run concurrently and are order-insensitive; a resolution
// that loses a creation race receives the winning tag rather than an
// error.
func (e *Engine) CreateArticle(ctx context.Context, authorID int64, in ArticleInput) (view.Article, error) {
	if strings.TrimSpace(in.Title) == "" {
		return view.Article{}, Validation("title must not be empty")
	}

	tagIDs, err := e.resolveTags(ctx, in.TagList)
	if err != nil {
		return view.Article{}, err
	}

	now := e.now()
	a, err := e.store.CreateArticle(ctx, store.Article{
		Slug:        e.slugify(in.Title),
		Title:       in.Title,
		Description: in.Description,
		Body:        in.Body,
		AuthorID:    authorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, tagIDs)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return view.Article{}, Conflict("slug already exists")
		}
		return view.Article{}, fmt.Errorf("create article: %w", err)
	}

	e.log.Info("article created",
		zap.String("slug", a.Slug),
		zap.Int64("author", authorID),
		zap.Int("tags", len(a.TagList)))

	// A fresh article has no favorites, and an author never follows itself.
	return view.NewArticle(a, false, false), nil
}

// GetArticle returns the article with the given slug as seen by viewerID
// (0 = anonymous).
func (e *Engine) GetArticle(ctx context.Context, viewerID int64, slug string) (view.Article, error) {
	a, err := e.store.ArticleBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return view.Article{}, NotFound("article not found")
		}
		return view.Article{}, fmt.Errorf("get article: %w", err)
	}
	return e.projectArticle(ctx, viewerID, a)
}

// ListArticles returns articles matching the filter, newest first.
//
// A Favorited filter naming a user that does not exist degenerates to an
// always-false predicate: the result is empty, not an error.
func (e *Engine) ListArticles(ctx context.Context, viewerID int64, f ListFilter) (ArticleList, error) {
	q := store.ArticleQuery{
		Tag:    f.Tag,
		Author: f.Author,
		Limit:  clampLimit(f.Limit),
		Offset: max(f.Offset, 0),
	}

	if f.Favorited != "" {
		u, err := e.store.UserByUsername(ctx, f.Favorited)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ArticleList{Articles: []view.Article{}}, nil
			}
			return ArticleList{}, fmt.Errorf("resolve favorited filter: %w", err)
		}
		q.FavoritedBy = u.ID
	}

	articles, err := e.store.ListArticles(ctx, q)
	if err != nil {
		return ArticleList{}, fmt.Errorf("list articles: %w", err)
	}
	total, err := e.store.CountArticles(ctx, q)
	if err != nil {
		return ArticleList{}, fmt.Errorf("list articles: %w", err)
	}

	views, err := e.projectArticles(ctx, viewerID, articles)
	if err != nil {
		return ArticleList{}, err
	}
	return ArticleList{Articles: views, Total: total}, nil
}

// UpdateArticle applies the patch to the requester's article. The slug is
// regenerated when the title changes; a present TagList replaces the tag
// associations wholesale.
//
// Fails with a forbidden error unless the article exists and is authored
// by requesterID - the two cases are indistinguishable to the caller.
func (e *Engine) UpdateArticle(ctx context.Context, requesterID int64, slug string, patch ArticlePatch) (view.Article, error) {
	a, err := e.store.OwnedArticleBySlug(ctx, slug, requesterID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return view.Article{}, Forbidden()
		}
		return view.Article{}, fmt.Errorf("update article: %w", err)
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return view.Article{}, Validation("title must not be empty")
		}
		a.Title = *patch.Title
		a.Slug = e.slugify(*patch.Title)
	}
	if patch.Description != nil {
		a.Description = *patch.Description
	}
	if patch.Body != nil {
		a.Body = *patch.Body
	}

	var tagIDs []int64
	replaceTags := patch.TagList != nil
	if replaceTags {
		tagIDs, err = e.resolveTags(ctx, *patch.TagList)
		if err != nil {
			return view.Article{}, err
		}
	}

	a.UpdatedAt = e.now()
	updated, err := e.store.UpdateArticle(ctx, a, tagIDs, replaceTags)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return view.Article{}, Conflict("slug already exists")
		}
		return view.Article{}, fmt.Errorf("update article: %w", err)
	}

	e.log.Info("article updated",
		zap.String("slug", updated.Slug),
		zap.Int64("author", requesterID))

	return e.projectArticle(ctx, requesterID, updated)
}

// DeleteArticle removes the requester's article and returns its final
// view. Comments and favorites are removed with it; tags persist in the
// registry. Same ownership conflation as UpdateArticle.
func (e *Engine) DeleteArticle(ctx context.Context, requesterID int64, slug string) (view.Article, error) {
	a, err := e.store.OwnedArticleBySlug(ctx, slug, requesterID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return view.Article{}, Forbidden()
		}
		return view.Article{}, fmt.Errorf("delete article: %w", err)
	}

	final, err := e.projectArticle(ctx, requesterID, a)
	if err != nil {
		return view.Article{}, err
	}

	if err := e.store.DeleteArticle(ctx, a.ID); err != nil {
		return view.Article{}, fmt.Errorf("delete article: %w", err)
	}

	e.log.Info("article deleted",
		zap.String("slug", slug),
		zap.Int64("author", requesterID))

	return final, nil
}

// resolveTags maps tag names to tag ids via the registry, creating
// missing tags. Resolutions run concurrently; duplicate names in the
// input resolve to the same id.
func (e *Engine) resolveTags(ctx context.Context, names []string) ([]int64, error) {
	ids := make([]int64, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			name = strings.TrimSpace(name)
			if name == "" {
				return Validation("tag name must not be empty")
			}
			t, err := e.store.EnsureTag(gctx, name)
			if err != nil {
				if errors.Is(err, store.ErrDuplicate) {
					return Conflict(fmt.Sprintf("tag %q could not be resolved", name))
				}
				return fmt.Errorf("resolve tag %q: %w", name, err)
			}
			ids[i] = t.ID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ids, nil
}

// projectArticle builds the viewer-relative view of a single article.
func (e *Engine) projectArticle(ctx context.Context, viewerID int64, a store.Article) (view.Article, error) {
	favorited, err := e.store.IsFavorited(ctx, viewerID, a.ID)
	if err != nil {
		return view.Article{}, fmt.Errorf("project article: %w", err)
	}
	following, err := e.store.IsFollowing(ctx, viewerID, a.AuthorID)
	if err != nil {
		return view.Article{}, fmt.Errorf("project article: %w", err)
	}
	return view.NewArticle(a, favorited, following), nil
}

// projectArticles builds viewer-relative views for a listing using
// batched membership lookups.
func (e *Engine) projectArticles(ctx context.Context, viewerID int64, articles []store.Article) ([]view.Article, error) {
	articleIDs := make([]int64, len(articles))
	authorIDs := make([]int64, len(articles))
	for i, a := range articles {
		articleIDs[i] = a.ID
		authorIDs[i] = a.AuthorID
	}

	favorited, err := e.store.FavoritedSet(ctx, viewerID, articleIDs)
	if err != nil {
		return nil, fmt.Errorf("project articles: %w", err)
	}
	following, err := e.store.FollowingSet(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("project articles: %w", err)
	}

	views := make([]view.Article, len(articles))
	for i, a := range articles {
		views[i] = view.NewArticle(a, favorited[a.ID], following[a.AuthorID])
	}
	return views, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	default:
		return limit
	}
}
