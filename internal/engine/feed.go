package engine

import (
	"context"
	"fmt"

	"conduit/internal/store"
	"conduit/internal/view"
)

// Page paginates the feed.
type Page struct {
	Limit  int
	Offset int
}

// Feed returns the articles authored by every user that userID follows,
// newest first.
//
// Each article is annotated with author.following=true - definitionally
// true, since the article is in the feed because its author is followed.
// An empty follow set yields an empty feed, not an error.
func (e *Engine) Feed(ctx context.Context, userID int64, page Page) (ArticleList, error) {
	followed, err := e.store.FollowingIDs(ctx, userID)
	if err != nil {
		return ArticleList{}, fmt.Errorf("feed: %w", err)
	}
	if len(followed) == 0 {
		return ArticleList{Articles: []view.Article{}}, nil
	}

	q := store.ArticleQuery{
		AuthorIDs: followed,
		Limit:     clampLimit(page.Limit),
		Offset:    max(page.Offset, 0),
	}

	articles, err := e.store.ListArticles(ctx, q)
	if err != nil {
		return ArticleList{}, fmt.Errorf("feed: %w", err)
	}
	total, err := e.store.CountArticles(ctx, q)
	if err != nil {
		return ArticleList{}, fmt.Errorf("feed: %w", err)
	}

	articleIDs := make([]int64, len(articles))
	for i, a := range articles {
		articleIDs[i] = a.ID
	}
	favorited, err := e.store.FavoritedSet(ctx, userID, articleIDs)
	if err != nil {
		return ArticleList{}, fmt.Errorf("feed: %w", err)
	}

	views := make([]view.Article, len(articles))
	for i, a := range articles {
		views[i] = view.NewArticle(a, favorited[a.ID], true)
	}
	return ArticleList{Articles: views, Total: total}, nil
}
