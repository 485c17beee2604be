package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"conduit/internal/store"
	"conduit/internal/view"
)

// Follow makes userID follow the user named targetUsername and returns
// the target's profile.
//
// Idempotent: following an already followed user is a no-op that still
// reports following=true. Following yourself is rejected.
func (e *Engine) Follow(ctx context.Context, userID int64, targetUsername string) (view.Profile, error) {
	target, err := e.resolveProfile(ctx, targetUsername)
	if err != nil {
		return view.Profile{}, err
	}
	if target.ID == userID {
		return view.Profile{}, Validation("cannot follow yourself")
	}

	if err := e.store.Follow(ctx, userID, target.ID); err != nil {
		return view.Profile{}, fmt.Errorf("follow: %w", err)
	}

	e.log.Info("user followed",
		zap.Int64("follower", userID),
		zap.String("target", targetUsername))

	return view.NewProfile(target, true), nil
}

// Unfollow removes userID's follow of targetUsername and returns the
// target's profile. Idempotent: unfollowing a user who was never followed
// is a no-op reporting following=false.
func (e *Engine) Unfollow(ctx context.Context, userID int64, targetUsername string) (view.Profile, error) {
	target, err := e.resolveProfile(ctx, targetUsername)
	if err != nil {
		return view.Profile{}, err
	}

	if err := e.store.Unfollow(ctx, userID, target.ID); err != nil {
		return view.Profile{}, fmt.Errorf("unfollow: %w", err)
	}

	e.log.Info("user unfollowed",
		zap.Int64("follower", userID),
		zap.String("target", targetUsername))

	return view.NewProfile(target, false), nil
}

// Favorite adds the article to userID's favorites and returns the article
// view with the updated count.
//
// The membership insert on both sides of the relation and the counter
// update are one store transaction; the returned count is derived from
// the membership cardinality. Idempotent: favoriting twice leaves the
// count unchanged.
func (e *Engine) Favorite(ctx context.Context, userID int64, slug string) (view.Article, error) {
	a, err := e.store.ArticleBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return view.Article{}, NotFound("article not found")
		}
		return view.Article{}, fmt.Errorf("favorite: %w", err)
	}

	count, err := e.store.Favorite(ctx, userID, a.ID)
	if err != nil {
		return view.Article{}, fmt.Errorf("favorite: %w", err)
	}
	a.FavouritesCount = count

	e.log.Info("article favorited",
		zap.String("slug", slug),
		zap.Int64("user", userID),
		zap.Int64("count", count))

	following, err := e.store.IsFollowing(ctx, userID, a.AuthorID)
	if err != nil {
		return view.Article{}, fmt.Errorf("favorite: %w", err)
	}
	return view.NewArticle(a, true, following), nil
}

// Unfavorite removes the article from userID's favorites and returns the
// article view with the updated count. Idempotent at zero: the count is
// the membership cardinality and never goes below 0.
func (e *Engine) Unfavorite(ctx context.Context, userID int64, slug string) (view.Article, error) {
	a, err := e.store.ArticleBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return view.Article{}, NotFound("article not found")
		}
		return view.Article{}, fmt.Errorf("unfavorite: %w", err)
	}

	count, err := e.store.Unfavorite(ctx, userID, a.ID)
	if err != nil {
		return view.Article{}, fmt.Errorf("unfavorite: %w", err)
	}
	a.FavouritesCount = count

	e.log.Info("article unfavorited",
		zap.String("slug", slug),
		zap.Int64("user", userID),
		zap.Int64("count", count))

	following, err := e.store.IsFollowing(ctx, userID, a.AuthorID)
	if err != nil {
		return view.Article{}, fmt.Errorf("unfavorite: %w", err)
	}
	return view.NewArticle(a, false, following), nil
}

// GetProfile returns the profile for username as seen by viewerID
// (0 = anonymous, following always false).
func (e *Engine) GetProfile(ctx context.Context, viewerID int64, username string) (view.Profile, error) {
	target, err := e.resolveProfile(ctx, username)
	if err != nil {
		return view.Profile{}, err
	}

	following, err := e.store.IsFollowing(ctx, viewerID, target.ID)
	if err != nil {
		return view.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return view.NewProfile(target, following), nil
}

func (e *Engine) resolveProfile(ctx context.Context, username string) (store.User, error) {
	u, err := e.store.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.User{}, NotFound("profile not found")
		}
		return store.User{}, fmt.Errorf("resolve profile: %w", err)
	}
	return u, nil
}
