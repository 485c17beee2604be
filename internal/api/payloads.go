package api

import (
	"errors"
	"net/http"

	"conduit/internal/engine"
	"conduit/internal/view"
)

//--
// Request payloads. Each Bind runs after unmarshalling and rejects
// payloads missing their wrapper object.
//--

// ArticleRequest wraps article creation/update bodies:
// {"article": {"title": ..., "tagList": [...]}}
type ArticleRequest struct {
	Article *struct {
		Title       *string   `json:"title"`
		Description *string   `json:"description"`
		Body        *string   `json:"body"`
		TagList     *[]string `json:"tagList"`
	} `json:"article"`
}

// Bind implements render.Binder.
func (a *ArticleRequest) Bind(r *http.Request) error {
	if a.Article == nil {
		return errors.New("missing required article fields")
	}
	return nil
}

func (a *ArticleRequest) input() engine.ArticleInput {
	in := engine.ArticleInput{}
	if a.Article.Title != nil {
		in.Title = *a.Article.Title
	}
	if a.Article.Description != nil {
		in.Description = *a.Article.Description
	}
	if a.Article.Body != nil {
		in.Body = *a.Article.Body
	}
	if a.Article.TagList != nil {
		in.TagList = *a.Article.TagList
	}
	return in
}

func (a *ArticleRequest) patch() engine.ArticlePatch {
	return engine.ArticlePatch{
		Title:       a.Article.Title,
		Description: a.Article.Description,
		Body:        a.Article.Body,
		TagList:     a.Article.TagList,
	}
}

// UserRequest wraps registration/update bodies: {"user": {...}}.
type UserRequest struct {
	User *struct {
		Email    *string `json:"email"`
		Username *string `json:"username"`
		Password *string `json:"password"`
		Bio      *string `json:"bio"`
		Image    *string `json:"image"`
	} `json:"user"`
}

// Bind implements render.Binder.
func (u *UserRequest) Bind(r *http.Request) error {
	if u.User == nil {
		return errors.New("missing required user fields")
	}
	return nil
}

func (u *UserRequest) input() engine.UserInput {
	in := engine.UserInput{}
	if u.User.Email != nil {
		in.Email = *u.User.Email
	}
	if u.User.Username != nil {
		in.Username = *u.User.Username
	}
	if u.User.Password != nil {
		in.Password = *u.User.Password
	}
	return in
}

func (u *UserRequest) patch() engine.UserPatch {
	return engine.UserPatch{
		Email:    u.User.Email,
		Username: u.User.Username,
		Password: u.User.Password,
		Bio:      u.User.Bio,
		Image:    u.User.Image,
	}
}

// CommentRequest wraps comment bodies: {"comment": {"body": ...}}.
type CommentRequest struct {
	Comment *struct {
		Body string `json:"body"`
	} `json:"comment"`
}

// Bind implements render.Binder.
func (c *CommentRequest) Bind(r *http.Request) error {
	if c.Comment == nil {
		return errors.New("missing required comment fields")
	}
	return nil
}

//--
// Response payloads. Render methods are no-ops; the wrapper shapes match
// the API contract.
//--

// ArticleResponse wraps a single article: {"article": {...}}.
type ArticleResponse struct {
	Article view.Article `json:"article"`
}

func (ArticleResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }

// ArticleListResponse wraps a listing with its unpaginated total.
type ArticleListResponse struct {
	Articles      []view.Article `json:"articles"`
	ArticlesCount int64          `json:"articlesCount"`
}

func (ArticleListResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }

// ProfileResponse wraps a profile: {"profile": {...}}.
type ProfileResponse struct {
	Profile view.Profile `json:"profile"`
}

func (ProfileResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }

// UserResponse wraps the caller's own account: {"user": {...}}.
type UserResponse struct {
	User view.User `json:"user"`
}

func (UserResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }

// CommentResponse wraps a single comment: {"comment": {...}}.
type CommentResponse struct {
	Comment view.Comment `json:"comment"`
}

func (CommentResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }

// CommentListResponse wraps an article's comments.
type CommentListResponse struct {
	Comments []view.Comment `json:"comments"`
}

func (CommentListResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }

// TagListResponse wraps the tag vocabulary.
type TagListResponse struct {
	Tags []string `json:"tags"`
}

func (TagListResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }
