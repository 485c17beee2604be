// Package view shapes stored entities into outward-facing representations.
//
// Views carry no internal identifiers (row ids, author ids, raw membership
// lists) and no credentials. Viewer-relative flags (following, favorited)
// are computed by the caller against the viewer's membership sets and
// passed in; anonymous viewers get false for both.
package view

import (
	"time"

	"conduit/internal/store"
)

// Profile is the outward representation of a user as seen by a viewer.
type Profile struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	Following bool   `json:"following"`
}

// Article is the outward representation of an article as seen by a viewer.
type Article struct {
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Body            string    `json:"body"`
	TagList         []string  `json:"tagList"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Favorited       bool      `json:"favorited"`
	FavouritesCount int64     `json:"favouritesCount"`
	Author          Profile   `json:"author"`
}

// Comment is the outward representation of a comment. The id stays: it is
// the resource key clients need to delete the comment.
type Comment struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Body      string    `json:"body"`
	Author    Profile   `json:"author"`
}

// User is the outward representation of the authenticated user's own
// account. The credential never appears here.
type User struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
}

// NewProfile projects a stored user into a Profile.
func NewProfile(u store.User, following bool) Profile {
	return Profile{
		Username:  u.Username,
		Bio:       u.Bio,
		Image:     u.Image,
		Following: following,
	}
}

// NewArticle projects a stored article into an Article. The tag list is
// never nil so it always serializes as a JSON array.
func NewArticle(a store.Article, favorited, followingAuthor bool) Article {
	tags := a.TagList
	if tags == nil {
		tags = []string{}
	}
	return Article{
		Slug:            a.Slug,
		Title:           a.Title,
		Description:     a.Description,
		Body:            a.Body,
		TagList:         tags,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
		Favorited:       favorited,
		FavouritesCount: a.FavouritesCount,
		Author:          NewProfile(a.Author, followingAuthor),
	}
}

// NewComment projects a stored comment into a Comment.
func NewComment(c store.Comment, followingAuthor bool) Comment {
	return Comment{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		Body:      c.Body,
		Author:    NewProfile(c.Author, followingAuthor),
	}
}

// NewUser projects a stored user into its own account view.
func NewUser(u store.User) User {
	return User{
		Email:    u.Email,
		Username: u.Username,
		Bio:      u.Bio,
		Image:    u.Image,
	}
}
