package view

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conduit/internal/store"
)

func testArticle() store.Article {
	return store.Article{
		ID:              42,
		Slug:            "my-first-post-1714557600000-a1b2c3",
		Title:           "My First Post",
		Description:     "How to train them",
		Body:            "With patience.",
		AuthorID:        7,
		FavouritesCount: 2,
		CreatedAt:       time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:       time.Date(2024, 5, 2, 11, 30, 0, 0, time.UTC),
		TagList:         []string{"dragons", "training"},
		Author: store.User{
			ID:       7,
			Email:    "alice@example.com",
			Username: "alice",
			Password: "super-secret",
			Bio:      "writes about dragons",
			Image:    "https://example.com/alice.png",
		},
	}
}

func TestNewArticle_StripsInternalFields(t *testing.T) {
	v := NewArticle(testArticle(), true, false)

	data, err := json.Marshal(v)
	require.NoError(t, err)

	s := string(data)
	assert.NotContains(t, s, `"id"`, "internal ids must not leak")
	assert.NotContains(t, s, "super-secret", "credentials must not leak")
	assert.NotContains(t, s, "alice@example.com", "author email must not leak")
	assert.Contains(t, s, `"favouritesCount":2`)
}

func TestNewArticle_NilTagListSerializesAsArray(t *testing.T) {
	a := testArticle()
	a.TagList = nil

	data, err := json.Marshal(NewArticle(a, false, false))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tagList":[]`)
}

func TestNewProfile_AnonymousDefaults(t *testing.T) {
	p := NewProfile(testArticle().Author, false)
	assert.False(t, p.Following)
	assert.Equal(t, "alice", p.Username)
}

func TestNewComment(t *testing.T) {
	c := NewComment(store.Comment{
		ID:        3,
		ArticleID: 42,
		AuthorID:  7,
		Body:      "great read",
		CreatedAt: time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC),
		Author:    testArticle().Author,
	}, true)

	assert.EqualValues(t, 3, c.ID)
	assert.True(t, c.Author.Following)

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "super-secret")
}

func TestNewUser_OmitsCredential(t *testing.T) {
	u := NewUser(testArticle().Author)

	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "super-secret")
	assert.Contains(t, string(data), `"email":"alice@example.com"`)
}
