package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

// newTestStore creates a file-backed store in a temp dir for testing.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestUser inserts a user with derived email.
func createTestUser(t *testing.T, s *Store, username string) User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), User{
		Email:    username + "@example.com",
		Username: username,
		Password: "opaque-credential",
	})
	if err != nil {
		t.Fatalf("CreateUser(%q) failed: %v", username, err)
	}
	return u
}

// createTestArticle inserts an article with no tags.
func createTestArticle(t *testing.T, s *Store, authorID int64, slug string) Article {
	t.Helper()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	a, err := s.CreateArticle(context.Background(), Article{
		Slug:      slug,
		Title:     slug,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil)
	if err != nil {
		t.Fatalf("CreateArticle(%q) failed: %v", slug, err)
	}
	return a
}
