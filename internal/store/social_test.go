package store

import (
	"context"
	"testing"
)

func TestFavorite_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := createTestUser(t, s, "author")
	reader := createTestUser(t, s, "reader")
	a := createTestArticle(t, s, author.ID, "post-1")

	count, err := s.Favorite(ctx, reader.ID, a.ID)
	if err != nil {
		t.Fatalf("Favorite() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count after first favorite = %d, want 1", count)
	}

	count, err = s.Favorite(ctx, reader.ID, a.ID)
	if err != nil {
		t.Fatalf("second Favorite() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count after repeated favorite = %d, want 1", count)
	}
}

func TestUnfavorite_SymmetricAndIdempotentAtZero(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := createTestUser(t, s, "author")
	reader := createTestUser(t, s, "reader")
	a := createTestArticle(t, s, author.ID, "post-1")

	if _, err := s.Favorite(ctx, reader.ID, a.ID); err != nil {
		t.Fatalf("Favorite() failed: %v", err)
	}

	count, err := s.Unfavorite(ctx, reader.ID, a.ID)
	if err != nil {
		t.Fatalf("Unfavorite() failed: %v", err)
	}
	if count != 0 {
		t.Errorf("count after unfavorite = %d, want 0", count)
	}

	// Membership removed on both sides: the edge is gone.
	fav, err := s.IsFavorited(ctx, reader.ID, a.ID)
	if err != nil {
		t.Fatalf("IsFavorited() failed: %v", err)
	}
	if fav {
		t.Error("favorite edge should be removed")
	}

	// Unfavoriting again never goes below zero.
	count, err = s.Unfavorite(ctx, reader.ID, a.ID)
	if err != nil {
		t.Fatalf("repeated Unfavorite() failed: %v", err)
	}
	if count != 0 {
		t.Errorf("count after repeated unfavorite = %d, want 0", count)
	}
}

func TestFavorite_CountReconciledFromMembership(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := createTestUser(t, s, "author")
	a := createTestArticle(t, s, author.ID, "post-1")

	// Corrupt the cached counter; the next mutation must reconcile it
	// to the membership cardinality, not apply a delta on top.
	if _, err := s.db.Exec("UPDATE articles SET favourites_count = 41 WHERE id = ?", a.ID); err != nil {
		t.Fatalf("corrupting counter failed: %v", err)
	}

	reader := createTestUser(t, s, "reader")
	count, err := s.Favorite(ctx, reader.ID, a.ID)
	if err != nil {
		t.Fatalf("Favorite() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count after favorite on drifted counter = %d, want 1", count)
	}
}

func TestFollow_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")

	for i := 0; i < 2; i++ {
		if err := s.Follow(ctx, alice.ID, bob.ID); err != nil {
			t.Fatalf("Follow() iteration %d failed: %v", i, err)
		}
	}

	following, err := s.IsFollowing(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("IsFollowing() failed: %v", err)
	}
	if !following {
		t.Error("alice should follow bob")
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM follows").Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 follow edge, got %d", count)
	}
}

func TestFollow_SelfRejectedBySchema(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, s, "alice")

	if err := s.Follow(ctx, alice.ID, alice.ID); err == nil {
		t.Error("self-follow should violate the schema CHECK constraint")
	}
}

func TestUnfollow_IdempotentNoop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")

	// Never followed: still a no-op success.
	if err := s.Unfollow(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("Unfollow() of absent edge failed: %v", err)
	}

	following, err := s.IsFollowing(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("IsFollowing() failed: %v", err)
	}
	if following {
		t.Error("alice should not follow bob")
	}
}

func TestIsFollowing_AnonymousAlwaysFalse(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	bob := createTestUser(t, s, "bob")

	following, err := s.IsFollowing(ctx, 0, bob.ID)
	if err != nil {
		t.Fatalf("IsFollowing() failed: %v", err)
	}
	if following {
		t.Error("anonymous viewer must never be following")
	}
}
