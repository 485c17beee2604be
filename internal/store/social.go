package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Favorite records that userID favorites articleID and returns the
// resulting favorite count.
//
// The membership insert and the counter rewrite happen in one transaction.
// INSERT OR IGNORE makes the operation idempotent: favoriting an already
// favorited article changes nothing. The counter is always rewritten from
// the membership cardinality, never incremented, so it cannot drift even
// if the cached value was wrong before the call.
func (s *Store) Favorite(ctx context.Context, userID, articleID int64) (int64, error) {
	var count int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO favorites (user_id, article_id) VALUES (?, ?)
		`, userID, articleID)
		if err != nil {
			return fmt.Errorf("insert favorite: %w", err)
		}

		count, err = reconcileFavouritesCount(ctx, tx, articleID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Unfavorite removes userID's favorite of articleID and returns the
// resulting favorite count. Idempotent: removing an absent favorite is a
// no-op and the count stays at the membership cardinality (never below 0).
func (s *Store) Unfavorite(ctx context.Context, userID, articleID int64) (int64, error) {
	var count int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			DELETE FROM favorites WHERE user_id = ? AND article_id = ?
		`, userID, articleID)
		if err != nil {
			return fmt.Errorf("delete favorite: %w", err)
		}

		count, err = reconcileFavouritesCount(ctx, tx, articleID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// reconcileFavouritesCount rewrites the cached counter from the favorites
// cardinality and returns the new value. Must run inside the same
// transaction as the membership mutation.
func reconcileFavouritesCount(ctx context.Context, tx *sql.Tx, articleID int64) (int64, error) {
	_, err := tx.ExecContext(ctx, `
		UPDATE articles
		SET favourites_count = (SELECT COUNT(*) FROM favorites WHERE article_id = ?)
		WHERE id = ?
	`, articleID, articleID)
	if err != nil {
		return 0, fmt.Errorf("reconcile favourites count: %w", err)
	}

	var count int64
	err = tx.QueryRowContext(ctx, `
		SELECT favourites_count FROM articles WHERE id = ?
	`, articleID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("read favourites count: %w", err)
	}
	return count, nil
}

// IsFavorited reports whether userID has favorited articleID.
// Always false for userID 0 (anonymous viewer).
func (s *Store) IsFavorited(ctx context.Context, userID, articleID int64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM favorites WHERE user_id = ? AND article_id = ?
	`, userID, articleID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query favorite: %w", err)
	}
	return true, nil
}

// FavoritedSet returns the subset of articleIDs favorited by userID.
// Always empty for userID 0.
func (s *Store) FavoritedSet(ctx context.Context, userID int64, articleIDs []int64) (map[int64]bool, error) {
	set := map[int64]bool{}
	if userID == 0 || len(articleIDs) == 0 {
		return set, nil
	}

	args := make([]any, 0, len(articleIDs)+1)
	args = append(args, userID)
	for _, id := range articleIDs {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT article_id FROM favorites
		WHERE user_id = ? AND article_id IN (`+placeholders(len(articleIDs))+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query favorited set: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan favorited set: %w", err)
		}
		set[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorited set: %w", err)
	}
	return set, nil
}

// Follow records that followerID follows followeeID.
// Idempotent via INSERT OR IGNORE. The schema rejects self-follows.
func (s *Store) Follow(ctx context.Context, followerID, followeeID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO follows (follower_id, followee_id) VALUES (?, ?)
	`, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("insert follow: %w", err)
	}
	return nil
}

// Unfollow removes the follow edge. Idempotent: removing an absent edge
// is a no-op.
func (s *Store) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM follows WHERE follower_id = ? AND followee_id = ?
	`, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

// IsFollowing reports whether followerID follows followeeID.
// Always false for followerID 0 (anonymous viewer).
func (s *Store) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	if followerID == 0 {
		return false, nil
	}
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM follows WHERE follower_id = ? AND followee_id = ?
	`, followerID, followeeID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query follow: %w", err)
	}
	return true, nil
}

// FollowingIDs returns the ids of every user that followerID follows,
// ordered for determinism. Returns an empty slice (not nil) for a user
// who follows no one.
func (s *Store) FollowingIDs(ctx context.Context, followerID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT followee_id FROM follows WHERE follower_id = ? ORDER BY followee_id ASC
	`, followerID)
	if err != nil {
		return nil, fmt.Errorf("query following: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan following: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate following: %w", err)
	}
	return ids, nil
}

// FollowingSet returns the subset of userIDs that followerID follows.
// Always empty for followerID 0.
func (s *Store) FollowingSet(ctx context.Context, followerID int64, userIDs []int64) (map[int64]bool, error) {
	set := map[int64]bool{}
	if followerID == 0 || len(userIDs) == 0 {
		return set, nil
	}

	args := make([]any, 0, len(userIDs)+1)
	args = append(args, followerID)
	for _, id := range userIDs {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT followee_id FROM follows
		WHERE follower_id = ? AND followee_id IN (`+placeholders(len(userIDs))+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query following set: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan following set: %w", err)
		}
		set[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate following set: %w", err)
	}
	return set, nil
}
