// Package store provides SQLite-backed durable storage for Conduit's
// users, articles, tags, favorites, follows, and comments.
//
// # Consistency Mechanics
//
// Favorite membership is a single logical edge in the favorites table.
// Both denormalized "sides" of the relation (a user's favorited articles
// and an article's favoriting users) are queries over that one table, so
// they cannot diverge. The articles.favourites_count column is a cache:
// every favorite/unfavorite transaction rewrites it from the membership
// cardinality, never by applying a caller-supplied delta.
//
// Tag creation uses INSERT ... ON CONFLICT(name) DO NOTHING followed by a
// lookup, so concurrent attempts to create the same tag all converge on a
// single row without surfacing the collision.
//
// Article deletion cascades to comments, favorites, and tag associations
// through foreign keys; tag rows themselves are never deleted.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity and cascades
package store
