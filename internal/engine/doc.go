// Package engine implements the article and social-graph rules behind the
// Conduit API: article lifecycle, tag deduplication, follows, favorites,
// and the feed and counter computations derived from them.
//
// # Correctness Model
//
// Every operation is a request-scoped read-modify-write against the store;
// the engine keeps no shared mutable state of its own. The invariants the
// engine preserves:
//
//   - An article's favourites count always equals the cardinality of its
//     favoriting-user set. Both are mutated in a single store transaction,
//     and the count is derived from the set, never incremented blindly.
//   - Favorite and follow are idempotent toggles. Repeating an operation
//     in the same state is a no-op that returns the current state, never
//     an error.
//   - A tag name maps to exactly one tag entity no matter how many
//     creations race; losers of the race fall back to reading the
//     winner's row.
//   - Update and delete conflate "doesn't exist" with "not yours" in one
//     forbidden error, so a non-owner learns nothing about existence.
//
// Authentication is external: callers pass an already verified user id,
// with 0 meaning anonymous. Transport concerns (parsing, field
// validation, routing) live in the api package.
package engine
