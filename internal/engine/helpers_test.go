package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"conduit/internal/store"
)

// newTestEngine creates an engine over a temp-dir store.
func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "store.Open should succeed")
	t.Cleanup(func() { s.Close() })
	return New(s, zaptest.NewLogger(t), opts...)
}

// registerTestUser registers a user and returns its id.
func registerTestUser(t *testing.T, e *Engine, username string) int64 {
	t.Helper()
	_, err := e.RegisterUser(context.Background(), UserInput{
		Email:    username + "@example.com",
		Username: username,
		Password: "opaque-credential",
	})
	require.NoError(t, err, "RegisterUser(%q) should succeed", username)

	u, err := e.store.UserByUsername(context.Background(), username)
	require.NoError(t, err)
	return u.ID
}

func strPtr(s string) *string { return &s }
