package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"conduit/internal/engine"
	"conduit/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	log := zaptest.NewLogger(t)
	srv := httptest.NewServer(New(engine.New(s, log), DevAuth{}, log).Router())
	t.Cleanup(srv.Close)
	return srv
}

// doJSON issues a request with an optional dev token and decodes the body.
func doJSON(t *testing.T, srv *httptest.Server, method, path string, userID int64, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("Authorization", fmt.Sprintf("Token %d", userID))
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	decoded := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

func registerUser(t *testing.T, srv *httptest.Server, username string) {
	t.Helper()
	code, _ := doJSON(t, srv, http.MethodPost, "/api/users", 0, fmt.Sprintf(
		`{"user": {"email": "%s@example.com", "username": "%s", "password": "pw"}}`,
		username, username))
	require.Equal(t, http.StatusCreated, code)
}

func TestRegisterAndConflict(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "alice")

	code, body := doJSON(t, srv, http.MethodPost, "/api/users", 0,
		`{"user": {"email": "alice@example.com", "username": "alice", "password": "pw"}}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Conflict.", body["status"])
}

func TestArticleLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "alice") // user id 1
	registerUser(t, srv, "bob")   // user id 2

	// Create requires auth.
	code, _ := doJSON(t, srv, http.MethodPost, "/api/articles", 0,
		`{"article": {"title": "My First Post"}}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := doJSON(t, srv, http.MethodPost, "/api/articles", 1,
		`{"article": {"title": "My First Post", "description": "d", "body": "b", "tagList": ["dragons", "training"]}}`)
	require.Equal(t, http.StatusCreated, code)

	article := body["article"].(map[string]any)
	slug := article["slug"].(string)
	assert.Regexp(t, `^my-first-post-\d+`, slug)
	assert.Len(t, article["tagList"], 2)
	assert.EqualValues(t, 0, article["favouritesCount"])

	// Bob favorites it, twice; the count stays at 1.
	for i := 0; i < 2; i++ {
		code, body = doJSON(t, srv, http.MethodPost, "/api/articles/"+slug+"/favorite", 2, "")
		require.Equal(t, http.StatusOK, code, "favorite iteration %d", i)
		article = body["article"].(map[string]any)
		assert.Equal(t, true, article["favorited"])
		assert.EqualValues(t, 1, article["favouritesCount"])
	}

	code, body = doJSON(t, srv, http.MethodDelete, "/api/articles/"+slug+"/favorite", 2, "")
	require.Equal(t, http.StatusOK, code)
	article = body["article"].(map[string]any)
	assert.Equal(t, false, article["favorited"])
	assert.EqualValues(t, 0, article["favouritesCount"])

	// Bob cannot update Alice's article; the error shape matches a miss.
	code, _ = doJSON(t, srv, http.MethodPut, "/api/articles/"+slug, 2,
		`{"article": {"body": "hijack"}}`)
	assert.Equal(t, http.StatusForbidden, code)

	// Unknown favorited filter degrades to an empty listing.
	code, body = doJSON(t, srv, http.MethodGet, "/api/articles?favorited=nobody", 0, "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["articles"])
	assert.EqualValues(t, 0, body["articlesCount"])
}

func TestProfilesAndFeedOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "alice") // user id 1
	registerUser(t, srv, "bob")   // user id 2

	code, _ := doJSON(t, srv, http.MethodPost, "/api/articles", 2,
		`{"article": {"title": "From Bob"}}`)
	require.Equal(t, http.StatusCreated, code)

	code, body := doJSON(t, srv, http.MethodPost, "/api/profiles/bob/follow", 1, "")
	require.Equal(t, http.StatusOK, code)
	profile := body["profile"].(map[string]any)
	assert.Equal(t, true, profile["following"])

	code, body = doJSON(t, srv, http.MethodGet, "/api/articles/feed", 1, "")
	require.Equal(t, http.StatusOK, code)
	articles := body["articles"].([]any)
	require.Len(t, articles, 1)
	author := articles[0].(map[string]any)["author"].(map[string]any)
	assert.Equal(t, "bob", author["username"])
	assert.Equal(t, true, author["following"])

	code, _ = doJSON(t, srv, http.MethodGet, "/api/profiles/ghost", 0, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTagsOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "alice")

	code, _ := doJSON(t, srv, http.MethodPost, "/api/articles", 1,
		`{"article": {"title": "Tagged", "tagList": ["zebra", "alpha"]}}`)
	require.Equal(t, http.StatusCreated, code)

	code, body := doJSON(t, srv, http.MethodGet, "/api/tags", 0, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"alpha", "zebra"}, body["tags"])
}
