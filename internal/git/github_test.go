package git

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/prbot/internal/transport"
)

func newTestClient(t *testing.T, handler http.Handler) *RealGitHubClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewGitHubClient("test-token", srv.URL)
	require.NoError(t, err)
	return c
}

func TestPullRequestFiles(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/api/pulls/7/files", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `[
			{"filename":"main.go","status":"modified","additions":2,"deletions":1,"patch":"@@ -1 +1,2 @@\n-a\n+b\n+c"},
			{"filename":"logo.png","status":"added"}
		]`)
	})

	c := newTestClient(t, mux)
	files, err := c.PullRequestFiles(context.Background(), "acme/api", 7)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "main.go", files[0].Filename)
	assert.True(t, files[0].HasPatch())
	assert.Equal(t, 2, files[0].Additions)
	assert.Equal(t, "logo.png", files[1].Filename)
	assert.False(t, files[1].HasPatch())
}

func TestPullRequestFiles_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/api/pulls/7/files", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})

	c := newTestClient(t, mux)
	_, err := c.PullRequestFiles(context.Background(), "acme/api", 7)
	require.Error(t, err)

	var te *transport.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusNotFound, te.StatusCode)
	assert.Equal(t, "Not Found", te.Body)
}

func TestPullRequestFiles_InvalidRepo(t *testing.T) {
	c := newTestClient(t, http.NewServeMux())
	_, err := c.PullRequestFiles(context.Background(), "not-a-repo", 1)
	assert.Error(t, err)
}

func TestCreateComment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/api/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var payload map[string]any
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &payload))
		assert.Equal(t, map[string]any{"body": "hello"}, payload)

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":42,"body":"hello","html_url":"https://github.com/acme/api/pull/7#issuecomment-42"}`)
	})

	c := newTestClient(t, mux)
	comment, err := c.CreateComment(context.Background(), "acme/api", 7, "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(42), comment.ID)
	assert.Equal(t, "https://github.com/acme/api/pull/7#issuecomment-42", comment.HTMLURL)
}

func TestCreateComment_UnexpectedStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"ok instead of created", http.StatusOK},
		{"forbidden", http.StatusForbidden},
		{"validation failed", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/repos/acme/api/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"id":1,"message":"nope"}`)
			})

			c := newTestClient(t, mux)
			_, err := c.CreateComment(context.Background(), "acme/api", 7, "hello")
			require.Error(t, err)
			assert.Equal(t, tt.status, transport.StatusCode(err))

			var te *transport.Error
			require.ErrorAs(t, err, &te)
			assert.NotEmpty(t, te.Body)
		})
	}
}

func TestCreateComment_SuccessStatusOtherThanCreated(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/api/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":9,"body":"hello"}`)
	})

	c := newTestClient(t, mux)
	_, err := c.CreateComment(context.Background(), "acme/api", 7, "hello")
	require.Error(t, err)
	assert.Equal(t, "post comment: status 200 - expected 201 Created, got 200 OK (comment id 9)", err.Error())
}

func TestFindAndUpdateComment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/api/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		fmt.Fprint(w, `[
			{"id":1,"body":"lgtm"},
			{"id":2,"body":"report\n<!-- prbot:quality -->"}
		]`)
	})
	mux.HandleFunc("/repos/acme/api/issues/comments/2", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		fmt.Fprint(w, `{"id":2,"body":"new body"}`)
	})

	c := newTestClient(t, mux)
	ctx := context.Background()

	found, err := c.FindComment(ctx, "acme/api", 7, "<!-- prbot:quality -->")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, int64(2), found.ID)

	missing, err := c.FindComment(ctx, "acme/api", 7, "<!-- prbot:review -->")
	require.NoError(t, err)
	assert.Nil(t, missing)

	updated, err := c.UpdateComment(ctx, "acme/api", found.ID, "new body")
	require.NoError(t, err)
	assert.Equal(t, "new body", updated.Body)
}
