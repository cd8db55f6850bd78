package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, Token: "secret", Repo: "acme/cloud"})
}

func TestClient_GetFile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/repos/acme/cloud/contents/db-products.json", r.URL.Path)
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		assert.Equal(t, "token secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		assert.Equal(t, "ProductDash-API", r.Header.Get("User-Agent"))

		// GitHub line-wraps base64 content.
		enc := base64.StdEncoding.EncodeToString([]byte(`[{"id":"i.1"}]`))
		_ = json.NewEncoder(w).Encode(map[string]string{
			"type":     "file",
			"encoding": "base64",
			"content":  enc[:8] + "\n" + enc[8:] + "\n",
			"sha":      "abc123",
		})
	})

	file, err := client.GetFile(context.Background(), "db-products.json", "main")
	require.NoError(t, err)
	assert.Equal(t, "abc123", file.SHA)

	data, err := file.Decode()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"i.1"}]`, string(data))
}

func TestClient_PutFile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/repos/acme/cloud/contents/data/db.json", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "Tambah produk: Shirt", req["message"])
		assert.Equal(t, "main", req["branch"])
		_, hasSHA := req["sha"]
		assert.False(t, hasSHA, "sha must be omitted on first write")

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"content":{"sha":"new-sha"},"commit":{"sha":"commit-sha"}}`))
	})

	resp, err := client.PutFile(context.Background(), "/data/db.json", &PutFileRequest{
		Message: "Tambah produk: Shirt",
		Content: base64.StdEncoding.EncodeToString([]byte("[]")),
		Branch:  "main",
	})
	require.NoError(t, err)
	assert.Equal(t, "new-sha", resp.Content.SHA)
	assert.Equal(t, "commit-sha", resp.Commit.SHA)
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		notFound    bool
		auth        bool
		rateLimited bool
		conflict    bool
	}{
		{name: "not found", status: 404, body: `{"message":"Not Found"}`, notFound: true},
		{name: "bad credentials", status: 401, body: `{"message":"Bad credentials"}`, auth: true},
		{name: "rate limit", status: 403, body: `{"message":"API rate limit exceeded for user"}`, rateLimited: true},
		{name: "permission denied", status: 403, body: `{"message":"Resource not accessible by personal access token"}`},
		{name: "secondary rate limit", status: 429, body: `{"message":"You have exceeded a secondary rate limit"}`, rateLimited: true},
		{name: "stale sha", status: 409, body: `{"message":"db-products.json does not match abc"}`, conflict: true},
		{name: "missing sha", status: 422, body: `{"message":"Invalid request.\n\n\"sha\" wasn't supplied."}`, conflict: true},
		{name: "server error", status: 502, body: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.GetFile(context.Background(), "db.json", "main")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.NotEmpty(t, apiErr.Message)

			assert.Equal(t, tt.notFound, IsNotFound(err))
			assert.Equal(t, tt.auth, IsAuthFailure(err))
			assert.Equal(t, tt.rateLimited, IsRateLimited(err))
			assert.Equal(t, tt.conflict, IsConflict(err))
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Token: "secret", Repo: "acme/cloud"})
	_, err := client.GetRateLimit(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.False(t, IsNotFound(err))
}

func TestFileContent_DecodeEmpty(t *testing.T) {
	data, err := (&FileContent{}).Decode()
	require.NoError(t, err)
	assert.Nil(t, data)

	_, err = (&FileContent{Content: "abc", Encoding: "none"}).Decode()
	assert.Error(t, err)
}
