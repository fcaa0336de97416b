package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/pkg/quill"
	"github.com/quillhq/quill/pkg/quill/api"
	"github.com/quillhq/quill/pkg/quill/repo/memory"
	memorystorage "github.com/quillhq/quill/pkg/quill/storage/memory"
)

type testEnv struct {
	router http.Handler
	svc    quill.Service
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()

	tokens := quill.NewTokenIssuer([]byte("test-secret"))
	svc, err := quill.New(
		quill.WithRepository(memory.New()),
		quill.WithBlobStore(memorystorage.New()),
		quill.WithTokenIssuer(tokens),
	)
	require.NoError(t, err)

	return &testEnv{router: api.NewRouter(svc, tokens), svc: svc}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func (e *testEnv) registerToken(t *testing.T, handle string, role quill.Role) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/v1/auth/register", "", api.RegisterRequest{
		Handle:   handle,
		Email:    fmt.Sprintf("%s@example.com", handle),
		Password: "password123",
		Role:     string(role),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result quill.AuthResult
	decodeJSON(t, rec, &result)
	require.NotEmpty(t, result.Token)
	return result.Token
}

func TestHealth(t *testing.T) {
	env := setupTestRouter(t)
	rec := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestAuthEndpoints(t *testing.T) {
	env := setupTestRouter(t)

	t.Run("register and me", func(t *testing.T) {
		token := env.registerToken(t, "alice", quill.RoleAuthor)

		rec := env.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var actor quill.Actor
		decodeJSON(t, rec, &actor)
		assert.Equal(t, "alice", actor.Handle)
	})

	t.Run("me without token is unauthorized", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("me with garbage token is unauthorized", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/auth/me", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/register", "", api.RegisterRequest{
			Handle:   "alice",
			Email:    "alice@example.com",
			Password: "password123",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("login", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", api.LoginRequest{
			Email:    "alice@example.com",
			Password: "password123",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bad credentials", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", api.LoginRequest{
			Email:    "alice@example.com",
			Password: "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("guest login", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/guest", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var result quill.AuthResult
		decodeJSON(t, rec, &result)
		assert.Equal(t, "guest", result.Actor.Handle)
	})
}

func TestActorEndpoints(t *testing.T) {
	env := setupTestRouter(t)

	adminToken := env.registerToken(t, "root", quill.RoleAdmin)
	authorToken := env.registerToken(t, "writer", quill.RoleAuthor)

	t.Run("admin lists actors", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/actors", adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var actors []quill.Actor
		decodeJSON(t, rec, &actors)
		assert.Len(t, actors, 2)
	})

	t.Run("author is forbidden", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/actors", authorToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/actors", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestContentTypeEndpoints(t *testing.T) {
	env := setupTestRouter(t)

	adminToken := env.registerToken(t, "root", quill.RoleAdmin)
	authorToken := env.registerToken(t, "writer", quill.RoleAuthor)

	createBody := api.CreateContentTypeRequest{
		Name: "Blog Post",
		Slug: "blog-post",
		Fields: []quill.FieldSchemaInput{
			{Name: "Body", Slug: "body", Type: quill.FieldTypeRichText, Required: true},
		},
	}

	t.Run("admin creates", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/content-types", adminToken, createBody)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var ct quill.ContentType
		decodeJSON(t, rec, &ct)
		assert.Equal(t, "blog-post", ct.Slug)
		assert.Len(t, ct.Fields, 1)
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/content-types", adminToken, createBody)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("author is forbidden", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/content-types", authorToken, createBody)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing name fails validation", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/content-types", adminToken,
			api.CreateContentTypeRequest{Slug: "nameless"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("list is public", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/content-types", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var types []quill.ContentType
		decodeJSON(t, rec, &types)
		assert.Len(t, types, 1)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/content-types/6a6a2b0a-0a50-4c53-9b62-69d0d0f0a000", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id is a bad request", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/content-types/not-a-uuid", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestContentEndpoints(t *testing.T) {
	env := setupTestRouter(t)

	adminToken := env.registerToken(t, "root", quill.RoleAdmin)
	editorToken := env.registerToken(t, "ed", quill.RoleEditor)
	authorToken := env.registerToken(t, "writer", quill.RoleAuthor)

	rec := env.do(t, http.MethodPost, "/api/v1/content-types", adminToken, api.CreateContentTypeRequest{
		Name: "Blog Post",
		Slug: "blog-post",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var ct quill.ContentType
	decodeJSON(t, rec, &ct)

	createBody := api.CreateContentRequest{
		ContentTypeID: ct.ID,
		Title:         "Hello",
		Slug:          "hello",
	}

	var created quill.ContentDetail

	t.Run("author creates", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/contents", authorToken, createBody)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		decodeJSON(t, rec, &created)
		assert.Equal(t, quill.StatusDraft, created.Content.Status)
	})

	t.Run("anonymous create is unauthorized", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/contents", "", createBody)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/contents", authorToken, createBody)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("author may not publish", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/contents/%s/publish", created.Content.ID)
		rec := env.do(t, http.MethodPost, path, authorToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("editor publishes", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/contents/%s/publish", created.Content.ID)
		rec := env.do(t, http.MethodPost, path, editorToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var detail quill.ContentDetail
		decodeJSON(t, rec, &detail)
		assert.Equal(t, quill.StatusPublished, detail.Content.Status)
		assert.NotNil(t, detail.Content.PublishedAt)
	})

	t.Run("read by slug pair", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/contents/blog-post/hello", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var detail quill.ContentDetail
		decodeJSON(t, rec, &detail)
		assert.Equal(t, created.Content.ID, detail.Content.ID)
	})

	t.Run("list filtered by status", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/contents?status=PUBLISHED", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var details []quill.ContentDetail
		decodeJSON(t, rec, &details)
		assert.Len(t, details, 1)
	})

	t.Run("bad status filter is a bad request", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/contents?status=LIMBO", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("update patches title", func(t *testing.T) {
		title := "Renamed"
		path := fmt.Sprintf("/api/v1/contents/%s", created.Content.ID)
		rec := env.do(t, http.MethodPut, path, authorToken, api.UpdateContentRequest{Title: &title})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var detail quill.ContentDetail
		decodeJSON(t, rec, &detail)
		assert.Equal(t, "Renamed", detail.Content.Title)
	})

	t.Run("unpublish reverts to draft", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/contents/%s/unpublish", created.Content.ID)
		rec := env.do(t, http.MethodPost, path, editorToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var detail quill.ContentDetail
		decodeJSON(t, rec, &detail)
		assert.Equal(t, quill.StatusDraft, detail.Content.Status)
		assert.Nil(t, detail.Content.PublishedAt)
	})

	t.Run("delete", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/contents/%s", created.Content.ID)
		rec := env.do(t, http.MethodDelete, path, authorToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func uploadFile(t *testing.T, env *testEnv, token, filename, body string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestMediaEndpoints(t *testing.T) {
	env := setupTestRouter(t)

	ownerToken := env.registerToken(t, "owner", quill.RoleAuthor)
	otherToken := env.registerToken(t, "other", quill.RoleAuthor)
	adminToken := env.registerToken(t, "root", quill.RoleAdmin)

	var media quill.Media

	t.Run("upload", func(t *testing.T) {
		rec := uploadFile(t, env, ownerToken, "notes.txt", "hello media")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		decodeJSON(t, rec, &media)
		assert.Equal(t, "notes.txt", media.Filename)
	})

	t.Run("anonymous upload is unauthorized", func(t *testing.T) {
		rec := uploadFile(t, env, "", "x.txt", "x")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("file streaming", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/media/%s/file", media.ID)
		rec := env.do(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "hello media", rec.Body.String())
	})

	t.Run("list", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/media", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var items []quill.Media
		decodeJSON(t, rec, &items)
		assert.Len(t, items, 1)
	})

	t.Run("another author may not delete", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/media/%s", media.ID)
		rec := env.do(t, http.MethodDelete, path, otherToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin deletes", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/media/%s", media.ID)
		rec := env.do(t, http.MethodDelete, path, adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
