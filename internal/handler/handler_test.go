package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futurnod/siteapi/internal/auth"
	"github.com/futurnod/siteapi/internal/cache"
	"github.com/futurnod/siteapi/internal/contact"
	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/notify"
	"github.com/futurnod/siteapi/internal/session"
	"github.com/futurnod/siteapi/internal/store/local"
)

// testServer wires the full API over a fresh local store.
type testServer struct {
	*httptest.Server
	client *http.Client
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := local.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, local.Migrate(db))

	stores, kv := local.NewStores(db)
	require.NoError(t, local.Seed(context.Background(), kv))

	dispatcher := notify.NewDispatcher(notify.LogSender{}, nil, notify.Config{Workers: 1})
	dispatcher.Start(context.Background())
	t.Cleanup(dispatcher.Stop)

	mem := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { _ = mem.Close() })

	h := New(
		stores,
		session.New(db, true),
		auth.NewService(stores.Users),
		contact.NewService(stores.Contacts, dispatcher, "admin@futurnod.com", "noreply@futurnod.com"),
		nil,
		kv,
		mem,
		time.Minute,
		"local",
	)

	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testServer{
		Server: srv,
		client: &http.Client{Jar: jar},
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.URL+path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (s *testServer) login(t *testing.T) {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "admin", "password": "admin123"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func (s *testServer) firstCategoryID(t *testing.T) string {
	t.Helper()
	resp := s.do(t, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	categories := decodeBody[[]model.Category](t, resp)
	require.NotEmpty(t, categories)
	return categories[0].ID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "local", body["backend"])
}

func TestLoginFlow(t *testing.T) {
	s := newTestServer(t)

	// Anonymous /me is rejected.
	resp := s.do(t, http.MethodGet, "/api/auth/me", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Bad password.
	resp = s.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "admin", "password": "wrong"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Good credentials open a session.
	s.login(t)

	resp = s.do(t, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decodeBody[model.AdminUser](t, resp)
	assert.Equal(t, "admin", me.Username)
	assert.Equal(t, model.RoleAdmin, me.Role)

	// Logout closes it again.
	resp = s.do(t, http.MethodPost, "/api/auth/logout", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/auth/me", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminEndpointsRequireAuth(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/api/admin/posts", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/admin/posts", model.PostForm{Title: "x"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPostLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.login(t)
	categoryID := s.firstCategoryID(t)

	// Create a draft.
	resp := s.do(t, http.MethodPost, "/api/admin/posts", model.PostForm{
		Title:      "Shipping Faster with Automation",
		Excerpt:    "How we cut lead time",
		Content:    "Some **markdown** content about automation.",
		CategoryID: categoryID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[model.Post](t, resp)
	assert.Equal(t, "shipping-faster-with-automation", created.Slug)
	assert.Equal(t, model.PostStatusDraft, created.Status)
	assert.Nil(t, created.PublishedAt)

	// Drafts are invisible publicly.
	resp = s.do(t, http.MethodGet, "/api/posts?limit=100", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody[[]model.Post](t, resp))

	// Publish it.
	status := model.PostStatusPublished
	resp = s.do(t, http.MethodPut, "/api/admin/posts/"+created.ID, model.PostPatch{Status: &status})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody[model.Post](t, resp)
	require.NotNil(t, updated.PublishedAt)

	// Now it shows up publicly, with rendered content on the detail view.
	resp = s.do(t, http.MethodGet, "/api/posts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	published := decodeBody[[]model.Post](t, resp)
	require.Len(t, published, 1)

	resp = s.do(t, http.MethodGet, "/api/posts/slug/"+created.Slug, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decodeBody[postResponse](t, resp)
	assert.Contains(t, detail.ContentHTML, "<strong>markdown</strong>")

	// Delete and confirm 404s.
	resp = s.do(t, http.MethodDelete, "/api/admin/posts/"+created.ID, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/posts/"+created.ID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodDelete, "/api/admin/posts/"+created.ID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreatePostValidation(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	resp := s.do(t, http.MethodPost, "/api/admin/posts", model.PostForm{Excerpt: "no title"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var envelope struct {
		Error struct {
			Code    string            `json:"code"`
			Message string            `json:"message"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	resp.Body.Close()
	assert.Equal(t, "validation_error", envelope.Error.Code)
	assert.Contains(t, envelope.Error.Details, "title")
}

func TestPublicListCacheInvalidation(t *testing.T) {
	s := newTestServer(t)
	s.login(t)
	categoryID := s.firstCategoryID(t)

	// Warm the cache with the empty list.
	resp := s.do(t, http.MethodGet, "/api/posts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody[[]model.Post](t, resp))

	resp = s.do(t, http.MethodPost, "/api/admin/posts", model.PostForm{
		Title:      "Cache Busting",
		Excerpt:    "e",
		Content:    "c",
		CategoryID: categoryID,
		Status:     model.PostStatusPublished,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// The write must have evicted the cached empty list.
	resp = s.do(t, http.MethodGet, "/api/posts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBody[[]model.Post](t, resp), 1)
}

func TestContactSubmission(t *testing.T) {
	s := newTestServer(t)

	// Invalid form is rejected with field details.
	resp := s.do(t, http.MethodPost, "/api/contact", model.ContactForm{
		Name:  "A",
		Email: "not-an-email",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Valid form is accepted and returns the submission id.
	resp = s.do(t, http.MethodPost, "/api/contact", model.ContactForm{
		Name:    "Jordan Blake",
		Email:   "jordan@example.com",
		Phone:   "+1 555 0100",
		Budget:  "10k-25k",
		Message: "We need a marketing site rebuilt from scratch.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.NotEmpty(t, body["id"])

	// Visible to a signed-in admin.
	s.login(t)
	resp = s.do(t, http.MethodGet, "/api/admin/contacts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	subs := decodeBody[[]model.ContactSubmission](t, resp)
	require.Len(t, subs, 1)
	assert.Equal(t, model.ContactStatusNew, subs[0].Status)

	// Status triage.
	resp = s.do(t, http.MethodPatch,
		fmt.Sprintf("/api/admin/contacts/%s/status", subs[0].ID),
		map[string]string{"status": "read"})
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestUseCaseEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	resp := s.do(t, http.MethodPost, "/api/admin/usecases", model.UseCaseForm{
		Title:       "Logistics Portal",
		Description: "Fleet visibility",
		Content:     "## Results\nOn-time delivery up 12%.",
		Industry:    "Logistics",
		Category:    "Platform",
		Status:      model.UseCaseStatusPublished,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[model.UseCase](t, resp)
	assert.Equal(t, []string{"Logistics"}, created.Industries)
	assert.Equal(t, "Logistics", created.Industry)

	resp = s.do(t, http.MethodGet, "/api/usecases", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBody[[]model.UseCase](t, resp), 1)

	resp = s.do(t, http.MethodGet, "/api/usecases/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decodeBody[useCaseResponse](t, resp)
	assert.Contains(t, detail.ContentHTML, "<h2")
}

func TestUserManagementRequiresAdminRole(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	// Create a non-admin account.
	resp := s.do(t, http.MethodPost, "/api/admin/users", model.AdminUserForm{
		Username: "editor",
		Password: "editor-pass-1",
		Role:     model.RoleUser,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Sign in as the non-admin; user management is forbidden.
	resp = s.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "editor", "password": "editor-pass-1"})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/admin/users", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Content editing is still allowed.
	resp = s.do(t, http.MethodGet, "/api/admin/posts", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCannotDeleteOwnAccount(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	resp := s.do(t, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decodeBody[model.AdminUser](t, resp)

	resp = s.do(t, http.MethodDelete, "/api/admin/users/"+me.ID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMigrationRefusedWithoutRemote(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	resp := s.do(t, http.MethodPost, "/api/admin/migration", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	resp.Body.Close()
	assert.Equal(t, "remote_not_configured", envelope.Error.Code)
}

func TestMalformedBodyRejected(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	req, err := http.NewRequest(http.MethodPost, s.URL+"/api/admin/posts",
		bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
