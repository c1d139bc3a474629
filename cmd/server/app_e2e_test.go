package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rafacas/dorkhub/internal/auth"
	"github.com/rafacas/dorkhub/internal/config"
	"github.com/rafacas/dorkhub/internal/db"
	"github.com/rafacas/dorkhub/internal/index"
	"github.com/rafacas/dorkhub/internal/models"
	"github.com/rafacas/dorkhub/internal/password"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type e2eEnv struct {
	app   *App
	db    *gorm.DB
	codec *auth.Codec
}

func setupE2E(t *testing.T) *e2eEnv {
	t.Helper()
	dbi, err := gorm.Open(sqlite.Open("file:e2e_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(dbi); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store, err := index.NewStore(dbi)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("store init: %v", err)
	}

	contentDir := t.TempDir()
	listPath := filepath.Join(contentDir, "lists", "a.txt")
	if err := os.MkdirAll(filepath.Dir(listPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(listPath, []byte("site:example.com filetype:pdf\ninurl:admin login\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := config.IndexConfig{
		ContentDir: contentDir,
		Sources:    []config.Source{{Name: "lists", Path: filepath.Join(contentDir, "lists")}},
	}
	indexer := index.NewIndexer(store, cfg)
	if err := indexer.Rebuild(context.Background()); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	codec := auth.NewCodec([]byte("e2e-secret"))
	app := NewApp(dbi, codec, index.NewEngine(store), indexer, []string{"lists"})
	return &e2eEnv{app: app, db: dbi, codec: codec}
}

func (env *e2eEnv) seedUser(t *testing.T, username, plain string, admin bool) models.User {
	t.Helper()
	hash, err := password.Hash(plain)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := models.User{Username: username, PasswordHash: hash, IsAdmin: admin, IsActive: true}
	if err := env.db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (env *e2eEnv) login(t *testing.T, username, plain string) *http.Cookie {
	t.Helper()
	form := url.Values{"username": {username}, "password": {plain}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	env.app.ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("login: expected 303, got %d body=%s", rr.Code, rr.Body.String())
	}
	for _, ck := range rr.Result().Cookies() {
		if ck.Name == auth.CookieName {
			return ck
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func TestAnonymousIsRedirectedToLogin(t *testing.T) {
	env := setupE2E(t)
	for _, path := range []string{"/", "/search?q=x", "/help", "/admin/users"} {
		rr := httptest.NewRecorder()
		env.app.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusSeeOther {
			t.Fatalf("%s: expected 303, got %d", path, rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != "/login" {
			t.Fatalf("%s: redirected to %q", path, loc)
		}
	}
}

func TestLoginSearchFlow(t *testing.T) {
	env := setupE2E(t)
	env.seedUser(t, "alice", "s3cret", false)
	cookie := env.login(t, "alice", "s3cret")

	req := httptest.NewRequest(http.MethodGet, "/search?q=filetype", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	env.app.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	if !strings.Contains(body, "site:example.com filetype:pdf") {
		t.Fatalf("matching dork missing from page: %s", body)
	}
	if strings.Contains(body, "inurl:admin login") {
		t.Fatal("non-matching dork rendered")
	}
}

func TestSearchAPIJSON(t *testing.T) {
	env := setupE2E(t)
	env.seedUser(t, "alice", "s3cret", false)
	cookie := env.login(t, "alice", "s3cret")

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=inurl&source=lists", nil)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	env.app.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "inurl:admin login") {
		t.Fatalf("expected hit in JSON body: %s", rr.Body.String())
	}
}

func TestAdminRoutesForbiddenForPlainUser(t *testing.T) {
	env := setupE2E(t)
	env.seedUser(t, "alice", "s3cret", false)
	cookie := env.login(t, "alice", "s3cret")

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	env.app.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/admin/reindex", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	env.app.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("reindex: expected 403, got %d", rr.Code)
	}
}

func TestAdminUserManagementFlow(t *testing.T) {
	env := setupE2E(t)
	env.seedUser(t, "root", "rootpw", true)
	cookie := env.login(t, "root", "rootpw")

	// Create a user through the full stack.
	form := url.Values{"username": {"bob"}, "password": {"bobpw"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/users/create", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	env.app.ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("create: expected 303, got %d", rr.Code)
	}

	// The new account can log in.
	env.login(t, "bob", "bobpw")

	// And shows up on the admin page.
	req = httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	env.app.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "bob") {
		t.Fatal("created user not listed")
	}
}

func TestMalformedQueryHandled(t *testing.T) {
	env := setupE2E(t)
	env.seedUser(t, "alice", "s3cret", false)
	cookie := env.login(t, "alice", "s3cret")

	req := httptest.NewRequest(http.MethodGet, "/search?q="+url.QueryEscape(`"unclosed`), nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	env.app.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("malformed query must be handled, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Could not parse") {
		t.Fatalf("expected query error message, body=%s", rr.Body.String())
	}
}

func TestStaleSecretCookieIsAnonymous(t *testing.T) {
	env := setupE2E(t)
	u := env.seedUser(t, "alice", "s3cret", false)

	stale := auth.NewCodec([]byte("previous-process-secret"))
	rec := httptest.NewRecorder()
	stale.SetSession(rec, u.ID)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range rec.Result().Cookies() {
		req.AddCookie(ck)
	}
	rr := httptest.NewRecorder()
	env.app.ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("stale-secret cookie must redirect to login, got %d", rr.Code)
	}
}
