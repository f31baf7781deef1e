package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/dukerupert/shoplist/internal/database"
	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/store"
)

type recordingPublisher struct {
	mu      sync.Mutex
	changes []model.Change
}

func (p *recordingPublisher) Publish(entity, action string, id int64, extra map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, model.NewChange(entity, action, id, extra))
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, c := range p.changes {
		out = append(out, c.Type)
	}
	return out
}

type testEnv struct {
	mux   *http.ServeMux
	lists *store.ShoppingStore
	user  *model.User
	pub   *recordingPublisher
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	users := store.NewUserStore(db)
	user, _, err := users.EnsureDefault("user@example.com", "password123")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	lists := store.NewShoppingStore(db)
	pub := &recordingPublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	lh := NewListHandler(lists, users, pub, logger)
	ih := NewItemHandler(lists, pub, logger)
	hh := NewHistoryHandler(lists, users, pub, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /lists", lh.Create)
	mux.HandleFunc("GET /lists", lh.List)
	mux.HandleFunc("GET /lists/{id}", lh.Get)
	mux.HandleFunc("PUT /lists/{id}", lh.Update)
	mux.HandleFunc("DELETE /lists/{id}", lh.Delete)
	mux.HandleFunc("POST /lists/{id}/done", lh.Done)
	mux.HandleFunc("POST /items", ih.Create)
	mux.HandleFunc("PUT /items/{id}", ih.Update)
	mux.HandleFunc("DELETE /items/{id}", ih.Delete)
	mux.HandleFunc("GET /history", hh.List)
	mux.HandleFunc("POST /history/reuse/{id}", hh.Reuse)
	mux.HandleFunc("GET /health", Health)

	return &testEnv{mux: mux, lists: lists, user: user, pub: pub}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

func (e *testEnv) userQuery() string {
	return "?user_id=" + strconv.FormatInt(e.user.ID, 10)
}

func (e *testEnv) seedList(t *testing.T, name string, items ...string) *model.ShoppingList {
	t.Helper()
	l, err := e.lists.CreateList(e.user.ID, name)
	if err != nil {
		t.Fatal(err)
	}
	for _, item := range items {
		if _, err := e.lists.CreateItem(l.ID, model.ItemFields{Name: item, Quantity: 1, Unit: "pcs"}, false); err != nil {
			t.Fatal(err)
		}
	}
	l, err = e.lists.GetList(l.ID)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestHealth(t *testing.T) {
	env := setupTestEnv(t)
	rec := env.do(t, "GET", "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode[map[string]string](t, rec); got["status"] != "ok" {
		t.Errorf("body = %v", got)
	}
}

func TestErrorBodyShape(t *testing.T) {
	env := setupTestEnv(t)
	rec := env.do(t, "GET", "/lists/abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := decode[map[string]string](t, rec); got["error"] != "invalid id" {
		t.Errorf("body = %v", got)
	}
}
