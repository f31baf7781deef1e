package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/shoplist/internal/api"
	"github.com/dukerupert/shoplist/internal/database"
	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/store"
	"github.com/dukerupert/shoplist/internal/watch"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testServer struct {
	srv    *Server
	http   *httptest.Server
	client *api.Client
}

func setupTestServer(t *testing.T, cfg Config) *testServer {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	user, _, err := store.NewUserStore(db).EnsureDefault("user@example.com", "password123")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	srv := New(db, cfg, testLogger())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	client := api.NewClient(api.Config{
		BaseURL:    ts.URL + APIPrefix,
		UserID:     user.ID,
		HTTPClient: ts.Client(),
	})
	return &testServer{srv: srv, http: ts, client: client}
}

func TestHealth(t *testing.T) {
	ts := setupTestServer(t, Config{})
	resp, err := ts.http.Client().Get(ts.http.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing request id header")
	}
}

func TestClientRoundTrip(t *testing.T) {
	ts := setupTestServer(t, Config{})
	ctx := context.Background()
	c := ts.client

	list, err := c.CreateList(ctx, "Weekly Groceries")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}

	milk, err := c.CreateItem(ctx, list.ID, model.ItemFields{Name: "Milk", Quantity: 2, Unit: "l"})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if _, err := c.CreateItem(ctx, list.ID, model.ItemFields{Name: "Bread", Quantity: 1, Unit: "pcs"}); err != nil {
		t.Fatalf("create item: %v", err)
	}
	if _, err := c.UpdateItem(ctx, milk.ID, milk.Fields(), true); err != nil {
		t.Fatalf("update item: %v", err)
	}

	lists, err := c.ListLists(ctx)
	if err != nil {
		t.Fatalf("list lists: %v", err)
	}
	if len(lists) != 1 {
		t.Fatalf("lists = %d, want 1", len(lists))
	}
	if p := lists[0].Progress(); p.Purchased != 1 || p.Total != 2 || p.Percent() != 50 {
		t.Errorf("progress = %+v", p)
	}

	renamed, err := c.UpdateList(ctx, list.ID, "Weekend Groceries")
	if err != nil || renamed.Name != "Weekend Groceries" {
		t.Fatalf("rename = %+v, %v", renamed, err)
	}

	archived, err := c.MarkListDone(ctx, list.ID)
	if err != nil {
		t.Fatalf("mark done: %v", err)
	}
	if len(archived.Items) != 2 {
		t.Errorf("archived items = %d, want 2", len(archived.Items))
	}
	if _, err := c.GetList(ctx, list.ID); err == nil {
		t.Error("archived list still fetchable")
	}

	history, err := c.ListHistory(ctx)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 1 || !history[0].Reusable() {
		t.Fatalf("history = %+v", history)
	}
	if name := model.DecodeSnapshot(history[0].Data).DisplayName(); name != "Weekend Groceries" {
		t.Errorf("snapshot name = %q", name)
	}

	reused, err := c.ReuseHistory(ctx, history[0].ID)
	if err != nil {
		t.Fatalf("reuse: %v", err)
	}
	if reused.Name != "Weekend Groceries" || len(reused.Items) != 2 {
		t.Fatalf("reused = %+v", reused)
	}
	if p := reused.Progress(); p.Purchased != 0 {
		t.Errorf("reused list has %d purchased items", p.Purchased)
	}

	if err := c.DeleteItem(ctx, reused.Items[0].ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if err := c.DeleteList(ctx, reused.ID); err != nil {
		t.Fatalf("delete list: %v", err)
	}
	lists, err = c.ListLists(ctx)
	if err != nil || len(lists) != 0 {
		t.Errorf("lists after delete = %+v, %v", lists, err)
	}
}

func TestClientErrorsAreRequestFailed(t *testing.T) {
	ts := setupTestServer(t, Config{})

	_, err := ts.client.GetList(context.Background(), 404)
	var reqErr *api.RequestFailedError
	if !errors.As(err, &reqErr) {
		t.Fatalf("err = %T %v, want *api.RequestFailedError", err, err)
	}
	if reqErr.Error() != "Failed to fetch list" {
		t.Errorf("message = %q", reqErr.Error())
	}
}

func TestRateLimitedAPI(t *testing.T) {
	ts := setupTestServer(t, Config{RateLimit: 2})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := ts.client.ListLists(ctx); err != nil {
			t.Fatalf("request %d: %v", i+1, err)
		}
	}
	if _, err := ts.client.ListLists(ctx); err == nil {
		t.Fatal("3rd request should be rate limited")
	}

	resp, err := ts.http.Client().Get(ts.http.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200 regardless of limit", resp.StatusCode)
	}
}

func TestChangeFeed(t *testing.T) {
	ts := setupTestServer(t, Config{})

	feedURL, err := watch.FeedURL(ts.client.BaseURL())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var mu sync.Mutex
	var changes []model.Change
	received := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- watch.Subscribe(ctx, feedURL, testLogger(), func(c model.Change) {
			mu.Lock()
			changes = append(changes, c)
			mu.Unlock()
			received <- struct{}{}
		})
	}()

	deadline := time.Now().Add(2 * time.Second)
	for ts.srv.Hub().ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	list, err := ts.client.CreateList(ctx, "Feed")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ts.client.MarkListDone(ctx, list.ID); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		select {
		case <-received:
		case <-ctx.Done():
			t.Fatal("timed out waiting for changes")
		}
	}

	mu.Lock()
	got := []string{changes[0].Type, changes[1].Type}
	mu.Unlock()
	if got[0] != "shopping_list_created" || got[1] != "shopping_list_done" {
		t.Errorf("changes = %v", got)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Subscribe returned %v after cancel", err)
	}
}
