package watch

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/coder/websocket"

	"github.com/dukerupert/shoplist/internal/model"
)

func TestFeedURL(t *testing.T) {
	tests := []struct {
		base string
		want string
		ok   bool
	}{
		{"http://localhost:8080/api/v1", "ws://localhost:8080/api/v1/ws", true},
		{"https://lists.example.com/api/v1/", "wss://lists.example.com/api/v1/ws", true},
		{"ftp://example.com", "", false},
	}
	for _, tt := range tests {
		got, err := FeedURL(tt.base)
		if (err == nil) != tt.ok {
			t.Errorf("FeedURL(%q) err = %v, want ok=%v", tt.base, err, tt.ok)
			continue
		}
		if got != tt.want {
			t.Errorf("FeedURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestSubscribeDeliversChanges(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, nil)
		if err != nil {
			return
		}
		ctx := r.Context()
		conn.Write(ctx, ws.MessageText, []byte(`{"type":"shopping_list_created","entity":"shopping_list","action":"created","id":1}`))
		conn.Write(ctx, ws.MessageText, []byte(`not json`))
		conn.Write(ctx, ws.MessageText, []byte(`{"type":"shopping_item_deleted","entity":"shopping_item","action":"deleted","id":9}`))
		conn.Close(ws.StatusNormalClosure, "bye")
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var got []model.Change
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := Subscribe(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), logger, func(c model.Change) {
		got = append(got, c)
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("changes = %d, want 2 (malformed one skipped)", len(got))
	}
	if got[0].Type != "shopping_list_created" || got[1].ID != 9 {
		t.Errorf("changes = %+v", got)
	}
}

func TestSubscribeDialFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := Subscribe(ctx, "ws://127.0.0.1:1/ws", logger, func(model.Change) {}); err == nil {
		t.Fatal("expected dial error")
	}
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 5, 0, time.UTC) }

	p.Print(model.NewChange(model.EntityItem, model.ChangeCreated, 12, map[string]any{"list_id": 3, "a": "b"}))

	want := "09:30:05 shopping_item created #12 a=b list_id=3\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
