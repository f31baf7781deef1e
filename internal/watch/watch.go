// Package watch subscribes to the server's change feed and reports each
// change as it arrives.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/url"
	"slices"
	"strings"
	"time"

	ws "github.com/coder/websocket"

	"github.com/dukerupert/shoplist/internal/model"
)

// FeedURL derives the websocket endpoint from the REST base URL:
// http becomes ws, https becomes wss, and "/ws" is appended.
func FeedURL(baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path += "/ws"
	return u.String(), nil
}

// Subscribe connects to the change feed and calls fn for every change
// until ctx ends or the server closes the connection. A normal closure
// or canceled context returns nil.
func Subscribe(ctx context.Context, feedURL string, logger *slog.Logger, fn func(model.Change)) error {
	conn, _, err := ws.Dial(ctx, feedURL, nil)
	if err != nil {
		return fmt.Errorf("dial change feed: %w", err)
	}
	defer conn.CloseNow()
	logger.Info("subscribed to change feed", "url", feedURL)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil || ws.CloseStatus(err) == ws.StatusNormalClosure || ws.CloseStatus(err) == ws.StatusGoingAway {
				return nil
			}
			return fmt.Errorf("read change feed: %w", err)
		}

		var change model.Change
		if err := json.Unmarshal(data, &change); err != nil {
			logger.Warn("malformed change", "error", err)
			continue
		}
		fn(change)
	}
}

// Printer writes one line per change.
type Printer struct {
	w   io.Writer
	now func() time.Time
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, now: time.Now}
}

// Print formats change as "15:04:05 shopping_item created #12 list_id=3".
func (p *Printer) Print(change model.Change) {
	line := fmt.Sprintf("%s %s %s", p.now().Format(time.TimeOnly), change.Entity, change.Action)
	if change.ID != 0 {
		line += fmt.Sprintf(" #%d", change.ID)
	}
	for _, k := range slices.Sorted(maps.Keys(change.Extra)) {
		line += fmt.Sprintf(" %s=%v", k, change.Extra[k])
	}
	fmt.Fprintln(p.w, line)
}
