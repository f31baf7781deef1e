// Package server wires stores, handlers and the change hub into the HTTP
// router.
package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/shoplist/internal/handler"
	"github.com/dukerupert/shoplist/internal/middleware"
	"github.com/dukerupert/shoplist/internal/store"
	ws "github.com/dukerupert/shoplist/internal/websocket"
)

// APIPrefix is the path every REST route lives under.
const APIPrefix = "/api/v1"

type Config struct {
	// RateLimit is the number of API requests a client IP may make per
	// minute. Zero disables limiting.
	RateLimit int
	// OriginPatterns restricts websocket origins. Empty accepts any.
	OriginPatterns []string
}

type Server struct {
	cfg         Config
	hub         *ws.Hub
	listH       *handler.ListHandler
	itemH       *handler.ItemHandler
	historyH    *handler.HistoryHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	shoppingStore := store.NewShoppingStore(db)
	userStore := store.NewUserStore(db)

	return &Server{
		cfg:         cfg,
		hub:         hub,
		listH:       handler.NewListHandler(shoppingStore, userStore, hub, logger.With("component", "lists")),
		itemH:       handler.NewItemHandler(shoppingStore, hub, logger.With("component", "items")),
		historyH:    handler.NewHistoryHandler(shoppingStore, userStore, hub, logger.With("component", "history")),
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// Hub returns the change hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("GET "+APIPrefix+"/ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket"), s.cfg.OriginPatterns))

	// Shopping lists
	s.api(mux, "POST", "/lists", s.listH.Create)
	s.api(mux, "GET", "/lists", s.listH.List)
	s.api(mux, "GET", "/lists/{id}", s.listH.Get)
	s.api(mux, "PUT", "/lists/{id}", s.listH.Update)
	s.api(mux, "DELETE", "/lists/{id}", s.listH.Delete)
	s.api(mux, "POST", "/lists/{id}/done", s.listH.Done)

	// Items
	s.api(mux, "POST", "/items", s.itemH.Create)
	s.api(mux, "PUT", "/items/{id}", s.itemH.Update)
	s.api(mux, "DELETE", "/items/{id}", s.itemH.Delete)

	// History
	s.api(mux, "GET", "/history", s.historyH.List)
	s.api(mux, "POST", "/history/reuse/{id}", s.historyH.Reuse)

	return middleware.RequestLogger(s.logger.With("component", "http"))(middleware.CORS(mux))
}

// api registers a REST route under APIPrefix.
func (s *Server) api(mux *http.ServeMux, method, path string, h http.HandlerFunc) {
	var next http.Handler = h
	if s.cfg.RateLimit > 0 {
		limit := middleware.RateLimit(s.rateLimiter, middleware.RealIP, s.cfg.RateLimit, time.Minute)
		next = limit(next)
	}
	mux.Handle(method+" "+APIPrefix+path, next)
}
