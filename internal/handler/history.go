package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/store"
)

type HistoryHandler struct {
	lists  *store.ShoppingStore
	users  *store.UserStore
	hub    Publisher
	logger *slog.Logger
}

func NewHistoryHandler(ls *store.ShoppingStore, us *store.UserStore, hub Publisher, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{lists: ls, users: us, hub: hub, logger: logger}
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id query parameter required")
		return
	}
	if !requireUser(w, h.users, h.logger, userID) {
		return
	}

	history, err := h.lists.ListHistory(userID)
	if err != nil {
		h.logger.Error("failed to list history", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// Reuse clones a finished list back into an active one. The user comes
// from the user_id query parameter or, failing that, the JSON body.
func (h *HistoryHandler) Reuse(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	userID, ok := userIDQuery(r)
	if !ok {
		var req userRequest
		if err := decodeOptional(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		userID = req.UserID
	}
	if userID <= 0 {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	list, entry, err := h.lists.ReuseHistory(id, userID)
	switch {
	case errors.Is(err, store.ErrMalformedSnapshot):
		h.logger.Warn("history entry has malformed data", "id", id)
		writeError(w, http.StatusInternalServerError, "failed to parse history data")
		return
	case errors.Is(err, store.ErrNotReusable):
		writeError(w, http.StatusBadRequest, "history entry cannot be reused")
		return
	case err != nil:
		h.logger.Error("failed to reuse history", "id", id, "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reuse list")
		return
	case list == nil:
		writeError(w, http.StatusNotFound, "history entry not found")
		return
	}

	if h.hub != nil {
		h.hub.Publish(model.EntityList, model.ChangeCreated, list.ID, map[string]any{"user_id": userID})
		h.hub.Publish(model.EntityHistory, model.ChangeReused, entry.ID, map[string]any{
			"original_history_id": id,
			"new_list_id":         list.ID,
		})
	}

	writeJSON(w, http.StatusCreated, list)
}
