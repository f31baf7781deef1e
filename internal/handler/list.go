package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/store"
)

type ListHandler struct {
	lists  *store.ShoppingStore
	users  *store.UserStore
	hub    Publisher
	logger *slog.Logger
}

func NewListHandler(ls *store.ShoppingStore, us *store.UserStore, hub Publisher, logger *slog.Logger) *ListHandler {
	return &ListHandler{lists: ls, users: us, hub: hub, logger: logger}
}

func (h *ListHandler) broadcast(action string, id int64, extra map[string]any) {
	if h.hub != nil {
		h.hub.Publish(model.EntityList, action, id, extra)
	}
}

type createListRequest struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}

type updateListRequest struct {
	Name string `json:"name"`
}

type userRequest struct {
	UserID int64 `json:"user_id"`
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if !requireUser(w, h.users, h.logger, req.UserID) {
		return
	}

	list, err := h.lists.CreateList(req.UserID, req.Name)
	if err != nil {
		h.logger.Error("failed to create list", "user_id", req.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create list")
		return
	}

	h.broadcast(model.ChangeCreated, list.ID, map[string]any{"user_id": list.UserID})

	writeJSON(w, http.StatusCreated, list)
}

func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id query parameter required")
		return
	}
	if !requireUser(w, h.users, h.logger, userID) {
		return
	}

	lists, err := h.lists.ListLists(userID)
	if err != nil {
		h.logger.Error("failed to list lists", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list lists")
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	list, err := h.lists.GetList(id)
	if err != nil {
		h.logger.Error("failed to get list", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get list")
		return
	}
	if list == nil {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	list, err := h.lists.RenameList(id, req.Name)
	if err != nil {
		h.logger.Error("failed to update list", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update list")
		return
	}
	if list == nil {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}

	h.broadcast(model.ChangeUpdated, id, nil)

	writeJSON(w, http.StatusOK, list)
}

func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	deleted, err := h.lists.DeleteList(id)
	if err != nil {
		h.logger.Error("failed to delete list", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete list")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}

	h.broadcast(model.ChangeDeleted, id, nil)

	w.WriteHeader(http.StatusNoContent)
}

// Done archives the list into history and removes it. A user_id in the
// body, when present, must own the list.
func (h *ListHandler) Done(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req userRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	existing, err := h.lists.GetList(id)
	if err != nil {
		h.logger.Error("failed to get list", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get list")
		return
	}
	if existing == nil || (req.UserID != 0 && existing.UserID != req.UserID) {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}

	list, entry, err := h.lists.ArchiveList(id)
	if err != nil {
		h.logger.Error("failed to archive list", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to mark list as done")
		return
	}
	if list == nil {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}

	h.logger.Info("list archived", "id", id, "history_id", entry.ID, "items", len(list.Items))
	h.broadcast(model.ChangeDone, id, map[string]any{"history_id": entry.ID})

	writeJSON(w, http.StatusOK, list)
}
