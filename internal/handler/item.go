package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/store"
)

type ItemHandler struct {
	lists  *store.ShoppingStore
	hub    Publisher
	logger *slog.Logger
}

func NewItemHandler(ls *store.ShoppingStore, hub Publisher, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{lists: ls, hub: hub, logger: logger}
}

func (h *ItemHandler) broadcast(action string, item *model.ShoppingItem) {
	if h.hub != nil {
		h.hub.Publish(model.EntityItem, action, item.ID, map[string]any{"list_id": item.ListID})
	}
}

type itemRequest struct {
	ListID    int64   `json:"list_id"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	Purchased bool    `json:"purchased"`
}

// fields validates the editable fields and fills in the default unit.
func (req *itemRequest) fields() (model.ItemFields, string) {
	f := model.ItemFields{
		Name:     strings.TrimSpace(req.Name),
		Quantity: req.Quantity,
		Unit:     strings.TrimSpace(req.Unit),
	}
	if f.Name == "" {
		return f, "name is required"
	}
	if f.Quantity <= 0 {
		return f, "quantity must be greater than zero"
	}
	if f.Unit == "" {
		f.Unit = model.DefaultUnit
	}
	return f, ""
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.ListID <= 0 {
		writeError(w, http.StatusBadRequest, "list_id is required")
		return
	}
	fields, problem := req.fields()
	if problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}

	list, err := h.lists.GetList(req.ListID)
	if err != nil {
		h.logger.Error("failed to get list", "id", req.ListID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get list")
		return
	}
	if list == nil {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}

	item, err := h.lists.CreateItem(req.ListID, fields, req.Purchased)
	if err != nil {
		h.logger.Error("failed to create item", "list_id", req.ListID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	h.broadcast(model.ChangeCreated, item)

	writeJSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	fields, problem := req.fields()
	if problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}

	item, err := h.lists.UpdateItem(id, fields, req.Purchased)
	if err != nil {
		h.logger.Error("failed to update item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	h.broadcast(model.ChangeUpdated, item)

	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	item, err := h.lists.DeleteItem(id)
	if err != nil {
		h.logger.Error("failed to delete item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	h.broadcast(model.ChangeDeleted, item)

	w.WriteHeader(http.StatusNoContent)
}
