// Package handler implements the JSON REST API for shopping lists,
// their items, and list history.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/shoplist/internal/store"
)

// Publisher receives a notification after every successful mutation.
type Publisher interface {
	Publish(entity, action string, id int64, extra map[string]any)
}

func parseIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}

// userIDQuery reads the required user_id query parameter.
func userIDQuery(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeOptional decodes a JSON body into v, treating an empty body as
// no fields set.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Health reports that the server is up.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireUser writes a 404 and returns false if userID does not exist.
func requireUser(w http.ResponseWriter, users *store.UserStore, logger *slog.Logger, userID int64) bool {
	ok, err := users.Exists(userID)
	if err != nil {
		logger.Error("failed to look up user", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to look up user")
		return false
	}
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return false
	}
	return true
}
