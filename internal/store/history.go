package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dukerupert/shoplist/internal/model"
)

// HistoryLimit caps how many entries ListHistory returns.
const HistoryLimit = 50

// ReusedListName names a list cloned from a snapshot without a name.
const ReusedListName = "Reused List"

var (
	// ErrMalformedSnapshot is returned by ReuseHistory when the entry's
	// data is not a JSON object.
	ErrMalformedSnapshot = errors.New("malformed history snapshot")
	// ErrNotReusable is returned by ReuseHistory for entries that do not
	// record a finished list.
	ErrNotReusable = errors.New("history entry cannot be reused")
)

func scanHistory(scanner interface{ Scan(...any) error }) (*model.ListHistory, error) {
	var h model.ListHistory
	var original sql.NullInt64
	err := scanner.Scan(&h.ID, &h.UserID, &original, &h.Action, &h.Data, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	if original.Valid {
		h.OriginalListID = &original.Int64
	}
	return &h, nil
}

const historyCols = `id, user_id, original_list_id, action, data, created_at`

func (s *ShoppingStore) CreateHistory(userID int64, originalListID *int64, action, data string) (*model.ListHistory, error) {
	return createHistory(s.db, userID, originalListID, action, data)
}

func createHistory(q querier, userID int64, originalListID *int64, action, data string) (*model.ListHistory, error) {
	result, err := q.Exec(
		`INSERT INTO list_history (user_id, original_list_id, action, data) VALUES (?, ?, ?, ?)`,
		userID, originalListID, action, data,
	)
	if err != nil {
		return nil, fmt.Errorf("insert history: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return getHistory(q, id)
}

// GetHistory returns nil if the entry does not exist.
func (s *ShoppingStore) GetHistory(id int64) (*model.ListHistory, error) {
	return getHistory(s.db, id)
}

func getHistory(q querier, id int64) (*model.ListHistory, error) {
	row := q.QueryRow(`SELECT `+historyCols+` FROM list_history WHERE id = ?`, id)
	h, err := scanHistory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	return h, nil
}

// ListHistory returns the user's most recent entries, newest first.
func (s *ShoppingStore) ListHistory(userID int64) ([]model.ListHistory, error) {
	rows, err := s.db.Query(
		`SELECT `+historyCols+` FROM list_history WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		userID, HistoryLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	history := []model.ListHistory{}
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		history = append(history, *h)
	}
	return history, rows.Err()
}

// ArchiveList marks a list done: its name and items are snapshotted into
// a "created" history entry and the list is deleted. It returns the list
// as it was, or nil if it does not exist.
func (s *ShoppingStore) ArchiveList(id int64) (*model.ShoppingList, *model.ListHistory, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	list, err := getList(tx, id)
	if err != nil || list == nil {
		return nil, nil, err
	}

	data, err := model.NewSnapshot(*list).Encode()
	if err != nil {
		return nil, nil, fmt.Errorf("encode snapshot: %w", err)
	}
	entry, err := createHistory(tx, list.UserID, &list.ID, model.ActionCreated, data)
	if err != nil {
		return nil, nil, err
	}
	if _, err := deleteList(tx, id); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}

	// The list row is gone, so the entry's reference was nulled.
	entry.OriginalListID = nil
	return list, entry, nil
}

// ReuseHistory clones the list recorded by a "created" entry into a new
// list for userID, with every item unpurchased, and records a "reused"
// entry. It returns nil if the entry does not exist for userID.
func (s *ShoppingStore) ReuseHistory(historyID, userID int64) (*model.ShoppingList, *model.ListHistory, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	source, err := getHistory(tx, historyID)
	if err != nil {
		return nil, nil, err
	}
	if source == nil || source.UserID != userID {
		return nil, nil, nil
	}
	if !source.Reusable() {
		return nil, nil, ErrNotReusable
	}

	name, items, err := parseSnapshot(source.Data)
	if err != nil {
		return nil, nil, err
	}

	list, err := createList(tx, userID, name)
	if err != nil {
		return nil, nil, err
	}
	for _, item := range items {
		if _, err := insertItem(tx, list.ID, item, false); err != nil {
			return nil, nil, err
		}
	}

	data, err := json.Marshal(map[string]int64{
		"original_history_id": historyID,
		"new_list_id":         list.ID,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("encode reuse record: %w", err)
	}
	entry, err := createHistory(tx, userID, &list.ID, model.ActionReused, string(data))
	if err != nil {
		return nil, nil, err
	}

	list, err = getList(tx, list.ID)
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return list, entry, nil
}

// parseSnapshot reads a stored snapshot leniently: a missing or
// non-string name falls back to ReusedListName, and items that are not
// objects or have no name are skipped. Only a payload that is not a JSON
// object at all is an error.
func parseSnapshot(data string) (string, []model.ItemFields, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &raw); err != nil || raw == nil {
		return "", nil, ErrMalformedSnapshot
	}

	var name string
	if err := json.Unmarshal(raw["name"], &name); err != nil || name == "" {
		name = ReusedListName
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw["items"], &elements); err != nil {
		return name, nil, nil
	}

	items := make([]model.ItemFields, 0, len(elements))
	for _, element := range elements {
		var item model.SnapshotItem
		if err := json.Unmarshal(element, &item); err != nil || item.Name == "" {
			continue
		}
		fields := model.ItemFields{Name: item.Name, Quantity: item.Quantity, Unit: model.DefaultUnit}
		if item.Unit != nil && *item.Unit != "" {
			fields.Unit = *item.Unit
		}
		if fields.Quantity <= 0 {
			fields.Quantity = 1
		}
		items = append(items, fields)
	}
	return name, items, nil
}
