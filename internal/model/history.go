package model

import (
	"encoding/json"
	"errors"
	"time"
)

const (
	ActionCreated = "created"
	ActionReused  = "reused"
)

// PlaceholderListName is displayed for history entries whose snapshot has no name.
const PlaceholderListName = "Shopping List"

type ListHistory struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	OriginalListID *int64    `json:"original_list_id"`
	Action         string    `json:"action"`
	Data           string    `json:"data"`
	CreatedAt      time.Time `json:"created_at"`
}

// Reusable reports whether the entry can be cloned into a new list.
func (h ListHistory) Reusable() bool {
	return h.Action == ActionCreated
}

// SnapshotItem is an item as recorded in a history snapshot. Unit is
// nullable in stored snapshots.
type SnapshotItem struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      *string `json:"unit"`
	Purchased bool    `json:"purchased"`
}

// Snapshot is the serialized state of a list at the time of a history action.
type Snapshot struct {
	Name  string         `json:"name"`
	Items []SnapshotItem `json:"items"`
}

// NewSnapshot captures a list's name and items.
func NewSnapshot(l ShoppingList) Snapshot {
	s := Snapshot{Name: l.Name, Items: make([]SnapshotItem, 0, len(l.Items))}
	for _, item := range l.Items {
		unit := item.Unit
		s.Items = append(s.Items, SnapshotItem{
			ID:        item.ID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Unit:      &unit,
			Purchased: item.Purchased,
		})
	}
	return s
}

// Encode serializes the snapshot for storage in a history entry.
func (s Snapshot) Encode() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

var errSnapshotNotObject = errors.New("snapshot is not a JSON object")

// SnapshotResult is the outcome of decoding a history entry's data. When
// Err is set the zero Snapshot is used and display falls back to defaults.
type SnapshotResult struct {
	Snapshot Snapshot
	// HasItems is true only when the payload carried an items array.
	HasItems bool
	Err      error
}

// OK reports whether the payload decoded cleanly.
func (r SnapshotResult) OK() bool {
	return r.Err == nil
}

// DisplayName returns the snapshot name or the placeholder.
func (r SnapshotResult) DisplayName() string {
	if r.Snapshot.Name == "" {
		return PlaceholderListName
	}
	return r.Snapshot.Name
}

// ItemCount returns the number of items in the snapshot and whether a
// count is known at all.
func (r SnapshotResult) ItemCount() (int, bool) {
	if !r.HasItems {
		return 0, false
	}
	return len(r.Snapshot.Items), true
}

// DecodeSnapshot decodes history data without ever failing the caller.
// Fields of the wrong type are dropped individually so a partially valid
// payload still yields whatever can be read.
func DecodeSnapshot(data string) SnapshotResult {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return SnapshotResult{Err: err}
	}
	if raw == nil {
		return SnapshotResult{Err: errSnapshotNotObject}
	}

	var res SnapshotResult
	if name, ok := raw["name"]; ok {
		if err := json.Unmarshal(name, &res.Snapshot.Name); err != nil {
			res.Snapshot.Name = ""
		}
	}
	if items, ok := raw["items"]; ok {
		var decoded []json.RawMessage
		if err := json.Unmarshal(items, &decoded); err == nil && decoded != nil {
			res.HasItems = true
			for _, rawItem := range decoded {
				var item SnapshotItem
				if err := json.Unmarshal(rawItem, &item); err != nil {
					continue
				}
				res.Snapshot.Items = append(res.Snapshot.Items, item)
			}
		}
	}
	return res
}
