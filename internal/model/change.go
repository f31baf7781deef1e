package model

import "fmt"

// Entities and actions reported on the change feed.
const (
	EntityList    = "shopping_list"
	EntityItem    = "shopping_item"
	EntityHistory = "list_history"

	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
	ChangeDone    = "done"
	ChangeReused  = "reused"
)

// Change is a notification pushed to change-feed subscribers after a
// mutation. It carries identifiers only; subscribers re-fetch what they
// need.
type Change struct {
	Type   string         `json:"type"`
	Entity string         `json:"entity"`
	Action string         `json:"action"`
	ID     int64          `json:"id,omitempty"`
	Extra  map[string]any `json:"extra,omitempty"`
}

// NewChange creates a Change with Type derived from entity and action.
func NewChange(entity, action string, id int64, extra map[string]any) Change {
	return Change{
		Type:   fmt.Sprintf("%s_%s", entity, action),
		Entity: entity,
		Action: action,
		ID:     id,
		Extra:  extra,
	}
}
