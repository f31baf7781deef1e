package model

import (
	"math"
	"time"
)

// DefaultUnit is applied to items submitted without a unit.
const DefaultUnit = "pcs"

type ShoppingItem struct {
	ID        int64     `json:"id,omitempty"`
	ListID    int64     `json:"list_id,omitempty"`
	Name      string    `json:"name"`
	Quantity  float64   `json:"quantity"`
	Unit      string    `json:"unit"`
	Purchased bool      `json:"purchased"`
	CreatedAt time.Time `json:"created_at"`
}

type ShoppingList struct {
	ID        int64          `json:"id,omitempty"`
	UserID    int64          `json:"user_id,omitempty"`
	Name      string         `json:"name"`
	Items     []ShoppingItem `json:"items"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ItemFields are the user-editable fields of an item.
type ItemFields struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Fields returns the editable fields of the item.
func (i ShoppingItem) Fields() ItemFields {
	return ItemFields{Name: i.Name, Quantity: i.Quantity, Unit: i.Unit}
}

// Progress counts purchased items against the total.
type Progress struct {
	Purchased int
	Total     int
}

// ProgressOf derives progress from an item collection.
func ProgressOf(items []ShoppingItem) Progress {
	p := Progress{Total: len(items)}
	for _, item := range items {
		if item.Purchased {
			p.Purchased++
		}
	}
	return p
}

// Percent returns the rounded percentage of purchased items, 0 for an empty list.
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(p.Purchased) / float64(p.Total)))
}

// Progress derives the list's purchase progress from its items.
func (l ShoppingList) Progress() Progress {
	return ProgressOf(l.Items)
}

// LastTouched returns UpdatedAt, falling back to CreatedAt.
func (l ShoppingList) LastTouched() time.Time {
	if !l.UpdatedAt.IsZero() {
		return l.UpdatedAt
	}
	return l.CreatedAt
}
