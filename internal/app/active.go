package app

import (
	"slices"

	"github.com/dukerupert/shoplist/internal/model"
)

// ActiveList is the local state of the list open for item editing. Items
// is the single source of truth for rendering while the list is active.
type ActiveList struct {
	List  model.ShoppingList
	Items []model.ShoppingItem
	// Busy is set while an API call for this view is in flight.
	Busy bool
	// Finished is set once the list was marked done or deleted; the view
	// only waits to return to the overview.
	Finished bool
	Error    Notice
	Success  Notice
}

// NewActiveList seeds the local item collection from l.
func NewActiveList(l model.ShoppingList) *ActiveList {
	items := slices.Clone(l.Items)
	if items == nil {
		items = []model.ShoppingItem{}
	}
	return &ActiveList{List: l, Items: items}
}

// Progress is derived from the current local items.
func (a *ActiveList) Progress() model.Progress {
	return model.ProgressOf(a.Items)
}

// Snapshot returns the list carrying the current local items.
func (a *ActiveList) Snapshot() model.ShoppingList {
	l := a.List
	l.Items = slices.Clone(a.Items)
	return l
}

// Persisted reports whether list-level actions can be issued.
func (a *ActiveList) Persisted() bool {
	return a.List.ID != 0
}

// Interactive reports whether user actions are accepted.
func (a *ActiveList) Interactive() bool {
	return !a.Busy && !a.Finished
}

// CanMarkDone reports whether the done action is available.
func (a *ActiveList) CanMarkDone() bool {
	return a.Interactive() && a.Persisted() && len(a.Items) > 0
}

func (a *ActiveList) ApplyCreated(item model.ShoppingItem) {
	a.Items = AppendItem(a.Items, item)
}

func (a *ActiveList) ApplyUpdated(id int64, item model.ShoppingItem) {
	a.Items = ReplaceItem(a.Items, id, item)
}

func (a *ActiveList) ApplyDeleted(id int64) {
	a.Items = RemoveItem(a.Items, id)
}

func (a *ActiveList) ApplyRenamed(name string) {
	a.List.Name = name
}

// AppendItem returns a new collection with item added at the end.
func AppendItem(items []model.ShoppingItem, item model.ShoppingItem) []model.ShoppingItem {
	out := make([]model.ShoppingItem, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item)
}

// ReplaceItem returns a new collection with the entry identified by id
// replaced in place. Order is preserved.
func ReplaceItem(items []model.ShoppingItem, id int64, item model.ShoppingItem) []model.ShoppingItem {
	out := slices.Clone(items)
	for i := range out {
		if out[i].ID == id {
			out[i] = item
		}
	}
	return out
}

// RemoveItem returns a new collection without the entry identified by id.
func RemoveItem(items []model.ShoppingItem, id int64) []model.ShoppingItem {
	out := make([]model.ShoppingItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}
