package app

import (
	"slices"

	"github.com/dukerupert/shoplist/internal/model"
)

// View identifies which screen is showing.
type View int

const (
	ViewOverview View = iota
	ViewActive
	ViewHistory
)

func (v View) String() string {
	switch v {
	case ViewOverview:
		return "overview"
	case ViewActive:
		return "active"
	case ViewHistory:
		return "history"
	default:
		return "unknown"
	}
}

// Effect is a follow-up load the caller must perform after a reduction.
type Effect int

const (
	EffectLoadLists Effect = iota + 1
	EffectLoadHistory
)

func (e Effect) String() string {
	switch e {
	case EffectLoadLists:
		return "load_lists"
	case EffectLoadHistory:
		return "load_history"
	default:
		return "unknown"
	}
}

// State is the root controller's state.
type State struct {
	View    View
	Lists   []model.ShoppingList
	History []model.ListHistory
	// Active is the list open for editing, nil outside the active view.
	Active  *model.ShoppingList
	Loading bool
	Error   Notice
}

// Event is something a view reports to the root controller.
type Event interface {
	event()
}

type (
	ListsLoaded   struct{ Lists []model.ShoppingList }
	HistoryLoaded struct{ History []model.ListHistory }
	// ListCreated is reported by the overview after a successful create.
	ListCreated struct{ List model.ShoppingList }
	// ListOpened carries the full list (with items) to make active.
	ListOpened struct{ List model.ShoppingList }
	ListUpdated struct{ List model.ShoppingList }
	// ListDeleted removes the currently active list.
	ListDeleted   struct{}
	ListReused    struct{ List model.ShoppingList }
	ActiveClosed  struct{}
	HistoryOpened struct{}
	HistoryClosed struct{}
)

func (ListsLoaded) event()   {}
func (HistoryLoaded) event() {}
func (ListCreated) event()   {}
func (ListOpened) event()    {}
func (ListUpdated) event()   {}
func (ListDeleted) event()   {}
func (ListReused) event()    {}
func (ActiveClosed) event()  {}
func (HistoryOpened) event() {}
func (HistoryClosed) event() {}

// Reduce applies ev to s and returns the next state together with the
// loads the caller must trigger. s is not modified; slices in the
// result never alias slices in s when they differ.
func Reduce(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case ListsLoaded:
		s.Lists = nonNilLists(ev.Lists)
		return s, nil

	case HistoryLoaded:
		s.History = ev.History
		if s.History == nil {
			s.History = []model.ListHistory{}
		}
		return s, nil

	case ListCreated:
		s.Lists = prependList(s.Lists, ev.List)
		return s, nil

	case ListOpened:
		list := ev.List
		s.Active = &list
		s.View = ViewActive
		return s, nil

	case ListUpdated:
		if ev.List.ID != 0 {
			s.Lists = replaceList(s.Lists, ev.List)
		}
		return s, []Effect{EffectLoadHistory}

	case ListDeleted:
		if s.Active != nil && s.Active.ID != 0 {
			s.Lists = removeList(s.Lists, s.Active.ID)
		}
		return s, []Effect{EffectLoadHistory}

	case ListReused:
		s.Lists = prependList(s.Lists, ev.List)
		s.View = ViewOverview
		return s, nil

	case ActiveClosed:
		s.View = ViewOverview
		s.Active = nil
		return s, []Effect{EffectLoadLists}

	case HistoryOpened:
		s.View = ViewHistory
		return s, nil

	case HistoryClosed:
		s.View = ViewOverview
		return s, []Effect{EffectLoadLists}
	}
	return s, nil
}

func nonNilLists(lists []model.ShoppingList) []model.ShoppingList {
	if lists == nil {
		return []model.ShoppingList{}
	}
	return lists
}

func prependList(lists []model.ShoppingList, l model.ShoppingList) []model.ShoppingList {
	out := make([]model.ShoppingList, 0, len(lists)+1)
	out = append(out, l)
	return append(out, lists...)
}

func replaceList(lists []model.ShoppingList, l model.ShoppingList) []model.ShoppingList {
	out := slices.Clone(lists)
	for i := range out {
		if out[i].ID == l.ID {
			out[i] = l
		}
	}
	return out
}

func removeList(lists []model.ShoppingList, id int64) []model.ShoppingList {
	out := make([]model.ShoppingList, 0, len(lists))
	for _, l := range lists {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out
}
