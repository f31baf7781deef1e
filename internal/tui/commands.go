package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dukerupert/shoplist/internal/model"
)

// Backend is the remote list service as the views use it. *api.Client
// satisfies it; tests substitute a fake.
type Backend interface {
	ListLists(ctx context.Context) ([]model.ShoppingList, error)
	GetList(ctx context.Context, id int64) (*model.ShoppingList, error)
	CreateList(ctx context.Context, name string) (*model.ShoppingList, error)
	UpdateList(ctx context.Context, id int64, name string) (*model.ShoppingList, error)
	DeleteList(ctx context.Context, id int64) error
	MarkListDone(ctx context.Context, id int64) (*model.ShoppingList, error)
	CreateItem(ctx context.Context, listID int64, fields model.ItemFields) (*model.ShoppingItem, error)
	UpdateItem(ctx context.Context, id int64, fields model.ItemFields, purchased bool) (*model.ShoppingItem, error)
	DeleteItem(ctx context.Context, id int64) error
	ListHistory(ctx context.Context) ([]model.ListHistory, error)
	ReuseHistory(ctx context.Context, historyID int64) (*model.ShoppingList, error)
}

// Results of backend calls, delivered to Update by the bubbletea loop.
type (
	listsLoadedMsg struct {
		lists []model.ShoppingList
		err   error
	}
	historyLoadedMsg struct {
		history []model.ListHistory
		err     error
	}
	listCreatedMsg struct {
		list *model.ShoppingList
		err  error
	}
	listFetchedMsg struct {
		list *model.ShoppingList
		err  error
	}
	reusedMsg struct {
		list *model.ShoppingList
		err  error
	}
)

// Results of calls issued by an active list view. view identifies the
// issuer so a result arriving after the view closed is dropped.
type (
	itemCreatedMsg struct {
		view *activeView
		item *model.ShoppingItem
		err  error
	}
	itemUpdatedMsg struct {
		view *activeView
		id   int64
		item *model.ShoppingItem
		err  error
	}
	itemDeletedMsg struct {
		view *activeView
		id   int64
		err  error
	}
	listDoneMsg struct {
		view *activeView
		list *model.ShoppingList
		err  error
	}
	listDeletedMsg struct {
		view *activeView
		err  error
	}
	listRenamedMsg struct {
		view *activeView
		list *model.ShoppingList
		err  error
	}
	// returnMsg is sent after a finished list lingered long enough.
	returnMsg struct {
		view *activeView
	}
)

// noticeTarget names which transient message an expiry belongs to.
type noticeTarget int

const (
	targetRoot noticeTarget = iota
	targetOverview
	targetHistory
	targetActiveError
	targetActiveSuccess
)

// noticeExpiredMsg clears a transient message unless it has since been
// replaced.
type noticeExpiredMsg struct {
	target noticeTarget
	seq    uint64
	view   *activeView
}

// delayFunc schedules msg for delivery after d.
type delayFunc func(d time.Duration, msg tea.Msg) tea.Cmd

func tickAfter(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return msg
	})
}

func loadLists(backend Backend) tea.Cmd {
	return func() tea.Msg {
		lists, err := backend.ListLists(context.Background())
		return listsLoadedMsg{lists: lists, err: err}
	}
}

func loadHistory(backend Backend) tea.Cmd {
	return func() tea.Msg {
		history, err := backend.ListHistory(context.Background())
		return historyLoadedMsg{history: history, err: err}
	}
}

func createList(backend Backend, name string) tea.Cmd {
	return func() tea.Msg {
		list, err := backend.CreateList(context.Background(), name)
		return listCreatedMsg{list: list, err: err}
	}
}

func fetchList(backend Backend, id int64) tea.Cmd {
	return func() tea.Msg {
		list, err := backend.GetList(context.Background(), id)
		return listFetchedMsg{list: list, err: err}
	}
}

func reuseHistory(backend Backend, id int64) tea.Cmd {
	return func() tea.Msg {
		list, err := backend.ReuseHistory(context.Background(), id)
		return reusedMsg{list: list, err: err}
	}
}

func createItem(backend Backend, view *activeView, listID int64, fields model.ItemFields) tea.Cmd {
	return func() tea.Msg {
		item, err := backend.CreateItem(context.Background(), listID, fields)
		return itemCreatedMsg{view: view, item: item, err: err}
	}
}

func updateItem(backend Backend, view *activeView, item model.ShoppingItem, purchased bool) tea.Cmd {
	return func() tea.Msg {
		updated, err := backend.UpdateItem(context.Background(), item.ID, item.Fields(), purchased)
		return itemUpdatedMsg{view: view, id: item.ID, item: updated, err: err}
	}
}

func deleteItem(backend Backend, view *activeView, id int64) tea.Cmd {
	return func() tea.Msg {
		err := backend.DeleteItem(context.Background(), id)
		return itemDeletedMsg{view: view, id: id, err: err}
	}
}

func markListDone(backend Backend, view *activeView, id int64) tea.Cmd {
	return func() tea.Msg {
		list, err := backend.MarkListDone(context.Background(), id)
		return listDoneMsg{view: view, list: list, err: err}
	}
}

func deleteList(backend Backend, view *activeView, id int64) tea.Cmd {
	return func() tea.Msg {
		err := backend.DeleteList(context.Background(), id)
		return listDeletedMsg{view: view, err: err}
	}
}

func renameList(backend Backend, view *activeView, id int64, name string) tea.Cmd {
	return func() tea.Msg {
		list, err := backend.UpdateList(context.Background(), id, name)
		return listRenamedMsg{view: view, list: list, err: err}
	}
}
