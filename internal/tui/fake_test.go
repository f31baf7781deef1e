package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dukerupert/shoplist/internal/api"
	"github.com/dukerupert/shoplist/internal/model"
)

var _ Backend = (*api.Client)(nil)

var errBackend = &api.RequestFailedError{Op: "Failed to do the thing"}

// fakeBackend is an in-memory Backend. Each failing operation can be
// switched on by name; every call is recorded.
type fakeBackend struct {
	mu      sync.Mutex
	lists   []model.ShoppingList
	history []model.ListHistory
	nextID  int64
	fail    map[string]bool
	calls   []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{nextID: 100, fail: map[string]bool{}}
}

func (f *fakeBackend) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	if f.fail[op] {
		return errBackend
	}
	return nil
}

func (f *fakeBackend) id() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return f.nextID
}

func (f *fakeBackend) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, call := range f.calls {
		if call == op {
			n++
		}
	}
	return n
}

func (f *fakeBackend) ListLists(ctx context.Context) ([]model.ShoppingList, error) {
	if err := f.record("ListLists"); err != nil {
		return nil, err
	}
	return append([]model.ShoppingList{}, f.lists...), nil
}

func (f *fakeBackend) GetList(ctx context.Context, id int64) (*model.ShoppingList, error) {
	if err := f.record("GetList"); err != nil {
		return nil, err
	}
	for _, l := range f.lists {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeBackend) CreateList(ctx context.Context, name string) (*model.ShoppingList, error) {
	if err := f.record("CreateList"); err != nil {
		return nil, err
	}
	return &model.ShoppingList{ID: f.id(), UserID: 1, Name: name, Items: []model.ShoppingItem{}}, nil
}

func (f *fakeBackend) UpdateList(ctx context.Context, id int64, name string) (*model.ShoppingList, error) {
	if err := f.record("UpdateList"); err != nil {
		return nil, err
	}
	return &model.ShoppingList{ID: id, UserID: 1, Name: name, Items: []model.ShoppingItem{}}, nil
}

func (f *fakeBackend) DeleteList(ctx context.Context, id int64) error {
	return f.record("DeleteList")
}

func (f *fakeBackend) MarkListDone(ctx context.Context, id int64) (*model.ShoppingList, error) {
	if err := f.record("MarkListDone"); err != nil {
		return nil, err
	}
	return &model.ShoppingList{ID: id, UserID: 1}, nil
}

func (f *fakeBackend) CreateItem(ctx context.Context, listID int64, fields model.ItemFields) (*model.ShoppingItem, error) {
	if err := f.record("CreateItem"); err != nil {
		return nil, err
	}
	return &model.ShoppingItem{
		ID: f.id(), ListID: listID, Name: fields.Name, Quantity: fields.Quantity, Unit: fields.Unit,
	}, nil
}

func (f *fakeBackend) UpdateItem(ctx context.Context, id int64, fields model.ItemFields, purchased bool) (*model.ShoppingItem, error) {
	if err := f.record("UpdateItem"); err != nil {
		return nil, err
	}
	return &model.ShoppingItem{
		ID: id, Name: fields.Name, Quantity: fields.Quantity, Unit: fields.Unit, Purchased: purchased,
	}, nil
}

func (f *fakeBackend) DeleteItem(ctx context.Context, id int64) error {
	return f.record("DeleteItem")
}

func (f *fakeBackend) ListHistory(ctx context.Context) ([]model.ListHistory, error) {
	if err := f.record("ListHistory"); err != nil {
		return nil, err
	}
	return append([]model.ListHistory{}, f.history...), nil
}

func (f *fakeBackend) ReuseHistory(ctx context.Context, historyID int64) (*model.ShoppingList, error) {
	if err := f.record("ReuseHistory"); err != nil {
		return nil, err
	}
	return &model.ShoppingList{
		ID: f.id(), UserID: 1, Name: "Reused",
		Items: []model.ShoppingItem{{ID: f.id(), Name: "Eggs", Quantity: 12, Unit: "pcs"}},
	}, nil
}

// delayedMsg stands in for a tea.Tick: the harness parks it instead of
// sleeping so tests decide when time passes.
type delayedMsg struct {
	d   time.Duration
	msg tea.Msg
}

// harness drives a Model synchronously. Commands are executed inline and
// their messages fed back into Update; delayed messages are parked in
// pending until fire is called.
type harness struct {
	t       *testing.T
	model   Model
	backend *fakeBackend
	pending []delayedMsg
}

func newHarness(t *testing.T, backend *fakeBackend) *harness {
	t.Helper()
	m := NewModel(backend, nil)
	m.delay = func(d time.Duration, msg tea.Msg) tea.Cmd {
		return func() tea.Msg { return delayedMsg{d: d, msg: msg} }
	}
	h := &harness{t: t, model: m, backend: backend}
	h.run(m.Init())
	return h
}

func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			h.t.Fatal("commands did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case delayedMsg:
			h.pending = append(h.pending, msg)
		case tea.QuitMsg:
		default:
			updated, more := h.model.Update(msg)
			h.model = updated.(Model)
			queue = append(queue, more)
		}
	}
}

func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	updated, cmd := h.model.Update(msg)
	h.model = updated.(Model)
	h.run(cmd)
}

func (h *harness) press(keys ...string) {
	h.t.Helper()
	for _, k := range keys {
		h.send(keyMsg(k))
	}
}

func (h *harness) typeText(text string) {
	h.t.Helper()
	for _, r := range text {
		if r == ' ' {
			h.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// fire delivers every parked message whose delay matches d.
func (h *harness) fire(d time.Duration) {
	h.t.Helper()
	var keep, due []delayedMsg
	for _, p := range h.pending {
		if p.d == d {
			due = append(due, p)
		} else {
			keep = append(keep, p)
		}
	}
	h.pending = keep
	for _, p := range due {
		h.send(p.msg)
	}
}

func (h *harness) hasPending(d time.Duration) bool {
	for _, p := range h.pending {
		if p.d == d {
			return true
		}
	}
	return false
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}
