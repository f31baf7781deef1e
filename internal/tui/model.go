// Package tui is the interactive terminal client: an overview of the
// user's shopping lists, an editor for one active list, and the history
// of finished lists. All data lives in the remote service; views call
// the Backend and report mutations to the root model, which reconciles
// its collections through app.Reduce.
package tui

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dukerupert/shoplist/internal/app"
)

// Delays controls how long transient messages stay on screen.
type Delays struct {
	ItemNotice time.Duration
	ListNotice time.Duration
	Return     time.Duration
}

// DefaultDelays are the production timings.
var DefaultDelays = Delays{
	ItemNotice: app.ItemNoticeDelay,
	ListNotice: app.ListNoticeDelay,
	Return:     app.ReturnDelay,
}

// Model is the root bubbletea model. It owns the view mode and the
// top-level collections; per-view state lives in the view structs.
type Model struct {
	backend Backend
	logger  *slog.Logger
	keys    KeyMap
	theme   Theme
	delays  Delays
	delay   delayFunc

	state    app.State
	overview *overviewView
	active   *activeView
	history  *historyView

	width  int
	height int
}

// NewModel creates the root model. A nil logger discards output.
func NewModel(backend Backend, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return Model{
		backend:  backend,
		logger:   logger,
		keys:     DefaultKeyMap,
		theme:    DefaultTheme,
		delays:   DefaultDelays,
		delay:    tickAfter,
		state:    app.State{View: app.ViewOverview, Loading: true},
		overview: &overviewView{},
		history:  &historyView{},
		width:    80,
		height:   24,
	}
}

// Init loads lists and history concurrently.
func (model Model) Init() tea.Cmd {
	return tea.Batch(loadLists(model.backend), loadHistory(model.backend))
}

func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	if keyMessage, ok := message.(tea.KeyMsg); ok && keyMessage.Type == tea.KeyCtrlC {
		return model, tea.Quit
	}
	cmd := model.update(message)
	return model, cmd
}

func (model *Model) update(message tea.Msg) tea.Cmd {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		return nil

	case tea.KeyMsg:
		switch model.state.View {
		case app.ViewActive:
			return model.updateActive(message)
		case app.ViewHistory:
			return model.updateHistory(message)
		default:
			return model.updateOverview(message)
		}

	case listsLoadedMsg:
		model.state.Loading = false
		if message.err != nil {
			model.logger.Error("load lists", "error", message.err)
			seq := model.state.Error.Show(app.MsgLoadListsFailed)
			return model.expireAfter(model.delays.ListNotice, targetRoot, seq)
		}
		return model.dispatch(app.ListsLoaded{Lists: message.lists})

	case historyLoadedMsg:
		if message.err != nil {
			model.logger.Warn("load history", "error", message.err)
			return nil
		}
		return model.dispatch(app.HistoryLoaded{History: message.history})

	case listCreatedMsg, listFetchedMsg:
		return model.handleOverviewResult(message)

	case reusedMsg:
		return model.handleReused(message)

	case itemCreatedMsg, itemUpdatedMsg, itemDeletedMsg,
		listDoneMsg, listDeletedMsg, listRenamedMsg, returnMsg:
		return model.handleActiveResult(message)

	case noticeExpiredMsg:
		model.expire(message)
	}
	return nil
}

// dispatch reduces ev into the root state, keeps the per-view state in
// step with the new view mode, and turns effects into loads.
func (model *Model) dispatch(ev app.Event) tea.Cmd {
	next, effects := app.Reduce(model.state, ev)
	model.state = next

	switch ev.(type) {
	case app.ListOpened:
		model.active = newActiveView(*model.state.Active)
	case app.ListCreated, app.ListReused:
		model.overview.cursor = 0
	case app.HistoryOpened:
		model.history.cursor = 0
	}
	if model.state.View != app.ViewActive {
		model.active = nil
	}
	model.overview.clamp(len(model.state.Lists))

	var cmds []tea.Cmd
	for _, effect := range effects {
		switch effect {
		case app.EffectLoadLists:
			model.state.Loading = true
			cmds = append(cmds, loadLists(model.backend))
		case app.EffectLoadHistory:
			cmds = append(cmds, loadHistory(model.backend))
		}
	}
	return tea.Batch(cmds...)
}

// showNotice displays text on notice and schedules its expiry.
func (model *Model) showNotice(notice *app.Notice, text string, d time.Duration, target noticeTarget) tea.Cmd {
	seq := notice.Show(text)
	return model.expireAfter(d, target, seq)
}

func (model *Model) expireAfter(d time.Duration, target noticeTarget, seq uint64) tea.Cmd {
	return model.delay(d, noticeExpiredMsg{target: target, seq: seq, view: model.active})
}

func (model *Model) expire(message noticeExpiredMsg) {
	switch message.target {
	case targetRoot:
		model.state.Error.Expire(message.seq)
	case targetOverview:
		model.overview.err.Expire(message.seq)
	case targetHistory:
		model.history.err.Expire(message.seq)
	case targetActiveError, targetActiveSuccess:
		if model.active == nil || model.active != message.view {
			return
		}
		if message.target == targetActiveError {
			model.active.list.Error.Expire(message.seq)
		} else {
			model.active.list.Success.Expire(message.seq)
		}
	}
}

func (model Model) View() string {
	var body string
	switch model.state.View {
	case app.ViewActive:
		body = model.viewActive()
	case app.ViewHistory:
		body = model.viewHistory()
	default:
		body = model.viewOverview()
	}
	return strings.TrimRight(body, "\n") + "\n"
}

// footer renders the status line followed by the key help.
func (model Model) footer(status string, bindings ...key.Binding) string {
	var builder strings.Builder
	builder.WriteString("\n")
	if status != "" {
		builder.WriteString(status)
		builder.WriteString("\n")
	}
	builder.WriteString(model.theme.help().Render(helpLine(bindings...)))
	return builder.String()
}

// contentWidth is the usable width for list rows.
func (model Model) contentWidth() int {
	return max(model.width-4, 20)
}
