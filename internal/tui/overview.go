package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/dukerupert/shoplist/internal/app"
)

// overviewView is the state of the list overview.
type overviewView struct {
	cursor int
	draft  app.Draft
	field  Field
	err    app.Notice
	// busy is set while a create or detail fetch is in flight.
	busy bool
}

func (view *overviewView) clamp(count int) {
	view.cursor = max(0, min(view.cursor, count-1))
}

func (model *Model) updateOverview(message tea.KeyMsg) tea.Cmd {
	view := model.overview
	if view.draft.Open {
		return model.updateDraft(message)
	}
	if view.busy {
		return nil
	}

	switch {
	case key.Matches(message, model.keys.Quit):
		return tea.Quit
	case key.Matches(message, model.keys.Up):
		if view.cursor > 0 {
			view.cursor--
		}
	case key.Matches(message, model.keys.Down):
		if view.cursor < len(model.state.Lists)-1 {
			view.cursor++
		}
	case key.Matches(message, model.keys.NewList):
		view.draft.Begin()
		view.field = NewField("Name", view.draft.Name)
		view.field.Focus()
	case key.Matches(message, model.keys.Open):
		return model.openSelected()
	case key.Matches(message, model.keys.History):
		return model.dispatch(app.HistoryOpened{})
	case key.Matches(message, model.keys.Refresh):
		model.state.Error.Clear()
		model.state.Loading = true
		return tea.Batch(loadLists(model.backend), loadHistory(model.backend))
	}
	return nil
}

func (model *Model) updateDraft(message tea.KeyMsg) tea.Cmd {
	view := model.overview
	if view.busy {
		return nil
	}

	switch {
	case key.Matches(message, model.keys.Back):
		view.draft.Cancel()
		view.field.Blur()
		return nil
	case key.Matches(message, model.keys.Confirm):
		view.draft.Name = view.field.Value()
		name, err := view.draft.Validate()
		if err != nil {
			return model.showNotice(&view.err, err.Error(), model.delays.ListNotice, targetOverview)
		}
		view.busy = true
		return createList(model.backend, name)
	}
	view.field.Update(message)
	return nil
}

// openSelected enters the active view for the selected list. A list
// that was never persisted has nothing to fetch and opens directly.
func (model *Model) openSelected() tea.Cmd {
	if len(model.state.Lists) == 0 {
		return nil
	}
	selected := model.state.Lists[model.overview.cursor]
	if selected.ID == 0 {
		return model.dispatch(app.ListOpened{List: selected})
	}
	model.overview.busy = true
	return fetchList(model.backend, selected.ID)
}

func (model *Model) handleOverviewResult(message tea.Msg) tea.Cmd {
	view := model.overview
	view.busy = false

	switch message := message.(type) {
	case listCreatedMsg:
		if message.err != nil {
			model.logger.Error("create list", "error", message.err)
			return model.showNotice(&view.err, app.MsgCreateListFailed, model.delays.ListNotice, targetOverview)
		}
		view.draft.Cancel()
		view.field.Blur()
		return model.dispatch(app.ListCreated{List: *message.list})

	case listFetchedMsg:
		if message.err != nil {
			model.logger.Error("fetch list", "error", message.err)
			return model.showNotice(&view.err, app.MsgLoadListFailed, model.delays.ListNotice, targetOverview)
		}
		return model.dispatch(app.ListOpened{List: *message.list})
	}
	return nil
}

func (model Model) viewOverview() string {
	view := model.overview
	theme := model.theme
	width := model.contentWidth()

	var builder strings.Builder
	builder.WriteString(theme.header().Render("Shopping Lists"))
	builder.WriteString("\n\n")

	if view.draft.Open {
		builder.WriteString(theme.card().Width(width).Render(
			theme.header().Render("New list") + "\n" + view.field.View(theme)))
		builder.WriteString("\n")
	}

	switch {
	case model.state.Loading && len(model.state.Lists) == 0:
		builder.WriteString(theme.faint().Render("Loading lists..."))
		builder.WriteString("\n")
	case len(model.state.Lists) == 0:
		builder.WriteString(theme.faint().Render("No shopping lists yet. Press n to create one."))
		builder.WriteString("\n")
	}

	for index, card := range app.Cards(model.state.Lists) {
		builder.WriteString(model.renderCard(card, index == view.cursor && !view.draft.Open, width))
		builder.WriteString("\n")
	}

	status := ""
	switch {
	case model.state.Error.Visible():
		status = theme.errorText().Render(model.state.Error.Text)
	case view.err.Visible():
		status = theme.errorText().Render(view.err.Text)
	}

	if view.draft.Open {
		builder.WriteString(model.footer(status, model.keys.Confirm, model.keys.Back))
	} else {
		builder.WriteString(model.footer(status,
			model.keys.Up, model.keys.Down, model.keys.Open, model.keys.NewList,
			model.keys.History, model.keys.Refresh, model.keys.Quit))
	}
	return builder.String()
}

func (model Model) renderCard(card app.Card, selected bool, width int) string {
	theme := model.theme
	inner := width - 4

	name := ansi.Truncate(card.List.Name, inner, "…")
	nameStyle := theme.header()
	if selected {
		name = "▸ " + ansi.Truncate(card.List.Name, inner-2, "…")
		nameStyle = nameStyle.Inherit(theme.selected())
	}

	summary := fmt.Sprintf("%d %s · %d%% done", card.ItemCount, pluralize(card.ItemCount, "item", "items"), card.Percent)
	if touched := card.List.LastTouched(); !touched.IsZero() {
		summary += " · updated " + humanize.Time(touched)
	}

	return theme.card().Width(width).Render(
		nameStyle.Render(name) + "\n" +
			theme.faint().Render(ansi.Truncate(summary, inner, "…")) + "\n" +
			theme.progressBar(card.Percent, min(inner, 40)))
}

func pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
