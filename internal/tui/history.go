package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/dukerupert/shoplist/internal/app"
)

type historyView struct {
	filter app.HistoryFilter
	cursor int
	err    app.Notice
	busy   bool
}

func (model *Model) historyEntries() []app.HistoryEntry {
	return app.HistoryEntries(model.state.History, model.history.filter)
}

func (model *Model) updateHistory(message tea.KeyMsg) tea.Cmd {
	view := model.history
	if view.busy {
		return nil
	}
	entries := model.historyEntries()

	switch {
	case key.Matches(message, model.keys.Back):
		return model.dispatch(app.HistoryClosed{})
	case key.Matches(message, model.keys.Up):
		if view.cursor > 0 {
			view.cursor--
		}
	case key.Matches(message, model.keys.Down):
		if view.cursor < len(entries)-1 {
			view.cursor++
		}
	case key.Matches(message, model.keys.FilterAll):
		view.setFilter(app.FilterAll)
	case key.Matches(message, model.keys.FilterCreated):
		view.setFilter(app.FilterCreated)
	case key.Matches(message, model.keys.FilterReused):
		view.setFilter(app.FilterReused)
	case key.Matches(message, model.keys.Reuse):
		if len(entries) == 0 {
			return nil
		}
		entry := entries[view.cursor]
		if !entry.Reusable() {
			return nil
		}
		view.busy = true
		return reuseHistory(model.backend, entry.ID)
	case key.Matches(message, model.keys.Quit):
		return tea.Quit
	}
	return nil
}

func (view *historyView) setFilter(filter app.HistoryFilter) {
	view.filter = filter
	view.cursor = 0
}

func (model *Model) handleReused(message reusedMsg) tea.Cmd {
	model.history.busy = false
	if message.err != nil {
		model.logger.Error("reuse history", "error", message.err)
		return model.showNotice(&model.history.err, app.MsgReuseFailed, model.delays.ListNotice, targetHistory)
	}
	return model.dispatch(app.ListReused{List: *message.list})
}

func (model Model) viewHistory() string {
	view := model.history
	theme := model.theme
	width := model.contentWidth()
	entries := model.historyEntries()

	var builder strings.Builder
	builder.WriteString(theme.header().Render("History"))
	builder.WriteString("  ")
	builder.WriteString(model.renderFilterTabs())
	builder.WriteString("\n\n")

	if len(entries) == 0 {
		builder.WriteString(theme.faint().Render(view.filter.EmptyMessage()))
		builder.WriteString("\n")
	}

	for index, entry := range entries {
		builder.WriteString(model.renderHistoryEntry(entry, index == view.cursor, width))
		builder.WriteString("\n")
	}

	status := ""
	switch {
	case view.err.Visible():
		status = theme.errorText().Render(view.err.Text)
	case view.busy:
		status = theme.faint().Render("Reusing list...")
	}

	reuse := model.keys.Reuse
	if len(entries) == 0 || !entries[min(view.cursor, len(entries)-1)].Reusable() {
		reuse.SetEnabled(false)
	}
	builder.WriteString(model.footer(status,
		model.keys.Up, model.keys.Down, reuse,
		model.keys.FilterAll, model.keys.FilterCreated, model.keys.FilterReused,
		model.keys.Back))
	return builder.String()
}

func (model Model) renderFilterTabs() string {
	theme := model.theme
	var tabs []string
	for _, filter := range []app.HistoryFilter{app.FilterAll, app.FilterCreated, app.FilterReused} {
		label := " " + filter.String() + " "
		if filter == model.history.filter {
			tabs = append(tabs, theme.selected().Bold(true).Render(label))
		} else {
			tabs = append(tabs, theme.faint().Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (model Model) renderHistoryEntry(entry app.HistoryEntry, selected bool, width int) string {
	theme := model.theme
	inner := width - 4

	badge := lipgloss.NewStyle().Foreground(theme.ActionColor(entry.Action)).Render(entry.Action)
	name := ansi.Truncate(entry.Snapshot.DisplayName(), inner-lipgloss.Width(entry.Action)-3, "…")
	nameStyle := theme.header()
	if selected {
		nameStyle = nameStyle.Inherit(theme.selected())
		name = "▸ " + name
	}

	details := humanize.Time(entry.CreatedAt)
	if count, ok := entry.Snapshot.ItemCount(); ok {
		details = fmt.Sprintf("%d %s · %s", count, pluralize(count, "item", "items"), details)
	}
	if entry.OriginalListID == nil {
		details += " · original list removed"
	}

	return theme.card().Width(width).Render(
		nameStyle.Render(name) + "  " + badge + "\n" +
			theme.faint().Render(ansi.Truncate(details, inner, "…")))
}
