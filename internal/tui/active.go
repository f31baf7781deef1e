package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/dukerupert/shoplist/internal/app"
	"github.com/dukerupert/shoplist/internal/model"
)

// activeMode is what keystrokes in the active view currently edit.
type activeMode int

const (
	modeBrowse activeMode = iota
	modeAddItem
	modeRename
	modeConfirmDelete
)

// Item form field indexes.
const (
	fieldName = iota
	fieldQuantity
	fieldUnit
	fieldCount
)

// activeView is the state of the list open for editing.
type activeView struct {
	list   *app.ActiveList
	form   app.ItemForm
	fields [fieldCount]Field
	focus  int
	rename Field
	mode   activeMode
	cursor int
}

func newActiveView(list model.ShoppingList) *activeView {
	view := &activeView{
		list: app.NewActiveList(list),
		form: app.NewItemForm(),
	}
	view.resetFields()
	return view
}

// resetFields copies the form values into the editable fields.
func (view *activeView) resetFields() {
	view.fields[fieldName] = NewField("Item", view.form.Name)
	view.fields[fieldQuantity] = NewField("Qty", view.form.Quantity)
	view.fields[fieldUnit] = NewField("Unit", view.form.Unit)
	view.fields[fieldName].Placeholder = "e.g. Milk"
	view.focusField(fieldName)
}

func (view *activeView) focusField(index int) {
	for i := range view.fields {
		view.fields[i].Blur()
	}
	view.focus = index
	view.fields[index].Focus()
}

func (view *activeView) clamp() {
	view.cursor = max(0, min(view.cursor, len(view.list.Items)-1))
}

func (view *activeView) selectedItem() (model.ShoppingItem, bool) {
	if len(view.list.Items) == 0 {
		return model.ShoppingItem{}, false
	}
	return view.list.Items[view.cursor], true
}

func (model *Model) updateActive(message tea.KeyMsg) tea.Cmd {
	view := model.active
	if view == nil {
		return nil
	}
	switch view.mode {
	case modeAddItem:
		return model.updateItemForm(message)
	case modeRename:
		return model.updateRename(message)
	case modeConfirmDelete:
		return model.updateConfirmDelete(message)
	}

	list := view.list
	if key.Matches(message, model.keys.Back) {
		if list.Busy {
			return nil
		}
		return model.dispatch(app.ActiveClosed{})
	}
	if !list.Interactive() {
		return nil
	}

	switch {
	case key.Matches(message, model.keys.Up):
		if view.cursor > 0 {
			view.cursor--
		}
	case key.Matches(message, model.keys.Down):
		if view.cursor < len(list.Items)-1 {
			view.cursor++
		}
	case key.Matches(message, model.keys.AddItem):
		view.mode = modeAddItem
		view.focusField(fieldName)
	case key.Matches(message, model.keys.Toggle):
		item, ok := view.selectedItem()
		if !ok {
			return nil
		}
		list.Busy = true
		return updateItem(model.backend, view, item, !item.Purchased)
	case key.Matches(message, model.keys.DeleteItem):
		item, ok := view.selectedItem()
		if !ok {
			return nil
		}
		list.Busy = true
		return deleteItem(model.backend, view, item.ID)
	case key.Matches(message, model.keys.MarkDone):
		if !list.CanMarkDone() {
			return nil
		}
		list.Busy = true
		return markListDone(model.backend, view, list.List.ID)
	case key.Matches(message, model.keys.DeleteList):
		if list.Persisted() {
			view.mode = modeConfirmDelete
		}
	case key.Matches(message, model.keys.Rename):
		if list.Persisted() {
			view.mode = modeRename
			view.rename = NewField("Name", list.List.Name)
			view.rename.Focus()
		}
	}
	return nil
}

func (model *Model) updateItemForm(message tea.KeyMsg) tea.Cmd {
	view := model.active
	switch {
	case key.Matches(message, model.keys.Back):
		view.mode = modeBrowse
		return nil
	case key.Matches(message, model.keys.Next):
		view.focusField((view.focus + 1) % fieldCount)
		return nil
	case key.Matches(message, model.keys.Confirm):
		if view.list.Busy {
			return nil
		}
		view.form.Name = view.fields[fieldName].Value()
		view.form.Quantity = view.fields[fieldQuantity].Value()
		view.form.Unit = view.fields[fieldUnit].Value()
		fields, ok := view.form.Submit()
		if !ok {
			return nil
		}
		view.resetFields()
		view.list.Busy = true
		return createItem(model.backend, view, view.list.List.ID, fields)
	}
	view.fields[view.focus].Update(message)
	return nil
}

func (model *Model) updateRename(message tea.KeyMsg) tea.Cmd {
	view := model.active
	switch {
	case key.Matches(message, model.keys.Back):
		view.mode = modeBrowse
		return nil
	case key.Matches(message, model.keys.Confirm):
		if view.list.Busy {
			return nil
		}
		name := strings.TrimSpace(view.rename.Value())
		if name == "" {
			return model.showNotice(&view.list.Error, app.MsgListNameRequired, model.delays.ListNotice, targetActiveError)
		}
		view.mode = modeBrowse
		view.list.Busy = true
		return renameList(model.backend, view, view.list.List.ID, name)
	}
	view.rename.Update(message)
	return nil
}

func (model *Model) updateConfirmDelete(message tea.KeyMsg) tea.Cmd {
	view := model.active
	switch {
	case key.Matches(message, model.keys.Yes):
		view.mode = modeBrowse
		view.list.Busy = true
		return deleteList(model.backend, view, view.list.List.ID)
	case key.Matches(message, model.keys.No):
		view.mode = modeBrowse
	}
	return nil
}

// handleActiveResult applies the outcome of an active-view call. Only
// the affected entry is patched on success; failures leave the items
// untouched.
func (model *Model) handleActiveResult(message tea.Msg) tea.Cmd {
	view := model.active
	if view == nil {
		return nil
	}
	list := view.list
	itemDelay := model.delays.ItemNotice
	listDelay := model.delays.ListNotice

	switch message := message.(type) {
	case itemCreatedMsg:
		if message.view != view {
			return nil
		}
		list.Busy = false
		if message.err != nil {
			model.logger.Error("create item", "list_id", list.List.ID, "error", message.err)
			return model.showNotice(&list.Error, app.MsgAddItemFailed, itemDelay, targetActiveError)
		}
		list.ApplyCreated(*message.item)
		return model.showNotice(&list.Success, app.MsgItemAdded, itemDelay, targetActiveSuccess)

	case itemUpdatedMsg:
		if message.view != view {
			return nil
		}
		list.Busy = false
		if message.err != nil {
			model.logger.Error("update item", "item_id", message.id, "error", message.err)
			return model.showNotice(&list.Error, app.MsgUpdateItemFailed, itemDelay, targetActiveError)
		}
		list.ApplyUpdated(message.id, *message.item)
		return nil

	case itemDeletedMsg:
		if message.view != view {
			return nil
		}
		list.Busy = false
		if message.err != nil {
			model.logger.Error("delete item", "item_id", message.id, "error", message.err)
			return model.showNotice(&list.Error, app.MsgDeleteItemFailed, itemDelay, targetActiveError)
		}
		list.ApplyDeleted(message.id)
		view.clamp()
		return model.showNotice(&list.Success, app.MsgItemDeleted, itemDelay, targetActiveSuccess)

	case listDoneMsg:
		if message.view != view {
			return nil
		}
		list.Busy = false
		if message.err != nil {
			model.logger.Error("mark list done", "list_id", list.List.ID, "error", message.err)
			return model.showNotice(&list.Error, app.MsgMarkDoneFailed, listDelay, targetActiveError)
		}
		list.Finished = true
		list.Success.Show(app.MsgMarkedDone)
		return tea.Batch(
			model.dispatch(app.ListUpdated{List: list.Snapshot()}),
			model.delay(model.delays.Return, returnMsg{view: view}),
		)

	case listDeletedMsg:
		if message.view != view {
			return nil
		}
		list.Busy = false
		if message.err != nil {
			model.logger.Error("delete list", "list_id", list.List.ID, "error", message.err)
			return model.showNotice(&list.Error, app.MsgDeleteListFailed, listDelay, targetActiveError)
		}
		list.Finished = true
		list.Success.Show(app.MsgListDeleted)
		return tea.Batch(
			model.dispatch(app.ListDeleted{}),
			model.delay(model.delays.Return, returnMsg{view: view}),
		)

	case listRenamedMsg:
		if message.view != view {
			return nil
		}
		list.Busy = false
		if message.err != nil {
			model.logger.Error("rename list", "list_id", list.List.ID, "error", message.err)
			return model.showNotice(&list.Error, app.MsgRenameFailed, listDelay, targetActiveError)
		}
		list.ApplyRenamed(message.list.Name)
		return tea.Batch(
			model.dispatch(app.ListUpdated{List: list.Snapshot()}),
			model.showNotice(&list.Success, app.MsgListRenamed, listDelay, targetActiveSuccess),
		)

	case returnMsg:
		if message.view != view {
			return nil
		}
		return model.dispatch(app.ActiveClosed{})
	}
	return nil
}

func (model Model) viewActive() string {
	view := model.active
	if view == nil {
		return ""
	}
	theme := model.theme
	list := view.list
	width := model.contentWidth()
	progress := list.Progress()

	var builder strings.Builder
	builder.WriteString(theme.header().Render(ansi.Truncate(list.List.Name, width, "…")))
	builder.WriteString("\n")
	builder.WriteString(theme.faint().Render(fmt.Sprintf("%d of %d purchased · %d%%",
		progress.Purchased, progress.Total, progress.Percent())))
	builder.WriteString("\n")
	builder.WriteString(theme.progressBar(progress.Percent(), min(width, 40)))
	builder.WriteString("\n\n")

	switch view.mode {
	case modeAddItem:
		for _, field := range view.fields {
			builder.WriteString(field.View(theme))
			builder.WriteString("\n")
		}
		if view.form.Error != "" {
			builder.WriteString(theme.errorText().Render(view.form.Error))
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	case modeRename:
		builder.WriteString(view.rename.View(theme))
		builder.WriteString("\n\n")
	case modeConfirmDelete:
		builder.WriteString(theme.errorText().Render(
			fmt.Sprintf("Delete %q? This cannot be undone. (y/n)", list.List.Name)))
		builder.WriteString("\n\n")
	}

	if len(list.Items) == 0 {
		builder.WriteString(theme.faint().Render("No items yet. Press a to add one."))
		builder.WriteString("\n")
	}
	for index, item := range list.Items {
		builder.WriteString(model.renderItem(item, index == view.cursor && view.mode == modeBrowse, width))
		builder.WriteString("\n")
	}

	status := ""
	switch {
	case list.Error.Visible():
		status = theme.errorText().Render(list.Error.Text)
	case list.Success.Visible():
		status = theme.successText().Render(list.Success.Text)
	case list.Busy:
		status = theme.faint().Render("Saving...")
	}

	keys := model.keys
	switch view.mode {
	case modeAddItem:
		builder.WriteString(model.footer(status, keys.Next, keys.Confirm, keys.Back))
	case modeRename:
		builder.WriteString(model.footer(status, keys.Confirm, keys.Back))
	case modeConfirmDelete:
		builder.WriteString(model.footer(status, keys.Yes, keys.No))
	default:
		markDone := keys.MarkDone
		markDone.SetEnabled(list.CanMarkDone())
		builder.WriteString(model.footer(status,
			keys.AddItem, keys.Toggle, keys.DeleteItem, markDone,
			keys.Rename, keys.DeleteList, keys.Back))
	}
	return builder.String()
}

// renderItem renders one row. Purchased items stay in place, struck
// through.
func (model Model) renderItem(item model.ShoppingItem, selected bool, width int) string {
	theme := model.theme
	check := "[ ]"
	if item.Purchased {
		check = "[x]"
	}
	quantity := humanize.FtoaWithDigits(item.Quantity, 3) + " " + item.Unit
	label := ansi.Truncate(item.Name, max(width-len(quantity)-8, 8), "…")

	style := theme.normal()
	if item.Purchased {
		style = theme.purchased()
	}
	row := style.Render(label) + "  " + theme.faint().Render(quantity)

	prefix := "  "
	if selected {
		prefix = "▸ "
		return theme.selected().Render(prefix+check+" ") + row
	}
	return prefix + check + " " + row
}
