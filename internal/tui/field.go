package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Field is a single-line text input: a rune buffer with a cursor.
type Field struct {
	Label       string
	Placeholder string
	value       []rune
	cursor      int
	focused     bool
}

// NewField creates a field holding value with the cursor at the end.
func NewField(label, value string) Field {
	field := Field{Label: label}
	field.SetValue(value)
	return field
}

func (field Field) Value() string {
	return string(field.value)
}

// SetValue replaces the content and moves the cursor to the end.
func (field *Field) SetValue(value string) {
	field.value = []rune(value)
	field.cursor = len(field.value)
}

func (field *Field) Focus() { field.focused = true }
func (field *Field) Blur()  { field.focused = false }

func (field Field) Focused() bool { return field.focused }

// Update applies an editing key. It reports whether the key was
// consumed; keys it does not handle (Enter, Esc, Tab) are left to the
// caller.
func (field *Field) Update(message tea.KeyMsg) bool {
	switch message.Type {
	case tea.KeyRunes:
		for _, character := range message.Runes {
			field.insertRune(character)
		}
	case tea.KeySpace:
		field.insertRune(' ')
	case tea.KeyBackspace:
		if field.cursor > 0 {
			field.value = append(field.value[:field.cursor-1], field.value[field.cursor:]...)
			field.cursor--
		}
	case tea.KeyDelete:
		if field.cursor < len(field.value) {
			field.value = append(field.value[:field.cursor], field.value[field.cursor+1:]...)
		}
	case tea.KeyLeft:
		if field.cursor > 0 {
			field.cursor--
		}
	case tea.KeyRight:
		if field.cursor < len(field.value) {
			field.cursor++
		}
	case tea.KeyHome, tea.KeyCtrlA:
		field.cursor = 0
	case tea.KeyEnd, tea.KeyCtrlE:
		field.cursor = len(field.value)
	case tea.KeyCtrlU:
		field.value = append([]rune{}, field.value[field.cursor:]...)
		field.cursor = 0
	default:
		return false
	}
	return true
}

func (field *Field) insertRune(character rune) {
	field.value = append(field.value, 0)
	copy(field.value[field.cursor+1:], field.value[field.cursor:])
	field.value[field.cursor] = character
	field.cursor++
}

// View renders "Label: value" with a block cursor when focused.
func (field Field) View(theme Theme) string {
	label := theme.faint().Render(field.Label + ": ")
	if !field.focused {
		if len(field.value) == 0 {
			return label + theme.faint().Render(field.Placeholder)
		}
		return label + theme.normal().Render(string(field.value))
	}

	cursorStyle := lipgloss.NewStyle().Reverse(true)
	before := string(field.value[:field.cursor])
	under := " "
	after := ""
	if field.cursor < len(field.value) {
		under = string(field.value[field.cursor])
		after = string(field.value[field.cursor+1:])
	}
	return label + theme.normal().Render(before) + cursorStyle.Render(under) + theme.normal().Render(after)
}
