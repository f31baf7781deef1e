package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for the TUI. All colors use lipgloss
// ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	ErrorText   lipgloss.Color
	SuccessText lipgloss.Color

	// Progress bar fill and track.
	ProgressFill  lipgloss.Color
	ProgressTrack lipgloss.Color

	// History action badges.
	ActionCreated lipgloss.Color
	ActionReused  lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	ErrorText:   lipgloss.Color("196"), // red
	SuccessText: lipgloss.Color("114"), // green

	ProgressFill:  lipgloss.Color("114"),
	ProgressTrack: lipgloss.Color("238"),

	ActionCreated: lipgloss.Color("75"),  // blue
	ActionReused:  lipgloss.Color("141"), // light purple
}

func (theme Theme) header() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground)
}

func (theme Theme) faint() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.FaintText)
}

func (theme Theme) normal() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.NormalText)
}

func (theme Theme) selected() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(theme.SelectedBackground).
		Foreground(theme.SelectedForeground)
}

// purchased renders an item that has been bought: still listed, but
// struck through and dimmed.
func (theme Theme) purchased() lipgloss.Style {
	return lipgloss.NewStyle().Strikethrough(true).Faint(true).Foreground(theme.FaintText)
}

func (theme Theme) help() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.HelpText)
}

func (theme Theme) errorText() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.ErrorText)
}

func (theme Theme) successText() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.SuccessText)
}

func (theme Theme) card() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Padding(0, 1)
}

// ActionColor returns the badge color for a history action. Unknown
// actions render faint.
func (theme Theme) ActionColor(action string) lipgloss.Color {
	switch action {
	case "created":
		return theme.ActionCreated
	case "reused":
		return theme.ActionReused
	default:
		return theme.FaintText
	}
}

// progressBar renders percent (0-100) as a bar of the given cell width.
func (theme Theme) progressBar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(percent, 100))
	filled := width * percent / 100
	fill := lipgloss.NewStyle().Foreground(theme.ProgressFill)
	track := lipgloss.NewStyle().Foreground(theme.ProgressTrack)
	return fill.Render(strings.Repeat("█", filled)) + track.Render(strings.Repeat("░", width-filled))
}
