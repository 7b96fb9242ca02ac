package tui

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette of the book form UI. Colors are ANSI 256
// codes so they render on most terminals.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	ActivePage       lipgloss.Color
	ErrorForeground  lipgloss.Color
	HelpText         lipgloss.Color
}

// DefaultTheme is a dark-background palette.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("243"),

	SelectedBackground: lipgloss.Color("237"),
	SelectedForeground: lipgloss.Color("255"),

	HeaderForeground: lipgloss.Color("75"),
	BorderColor:      lipgloss.Color("240"),
	ActivePage:       lipgloss.Color("214"),
	ErrorForeground:  lipgloss.Color("203"),
	HelpText:         lipgloss.Color("241"),
}

type styles struct {
	header     lipgloss.Style
	row        lipgloss.Style
	selected   lipgloss.Style
	faint      lipgloss.Style
	page       lipgloss.Style
	activePage lipgloss.Style
	label      lipgloss.Style
	errorLine  lipgloss.Style
	help       lipgloss.Style
	modal      lipgloss.Style
	pane       lipgloss.Style
	focusPane  lipgloss.Style
}

func newStyles(theme Theme) styles {
	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Padding(0, 1)

	return styles{
		header:     lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground),
		row:        lipgloss.NewStyle().Foreground(theme.NormalText),
		selected:   lipgloss.NewStyle().Foreground(theme.SelectedForeground).Background(theme.SelectedBackground).Bold(true),
		faint:      lipgloss.NewStyle().Foreground(theme.FaintText),
		page:       lipgloss.NewStyle().Foreground(theme.NormalText),
		activePage: lipgloss.NewStyle().Foreground(theme.ActivePage).Bold(true).Underline(true),
		label:      lipgloss.NewStyle().Foreground(theme.FaintText).Width(16),
		errorLine:  lipgloss.NewStyle().Foreground(theme.ErrorForeground).Bold(true),
		help:       lipgloss.NewStyle().Foreground(theme.HelpText),
		modal: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(theme.ErrorForeground).
			Padding(1, 3),
		pane:      pane,
		focusPane: pane.BorderForeground(theme.HeaderForeground),
	}
}
