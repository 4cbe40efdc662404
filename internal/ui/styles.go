package ui

import "charm.land/lipgloss/v2"

var (
	highlightColor = lipgloss.Color("#9B59B6")
	dimColor       = lipgloss.Color("240")

	labelStyle   = lipgloss.NewStyle().Foreground(highlightColor).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(dimColor).Italic(true)
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(highlightColor).Bold(true).Padding(0, 1)
	groupStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	indexStyle   = lipgloss.NewStyle().Foreground(dimColor)
	skippedStyle = lipgloss.NewStyle().Foreground(dimColor).Italic(true)
)
