package ui

import "github.com/charmbracelet/lipgloss"

// Palette shared by every pgen command.
var (
	Primary      = lipgloss.Color("#7C3AED")
	Text         = lipgloss.Color("#F9FAFB")
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorSuccess = lipgloss.Color("#10B981")
	ColorWarning = lipgloss.Color("#F59E0B")
	ColorError   = lipgloss.Color("#EF4444")
	ColorInfo    = lipgloss.Color("#06B6D4")
)

func badge(fg, bg lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(fg).Background(bg).Padding(0, 1).Bold(true)
}

var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)

	SuccessBadge = badge("#000", ColorSuccess)
	WarningBadge = badge("#000", ColorWarning)
	ErrorBadge   = badge("#FFF", ColorError)

	warningText = lipgloss.NewStyle().Foreground(ColorWarning)
	errorText   = lipgloss.NewStyle().Foreground(ColorError)
)

// One-character status marks prefixed to Print output.
var (
	successMark = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true).Render("✓")
	infoMark    = lipgloss.NewStyle().Foreground(ColorInfo).Render("•")
	stepMark    = lipgloss.NewStyle().Foreground(Primary).Bold(true).Render("→")
	warningMark = warningText.Bold(true).Render("!")
	errorMark   = errorText.Bold(true).Render("✗")
)
