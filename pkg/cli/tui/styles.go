package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette (256-color codes)
var (
	colorPrimary   = lipgloss.Color("62")
	colorSecondary = lipgloss.Color("244")
	colorSuccess   = lipgloss.Color("42")
	colorError     = lipgloss.Color("196")
	colorInfo      = lipgloss.Color("39")
	colorMuted     = lipgloss.Color("240")
	colorBorder    = lipgloss.Color("238")
	colorOnPrimary = lipgloss.Color("230")
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).MarginBottom(1)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorSecondary)
	boldStyle     = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	helpStyle     = mutedStyle.Italic(true)
	infoStyle     = lipgloss.NewStyle().Foreground(colorInfo)
	successStyle  = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	dividerStyle  = lipgloss.NewStyle().Foreground(colorBorder)

	// form
	fieldLabelStyle     = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).MarginRight(2)
	focusedLabelStyle   = fieldLabelStyle.Underline(true)
	buttonStyle         = lipgloss.NewStyle().Foreground(colorOnPrimary).Background(colorPrimary).Padding(0, 2).Bold(true)
	disabledButtonStyle = lipgloss.NewStyle().Foreground(colorSecondary).Background(colorBorder).Padding(0, 2)

	// toasts sit under the form, one box per notification
	toastStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	successToastStyle = toastStyle.BorderForeground(colorSuccess)
	errorToastStyle   = toastStyle.BorderForeground(colorError)

	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
)

func renderTitle(title string) string {
	return "\n" + titleStyle.Render(title) + "\n"
}

func renderSuccess(msg string) string {
	return successStyle.Render("✓ " + msg)
}

func renderError(msg string) string {
	return errorStyle.Render("❌ " + msg)
}

func renderDivider(length int) string {
	return dividerStyle.Render(strings.Repeat("─", length))
}
