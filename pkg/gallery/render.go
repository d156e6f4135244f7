package gallery

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	captionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	selectedLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("62")).
				Bold(true)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	loadedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
)

// Render draws the results panel with entry selected highlighted. It
// returns "" when there is no outcome.
func (g *Gallery) Render(selected int) string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.outcome == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Crawl Results"))
	b.WriteString("\n")
	b.WriteString(captionStyle.Render(fmt.Sprintf("Found %d images from %s", len(g.entries), g.outcome.SourceURL)))
	b.WriteString("\n\n")

	for i, e := range g.entries {
		marker := " "
		style := labelStyle
		if i == selected {
			marker = selectedLabelStyle.Render("→")
			style = selectedLabelStyle
		}

		label := e.Item.Label
		if label == "" {
			label = "(no label)"
		}

		state := loadingStyle.Render("[loading…]")
		if e.State == Loaded {
			state = loadedStyle.Render("[loaded]")
		}

		b.WriteString(fmt.Sprintf("%s %2d. %s %s\n", marker, i+1, style.Render(label), state))
		b.WriteString(fmt.Sprintf("      %s\n", urlStyle.Render(truncate(e.Item.ResourceURL, 70))))
	}

	return b.String()
}

// truncate cuts s to maxLen runes, ending in "..."
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen || maxLen < 4 {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
