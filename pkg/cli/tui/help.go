package tui

import (
	"fmt"
	"strings"
)

// HelpItem represents a single keyboard shortcut and its description
type HelpItem struct {
	Key         string
	Description string
}

// CrawlFormHelpContent returns help for the crawl form
func CrawlFormHelpContent() string {
	items := []HelpItem{
		{"Tab / Shift+Tab", "Move between API key, URL and results"},
		{"Ctrl+K", "Show or hide the API key"},
		{"Enter", "Start crawl"},
		{"Esc", "Cancel a running crawl, otherwise quit"},
		{"↑ / ↓ / j / k", "Select an image (results)"},
		{"d", "Download the selected image (results)"},
		{"pgup / pgdown", "Scroll"},
		{"?", "Toggle help (outside text inputs)"},
		{"Ctrl+C", "Force quit"},
	}
	return renderHelpItems(items)
}

// HowToUseContent returns the getting-started steps shown next to the
// empty results panel
func HowToUseContent() string {
	steps := []string{
		"Enter your API key (it is saved for next time)",
		"Enter the full website URL, including http:// or https://",
		"Press Enter to start crawling",
		"Browse the images and press d to download one",
	}
	var b strings.Builder
	b.WriteString(boldStyle.Render("How to use"))
	b.WriteString("\n")
	for i, step := range steps {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, step))
	}
	return panelStyle.Render(strings.TrimSuffix(b.String(), "\n"))
}

// renderHelpItems formats help items into a readable string
func renderHelpItems(items []HelpItem) string {
	var b strings.Builder
	for _, item := range items {
		keyStyle := boldStyle.Foreground(colorPrimary)
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			keyStyle.Render(item.Key),
			item.Description))
	}
	return b.String()
}
