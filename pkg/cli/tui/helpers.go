package tui

import (
	"errors"
	"fmt"
	"strings"

	"image-crawler-go/pkg/crawler"
	"image-crawler-go/pkg/notify"
	"image-crawler-go/pkg/scraper"
)

// renderEmptyResults renders the placeholder shown before the first success
func renderEmptyResults() string {
	var b strings.Builder
	b.WriteString(boldStyle.Render("No Results Yet"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Ready to crawl. Enter a website URL and your API key to get started."))
	return panelStyle.Render(b.String())
}

// renderProgress renders the bar and its caption
func renderProgress(bar string, value int) string {
	return bar + "\n" +
		infoStyle.Render(fmt.Sprintf("Crawling in progress... %d%%", value)) + " " +
		mutedStyle.Render(fmt.Sprintf("(%s)", scraper.StageFor(value)))
}

// renderToast renders one notification
func renderToast(n notify.Notification) string {
	style := successToastStyle
	title := renderSuccess(n.Title)
	if n.Severity == notify.SeverityError {
		style = errorToastStyle
		title = renderError(n.Title)
	}
	body := title
	if n.Description != "" {
		body += "\n" + n.Description
	}
	return style.Render(body)
}

// renderInlineError renders an error message inline (without full error view formatting)
func renderInlineError(err error) string {
	if err == nil {
		return ""
	}
	return renderError(err.Error())
}

// handleListNavigation handles common navigation keys for list views (up/down/j/k)
// Returns the new selected index and whether navigation occurred
func handleListNavigation(key string, selected int, total int) (newSelected int, handled bool) {
	switch key {
	case "up", "k":
		if selected > 0 {
			return selected - 1, true
		}
		return selected, true
	case "down", "j":
		if selected < total-1 {
			return selected + 1, true
		}
		return selected, true
	}
	return selected, false
}

// userFacingError converts structured crawl errors into friendly messages,
// while leaving other error types unchanged.
func userFacingError(err error) error {
	if err == nil {
		return nil
	}

	var crawlErr *crawler.CrawlError
	if errors.As(err, &crawlErr) {
		return errors.New(crawlErr.UserMessage())
	}

	return err
}
