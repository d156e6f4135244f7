package images

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"image-crawler-go/pkg/models"
)

// FormatTableOutput formats a crawl result as a table for CLI output
func FormatTableOutput(result *models.Success) string {
	if result == nil {
		return FormatEmptyState("No results yet.")
	}

	var b strings.Builder

	// Header
	b.WriteString("\n")
	b.WriteString(renderHeader())
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Found %d images from %s\n", len(result.Items), result.SourceURL))
	b.WriteString(fmt.Sprintf("Crawl %s at %s\n\n", ShortenID(result.ID), FormatDate(result.CompletedAt)))

	if len(result.Items) == 0 {
		return b.String()
	}

	// Table
	w := tabwriter.NewWriter(&b, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "#\tLabel\tURL")
	fmt.Fprintln(w, strings.Repeat("─", 3)+"\t"+strings.Repeat("─", 20)+"\t"+strings.Repeat("─", 60))

	for i, item := range result.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\n",
			i+1,
			GetLabel(item),
			TruncateURL(item.ResourceURL, 60),
		)
	}

	w.Flush()
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total: %d image(s)\n", len(result.Items)))

	return b.String()
}

// FormatErrorMessage formats an error message consistently
func FormatErrorMessage(err error) string {
	return fmt.Sprintf("❌ Error: %v\n", err)
}

// renderHeader renders the table title
func renderHeader() string {
	return "Crawl Results"
}

// FormatEmptyState formats an empty state message
func FormatEmptyState(message string) string {
	return fmt.Sprintf("\n%s\n", message)
}
