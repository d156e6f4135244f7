package images

import (
	"time"

	"image-crawler-go/pkg/models"

	"github.com/google/uuid"
)

// GetLabel returns the image label, or "(no label)"
func GetLabel(item models.ResultItem) string {
	if item.Label != "" {
		return item.Label
	}
	return "(no label)"
}

// TruncateURL shortens u to at most maxLen runes, ending in "..."
func TruncateURL(u string, maxLen int) string {
	r := []rune(u)
	if len(r) <= maxLen || maxLen < 4 {
		return u
	}
	return string(r[:maxLen-3]) + "..."
}

// ShortenID keeps the first UUID group, enough to tell crawls apart
func ShortenID(id uuid.UUID) string {
	return id.String()[:8]
}

// FormatDate renders t to the minute
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}
