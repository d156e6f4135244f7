package models

import (
	"time"

	"github.com/google/uuid"
)

// CrawlRequest is a validated submission handed to the crawl operation.
type CrawlRequest struct {
	TargetURL  string `json:"url"`
	Credential string `json:"-"`
}

// ResultItem is a single image found by a crawl.
type ResultItem struct {
	ResourceURL string `json:"url"`
	Label       string `json:"alt"`
}

// CrawlOutcome is either *Success or *Failure. Use a type switch.
type CrawlOutcome interface {
	outcome()
}

// Success holds the items of a completed crawl, in the order the operation returned them.
type Success struct {
	ID          uuid.UUID    `json:"id"`
	SourceURL   string       `json:"url"`
	Items       []ResultItem `json:"images"`
	CompletedAt time.Time    `json:"completed_at"`
}

// Failure carries the reason a crawl did not produce results.
type Failure struct {
	Reason string `json:"error"`
}

func (*Success) outcome() {}
func (*Failure) outcome() {}

// NewSuccess stamps a fresh ID and completion time on items from sourceURL.
func NewSuccess(sourceURL string, items []ResultItem, at time.Time) *Success {
	return &Success{
		ID:          uuid.New(),
		SourceURL:   sourceURL,
		Items:       items,
		CompletedAt: at,
	}
}
