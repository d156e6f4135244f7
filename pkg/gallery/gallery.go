package gallery

import (
	"context"
	"path"
	"regexp"
	"strings"
	"sync"

	"image-crawler-go/pkg/models"
)

// LoadState tracks whether an entry's image data has arrived.
type LoadState int

const (
	Loading LoadState = iota
	Loaded
)

func (s LoadState) String() string {
	if s == Loaded {
		return "loaded"
	}
	return "loading"
}

// Entry is one rendered result item.
type Entry struct {
	Item  models.ResultItem
	State LoadState
}

// Downloader saves a resource under a suggested file name. It owns its own
// error reporting.
type Downloader interface {
	Save(ctx context.Context, resourceURL, fileName string)
}

// Gallery holds the last successful outcome and the load state of its items.
type Gallery struct {
	mu         sync.RWMutex
	outcome    *models.Success
	entries    []Entry
	downloader Downloader
}

func New(downloader Downloader) *Gallery {
	return &Gallery{downloader: downloader}
}

// Show replaces the displayed outcome. Every entry starts out loading.
// A nil outcome clears the gallery.
func (g *Gallery) Show(outcome *models.Success) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.outcome = outcome
	g.entries = nil
	if outcome == nil {
		return
	}
	g.entries = make([]Entry, len(outcome.Items))
	for i, item := range outcome.Items {
		g.entries[i] = Entry{Item: item, State: Loading}
	}
}

// HasOutcome distinguishes "no outcome yet" from "zero items".
func (g *Gallery) HasOutcome() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.outcome != nil
}

// Outcome returns the displayed outcome, or nil.
func (g *Gallery) Outcome() *models.Success {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.outcome
}

// Entries returns a copy of the entries in outcome order.
func (g *Gallery) Entries() []Entry {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Entry, len(g.entries))
	copy(out, g.entries)
	return out
}

// Len returns the number of entries.
func (g *Gallery) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries)
}

// MarkLoaded moves entry i to Loaded. Loaded entries never go back.
// Loads reported for a replaced outcome are ignored.
func (g *Gallery) MarkLoaded(outcome *models.Success, i int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if outcome != g.outcome || i < 0 || i >= len(g.entries) {
		return
	}
	g.entries[i].State = Loaded
}

// Download hands entry i to the downloader. It does not change any state.
func (g *Gallery) Download(ctx context.Context, i int) {
	g.mu.RLock()
	if i < 0 || i >= len(g.entries) || g.downloader == nil {
		g.mu.RUnlock()
		return
	}
	item := g.entries[i].Item
	g.mu.RUnlock()

	g.downloader.Save(ctx, item.ResourceURL, FileName(item))
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FallbackFileName is used when an item has no usable label.
const FallbackFileName = "image"

// FileName derives a safe file name from the item label.
func FileName(item models.ResultItem) string {
	name := strings.TrimSpace(item.Label)
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-.")
	if name == "" {
		return FallbackFileName
	}
	return name
}
