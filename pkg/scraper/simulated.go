package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"image-crawler-go/pkg/clock"
	"image-crawler-go/pkg/models"
)

const (
	DefaultDelay     = 2 * time.Second
	DefaultItemCount = 8
	DefaultImageBase = "https://source.unsplash.com/random/800x600"

	MissingKeyReason = "API key not found. Please add your API key first."
)

// SimulatedConfig tunes the stand-in crawl.
type SimulatedConfig struct {
	Delay     time.Duration
	ItemCount int
	ImageBase string
}

// Simulated stands in for a real image extraction service. It waits a fixed
// delay and returns the same sample images for every URL.
type Simulated struct {
	clock    clock.Clock
	cfg      SimulatedConfig
	progress ProgressCallback
}

// NewSimulated creates a simulated crawl on c. A nil clock uses the real one.
func NewSimulated(c clock.Clock, cfg SimulatedConfig) *Simulated {
	if c == nil {
		c = clock.Real()
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.ItemCount <= 0 {
		cfg.ItemCount = DefaultItemCount
	}
	if cfg.ImageBase == "" {
		cfg.ImageBase = DefaultImageBase
	}
	return &Simulated{clock: c, cfg: cfg}
}

// WithProgress sets a callback notified at each stage.
func (s *Simulated) WithProgress(cb ProgressCallback) *Simulated {
	s.progress = cb
	return s
}

// Crawl waits for the configured delay and returns the sample images.
func (s *Simulated) Crawl(ctx context.Context, req models.CrawlRequest) (models.CrawlOutcome, error) {
	if strings.TrimSpace(req.Credential) == "" {
		return &models.Failure{Reason: MissingKeyReason}, nil
	}

	s.report(StageFetching, fmt.Sprintf("Fetching %s", req.TargetURL))
	if !clock.Sleep(s.clock, s.cfg.Delay, ctx.Done()) {
		return nil, ctx.Err()
	}

	s.report(StageExtracting, "Extracting images")
	items := SampleImages(s.cfg.ImageBase, s.cfg.ItemCount)

	s.report(StageComplete, fmt.Sprintf("Found %d images", len(items)))
	return models.NewSuccess(req.TargetURL, items, s.clock.Now()), nil
}

func (s *Simulated) report(stage ScrapeStage, message string) {
	if s.progress != nil {
		s.progress(stage, message)
	}
}

// SampleImages returns n deterministic placeholder images under base.
func SampleImages(base string, n int) []models.ResultItem {
	items := make([]models.ResultItem, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, models.ResultItem{
			ResourceURL: fmt.Sprintf("%s?website=%d", base, i),
			Label:       fmt.Sprintf("Image %d", i),
		})
	}
	return items
}
