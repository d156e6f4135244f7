package scraper

// ScrapeStage represents the current stage of a crawl
type ScrapeStage string

const (
	StageValidating ScrapeStage = "validating"
	StageFetching   ScrapeStage = "fetching"
	StageExtracting ScrapeStage = "extracting"
	StageComplete   ScrapeStage = "complete"
)

// StageFor maps a progress value to the stage label shown next to the bar.
func StageFor(progress int) ScrapeStage {
	switch {
	case progress <= 0:
		return StageValidating
	case progress < 50:
		return StageFetching
	case progress < 100:
		return StageExtracting
	default:
		return StageComplete
	}
}

// ProgressCallback is called when the simulated crawl moves to a new stage
type ProgressCallback func(stage ScrapeStage, message string)
