package services

import (
	"context"
	"fmt"

	"image-crawler-go/pkg/crawler"
	"image-crawler-go/pkg/metrics"
	"image-crawler-go/pkg/models"
	"image-crawler-go/pkg/utils"
)

// CrawlService handles business logic for crawl submissions
type CrawlService struct {
	invoker *crawler.Invoker
	metrics *metrics.Recorder
}

// NewCrawlService creates a new crawl service. recorder may be nil.
func NewCrawlService(invoker *crawler.Invoker, recorder *metrics.Recorder) *CrawlService {
	if recorder != nil {
		recorder.TrackProgress(invoker.Progress())
	}
	return &CrawlService{
		invoker: invoker,
		metrics: recorder,
	}
}

// Submit runs one crawl and records its result
func (s *CrawlService) Submit(ctx context.Context, rawURL, rawCredential string) (*models.Success, error) {
	result, err := s.invoker.Submit(ctx, rawURL, rawCredential)
	if s.metrics != nil {
		s.metrics.ObserveSubmission(err)
	}
	return result, err
}

// Latest returns the most recent successful crawl, or nil
func (s *CrawlService) Latest() *models.Success {
	return s.invoker.Last()
}

// Progress returns the current simulated progress
func (s *CrawlService) Progress() int {
	return s.invoker.Progress().Value()
}

// CredentialStatus describes the stored API key without revealing it
type CredentialStatus struct {
	Present bool   `json:"present"`
	Masked  string `json:"masked,omitempty"`
}

// Credential reports whether an API key is stored
func (s *CrawlService) Credential(ctx context.Context) (CredentialStatus, error) {
	key, err := s.invoker.StoredCredential(ctx)
	if err != nil {
		return CredentialStatus{}, fmt.Errorf("failed to read credential: %w", err)
	}
	if key == "" {
		return CredentialStatus{}, nil
	}
	return CredentialStatus{Present: true, Masked: utils.MaskSecret(key)}, nil
}
