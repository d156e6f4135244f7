package client

import (
	"context"
	"errors"
	"net/http"

	"image-crawler-go/pkg/crawler"
	"image-crawler-go/pkg/models"
)

// Health checks that the API is reachable
func (c *Client) Health(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/health", nil, nil)
}

// Crawl submits req to the API. It satisfies crawler.Operation so a local
// invoker can drive a remote crawl: a 502 comes back as a *models.Failure,
// a 409 as a busy *crawler.CrawlError.
func (c *Client) Crawl(ctx context.Context, req models.CrawlRequest) (models.CrawlOutcome, error) {
	payload := map[string]string{
		"url":     req.TargetURL,
		"api_key": req.Credential,
	}

	var resp models.CrawlResponse
	err := c.call(ctx, http.MethodPost, "/api/v1/crawls", payload, &resp)
	if err == nil {
		return resp.Outcome(), nil
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return nil, err
	}
	switch apiErr.StatusCode {
	case http.StatusBadGateway:
		return &models.Failure{Reason: apiErr.Message}, nil
	case http.StatusConflict:
		return nil, &crawler.CrawlError{Type: crawler.ErrorTypeBusy, Message: apiErr.Message, Cause: apiErr}
	default:
		return nil, err
	}
}

// Latest returns the last successful crawl on the server, or nil when there
// is none yet
func (c *Client) Latest(ctx context.Context) (*models.Success, error) {
	var resp models.CrawlResponse
	err := c.call(ctx, http.MethodGet, "/api/v1/crawls/latest", nil, &resp)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Progress returns the server's current progress value
func (c *Client) Progress(ctx context.Context) (int, error) {
	var resp struct {
		Progress int `json:"progress"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/v1/progress", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Progress, nil
}
