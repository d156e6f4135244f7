package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"image-crawler-go/pkg/cli/images"
	"image-crawler-go/pkg/crawler"
	"image-crawler-go/pkg/progress"

	"golang.org/x/time/rate"
)

// downloadsPerSecond caps --download requests
const downloadsPerSecond = 4

// HandleCrawlCommand handles the --crawl command. An empty apiKey falls back
// to the stored one. With download set every image is saved to
// cli.download_dir.
func (a *App) HandleCrawlCommand(ctx context.Context, urlStr, apiKey string, remote, download bool) error {
	if remote {
		if err := a.checkRemote(ctx); err != nil {
			return err
		}
	}

	s, err := a.newSession(ctx, remote, a.stderrNotifier())
	if err != nil {
		return fmt.Errorf("failed to initialize crawler: %w", err)
	}
	defer s.close()

	if strings.TrimSpace(apiKey) == "" {
		stored, err := s.invoker.StoredCredential(ctx)
		if err != nil {
			return fmt.Errorf("failed to read stored API key: %w", err)
		}
		apiKey = stored
	}

	s.invoker.Progress().OnChange(func(v int) {
		if v == 0 {
			return
		}
		fmt.Fprintf(a.errOut, "\r⏳ Crawling in progress... %d%%", v)
		if v == progress.Done {
			fmt.Fprintln(a.errOut)
		}
	})

	result, err := s.invoker.Submit(ctx, urlStr, apiKey)
	if err != nil {
		var crawlErr *crawler.CrawlError
		if errors.As(err, &crawlErr) {
			return fmt.Errorf("crawl failed: %s", crawlErr.UserMessage())
		}
		return fmt.Errorf("crawl failed: %w", err)
	}

	fmt.Fprint(a.out, images.FormatTableOutput(result))

	if download {
		limiter := rate.NewLimiter(rate.Limit(downloadsPerSecond), 1)
		for i := range result.Items {
			if err := limiter.Wait(ctx); err != nil {
				return fmt.Errorf("download interrupted: %w", err)
			}
			s.gallery.Download(ctx, i)
		}
	}
	return nil
}

// checkRemote verifies the API is reachable before a remote crawl
func (a *App) checkRemote(ctx context.Context) error {
	apiClient, err := a.getClient()
	if err != nil {
		return err
	}

	fmt.Fprint(a.errOut, "⏳ Checking crawler API... ")
	if err := apiClient.Health(ctx); err != nil {
		fmt.Fprintln(a.errOut, "✗")

		// Provide helpful guidance for connection errors
		errStr := err.Error()
		if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "dial tcp") {
			return fmt.Errorf("crawler API unavailable at %s: %w\n\n"+
				"💡 The API is not running. To start it:\n"+
				"   go run ./cmd/api\n"+
				"   Or point the CLI elsewhere: --config-set cli.base_url=http://host:port", a.cfg.CLI.BaseURL, err)
		}

		return fmt.Errorf("crawler API unavailable: %w\n\nPlease check if the service is running", err)
	}
	fmt.Fprintln(a.errOut, "✓")
	return nil
}
