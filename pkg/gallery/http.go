package gallery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"image-crawler-go/pkg/notify"
)

// HTTPLoader fetches image data so an entry can move to Loaded.
type HTTPLoader struct {
	client *http.Client
}

func NewHTTPLoader(client *http.Client) *HTTPLoader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPLoader{client: client}
}

// Load downloads and discards the resource body.
func (l *HTTPLoader) Load(ctx context.Context, resourceURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resourceURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image load failed: status %d", resp.StatusCode)
	}
	return nil
}

// HTTPDownloader saves resources into a directory and reports the result
// through a notifier.
type HTTPDownloader struct {
	client   *http.Client
	dir      string
	notifier notify.Notifier
}

func NewHTTPDownloader(client *http.Client, dir string, notifier notify.Notifier) *HTTPDownloader {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if notifier == nil {
		notifier = notify.Multi{}
	}
	return &HTTPDownloader{client: client, dir: dir, notifier: notifier}
}

func (d *HTTPDownloader) Save(ctx context.Context, resourceURL, fileName string) {
	dest, err := d.fetch(ctx, resourceURL, fileName)
	if err != nil {
		d.notifier.Notify(notify.Error("Download failed", err.Error()))
		return
	}
	d.notifier.Notify(notify.Info("Downloaded", fmt.Sprintf("Saved %s", dest)))
}

func (d *HTTPDownloader) fetch(ctx context.Context, resourceURL, fileName string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", resourceURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch %s: status %d", resourceURL, resp.StatusCode)
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	dest := filepath.Join(d.dir, filepath.Base(fileName))
	tmp, err := os.CreateTemp(d.dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	// dest only ever appears complete
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return dest, nil
}
