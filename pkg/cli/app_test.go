package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"image-crawler-go/pkg/cli/logger"
	"image-crawler-go/pkg/config"
	"image-crawler-go/pkg/models"
	"image-crawler-go/pkg/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// lockedBuffer is written from progress timer goroutines
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *lockedBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

func newTestApp(t *testing.T) (*App, *lockedBuffer, *lockedBuffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Store.Backend = "config"
	cfg.Crawl.DelayMillis = 1
	cfg.Progress.TickMillis = 1
	cfg.Progress.ResetDelayMillis = 1
	cfg.CLI.DownloadDir = filepath.Join(t.TempDir(), "downloads")

	app := NewApp(cfg, filepath.Join(t.TempDir(), "config.toml"))
	out, errOut := &lockedBuffer{}, &lockedBuffer{}
	app.out = out
	app.errOut = errOut
	return app, out, errOut
}

func TestSetConfig(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(t)

	require.NoError(t, app.SetConfig("crawl.item_count=3"))
	require.NoError(t, app.SetConfig("progress.tick_ms=50"))
	require.NoError(t, app.SetConfig("store.backend=memory"))
	require.NoError(t, app.SetConfig("cli.base_url=http://api.test"))

	reloaded, err := config.LoadFrom(app.configPath)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Crawl.ItemCount)
	assert.Equal(t, 50, reloaded.Progress.TickMillis)
	assert.Equal(t, "memory", reloaded.Store.Backend)
	assert.Equal(t, "http://api.test", reloaded.CLI.BaseURL)

	for _, bad := range []string{
		"nonsense",
		"crawl=1",
		"crawl.unknown=1",
		"api.port=abc",
		"progress.ceiling=150",
		"store.backend=redis",
		"weather.today=sunny",
	} {
		assert.Error(t, app.SetConfig(bad), bad)
	}
}

func TestShowConfig_MasksAPIKey(t *testing.T) {
	t.Parallel()

	app, out, _ := newTestApp(t)
	app.cfg.CLI.APIKey = "super-secret"
	app.ShowConfig()

	assert.NotContains(t, out.String(), "super-secret")
	assert.Contains(t, out.String(), "[crawl]")
	assert.Equal(t, "super-secret", app.cfg.CLI.APIKey)
}

func TestHandleCrawlCommand_Local(t *testing.T) {
	t.Parallel()

	app, out, errOut := newTestApp(t)
	app.cfg.Crawl.ItemCount = 3

	err := app.HandleCrawlCommand(context.Background(), "https://example.com", "my-key", false, false)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Found 3 images from https://example.com")
	assert.Contains(t, errOut.String(), "Found 3 images on the website")
	assert.Contains(t, errOut.String(), "100%")

	// the key is persisted to the config file
	reloaded, err := config.LoadFrom(app.configPath)
	require.NoError(t, err)
	assert.Equal(t, "my-key", reloaded.CLI.APIKey)

	// and reused when no key is given
	out.Reset()
	require.NoError(t, app.HandleCrawlCommand(context.Background(), "https://example.org", "", false, false))
	assert.Contains(t, out.String(), "Found 3 images from https://example.org")
}

func TestHandleCrawlCommand_KeepsOverridesOutOfConfigFile(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(t)
	require.NoError(t, config.SaveTo(app.configPath, app.cfg))
	saved := app.cfg.CLI.DownloadDir

	app.SetDownloadDir(filepath.Join(t.TempDir(), "one-off"))
	require.NoError(t, app.HandleCrawlCommand(context.Background(), "https://example.com", "abc123", false, false))

	reloaded, err := config.LoadFrom(app.configPath)
	require.NoError(t, err)
	assert.Equal(t, "abc123", reloaded.CLI.APIKey)
	assert.Equal(t, saved, reloaded.CLI.DownloadDir)

	// --config-set writes its own key only
	require.NoError(t, app.SetConfig("crawl.item_count=4"))
	reloaded, err = config.LoadFrom(app.configPath)
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.Crawl.ItemCount)
	assert.Equal(t, saved, reloaded.CLI.DownloadDir)
	assert.Equal(t, 4, app.cfg.Crawl.ItemCount)
}

func TestHandleCrawlCommand_ValidationError(t *testing.T) {
	t.Parallel()

	app, out, _ := newTestApp(t)

	err := app.HandleCrawlCommand(context.Background(), "example.com", "k", false, false)
	require.Error(t, err)
	assert.Equal(t, "crawl failed: Please enter a valid URL (including http:// or https://)", err.Error())
	assert.Empty(t, out.String())

	err = app.HandleCrawlCommand(context.Background(), "https://example.com", "", false, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Please enter your API key to proceed")
}

func TestHandleCrawlCommand_RemoteWithDownload(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/api/v1/crawls", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		items := scraper.SampleImages(srv.URL+"/img", 2)
		_ = json.NewEncoder(w).Encode(models.ToResponse(models.NewSuccess(body["url"], items, time.Now())))
	})
	mux.HandleFunc("/img", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("png"))
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	app, out, _ := newTestApp(t)
	app.cfg.CLI.BaseURL = srv.URL

	err := app.HandleCrawlCommand(context.Background(), "https://example.com", "k", true, true)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Found 2 images from https://example.com")

	for _, name := range []string{"Image-1", "Image-2"} {
		data, err := os.ReadFile(filepath.Join(app.cfg.CLI.DownloadDir, name))
		require.NoError(t, err)
		assert.Equal(t, "png", string(data))
	}
}

func TestHandleCrawlCommand_RemoteUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	app, _, _ := newTestApp(t)
	app.cfg.CLI.BaseURL = srv.URL

	err := app.HandleCrawlCommand(context.Background(), "https://example.com", "k", true, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crawler API unavailable")
}
