package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"image-crawler-go/pkg/cli/client"
	"image-crawler-go/pkg/cli/logger"
	"image-crawler-go/pkg/cli/tui"
	"image-crawler-go/pkg/clock"
	"image-crawler-go/pkg/config"
	"image-crawler-go/pkg/crawler"
	"image-crawler-go/pkg/gallery"
	"image-crawler-go/pkg/notify"
	"image-crawler-go/pkg/progress"
	"image-crawler-go/pkg/scraper"
	"image-crawler-go/pkg/services"
)

type App struct {
	cfg        *config.Config
	configPath string
	client     *client.Client
	out        io.Writer
	errOut     io.Writer
}

// NewApp creates the CLI app. An empty configPath uses the default location.
func NewApp(cfg *config.Config, configPath string) *App {
	return &App{
		cfg:        cfg,
		configPath: configPath,
		out:        os.Stdout,
		errOut:     os.Stderr,
	}
}

// SetDownloadDir overrides cli.download_dir for this run
func (a *App) SetDownloadDir(dir string) {
	if dir != "" {
		a.cfg.CLI.DownloadDir = dir
	}
}

// getClient returns the HTTP client, creating it if necessary
func (a *App) getClient() (*client.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	if a.cfg.CLI.BaseURL == "" {
		return nil, fmt.Errorf("API base URL not configured")
	}

	a.client = client.NewClient(a.cfg.CLI.BaseURL, "")
	return a.client, nil
}

// session is one wired invoker with its collaborators
type session struct {
	invoker *crawler.Invoker
	gallery *gallery.Gallery
	close   func()
}

// newSession wires the store, progress simulator and crawl operation. In
// remote mode the operation is the API client; otherwise it is the local
// simulated crawl.
func (a *App) newSession(ctx context.Context, remote bool, notifier notify.Notifier) (*session, error) {
	store, closeStore, err := services.OpenStore(ctx, a.cfg, a.configPath)
	if err != nil {
		return nil, err
	}

	var op crawler.Operation
	if remote {
		apiClient, err := a.getClient()
		if err != nil {
			closeStore()
			return nil, err
		}
		op = apiClient
	} else {
		op = scraper.NewSimulated(clock.Real(), services.SimulatedConfig(a.cfg)).
			WithProgress(func(stage scraper.ScrapeStage, message string) {
				logger.Log("crawl stage=%s: %s", stage, message)
			})
	}

	downloader := gallery.NewHTTPDownloader(nil, a.cfg.CLI.DownloadDir, notifier)
	g := gallery.New(downloader)

	inv := crawler.New(crawler.Deps{
		Store:     store,
		Notifier:  notifier,
		Progress:  progress.New(clock.Real(), services.ProgressConfig(a.cfg)),
		Operation: op,
		Sink:      g,
	})

	return &session{invoker: inv, gallery: g, close: closeStore}, nil
}

// Run launches the interactive TUI
func (a *App) Run(ctx context.Context, remote bool) error {
	queue := notify.NewQueue()
	notifier := notify.Multi{queue, notify.NewLogNotifier(logger.Logger())}

	s, err := a.newSession(ctx, remote, notifier)
	if err != nil {
		return err
	}
	defer s.close()

	return tui.Run(tui.Deps{
		Invoker: s.invoker,
		Gallery: s.gallery,
		Queue:   queue,
		Loader:  gallery.NewHTTPLoader(&http.Client{Timeout: 30 * time.Second}),
	})
}

// stderrNotifier prints notifications for non-interactive runs
func (a *App) stderrNotifier() notify.Notifier {
	return notify.Multi{
		notify.NewLogNotifier(log.New(a.errOut, "", 0)),
		notify.NewLogNotifier(logger.Logger()),
	}
}
