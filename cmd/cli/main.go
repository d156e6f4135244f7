package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"image-crawler-go/pkg/cli"
	"image-crawler-go/pkg/cli/images"
	"image-crawler-go/pkg/cli/logger"
	"image-crawler-go/pkg/config"
)

func main() {
	var (
		crawlURL    = flag.String("crawl", "", "Crawl a website and print the found images")
		apiKey      = flag.String("api-key", "", "API key for the crawl (defaults to the stored key)")
		remote      = flag.Bool("remote", false, "Crawl through the API server at cli.base_url")
		download    = flag.Bool("download", false, "Download every found image (with --crawl)")
		downloadDir = flag.String("download-dir", "", "Directory for downloaded images")

		// Config commands
		configShow = flag.Bool("config-show", false, "Show current configuration")
		configSet  = flag.String("config-set", "", "Set a config value (format: section.key=value)")
	)
	flag.Parse()
	defer logger.CloseLog()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	app := cli.NewApp(cfg, "")
	app.SetDownloadDir(*downloadDir)

	// Handle config commands first (don't need a store)
	if *configShow {
		app.ShowConfig()
		return
	}
	if *configSet != "" {
		if err := app.SetConfig(*configSet); err != nil {
			log.Fatalf("failed to set config: %v", err)
		}
		fmt.Println("Configuration updated successfully")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *crawlURL != "" {
		if err := app.HandleCrawlCommand(ctx, *crawlURL, *apiKey, *remote, *download); err != nil {
			fmt.Fprint(os.Stderr, images.FormatErrorMessage(err))
			logger.CloseLog()
			os.Exit(1)
		}
		return
	}

	// Interactive TUI mode
	if err := app.Run(ctx, *remote); err != nil {
		fmt.Fprint(os.Stderr, images.FormatErrorMessage(err))
		logger.CloseLog()
		os.Exit(1)
	}
}
