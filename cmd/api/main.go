package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"image-crawler-go/pkg/api"
	"image-crawler-go/pkg/clock"
	"image-crawler-go/pkg/config"
	"image-crawler-go/pkg/crawler"
	"image-crawler-go/pkg/metrics"
	"image-crawler-go/pkg/notify"
	"image-crawler-go/pkg/progress"
	"image-crawler-go/pkg/scraper"
	"image-crawler-go/pkg/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// Initialize credential store
	store, closeStore, err := services.OpenStore(ctx, cfg, "")
	if err != nil {
		log.Fatalf("failed to open credential store: %v", err)
	}
	defer closeStore()

	recorder, err := metrics.New()
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	op := scraper.NewSimulated(clock.Real(), services.SimulatedConfig(cfg)).
		WithProgress(func(stage scraper.ScrapeStage, message string) {
			log.Printf("crawl stage=%s: %s", stage, message)
		})

	invoker := crawler.New(crawler.Deps{
		Store:     store,
		Notifier:  notify.NewLogNotifier(log.Default()),
		Progress:  progress.New(clock.Real(), services.ProgressConfig(cfg)),
		Operation: recorder.Instrument(op),
	})

	// Initialize router
	router := api.NewRouter(services.NewCrawlService(invoker, recorder), recorder, log.Default())

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("API server starting on %s (store=%s)", srv.Addr, cfg.Store.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
