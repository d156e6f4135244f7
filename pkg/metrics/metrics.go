package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"image-crawler-go/pkg/crawler"
	"image-crawler-go/pkg/models"
	"image-crawler-go/pkg/progress"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ResultSuccess labels submissions that produced results.
const ResultSuccess = "success"

// Recorder exposes crawl metrics on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	submissions *prometheus.CounterVec
	progress    prometheus.Gauge
	duration    prometheus.Histogram
}

func New() (*Recorder, error) {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_crawler_submissions_total",
			Help: "Crawl submissions by result",
		},
		[]string{"result"},
	)

	r.progress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_crawler_progress_percent",
			Help: "Current simulated crawl progress",
		},
	)

	r.duration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "image_crawler_crawl_duration_seconds",
			Help:    "Duration of crawl operations in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 3, 5, 10, 30},
		},
	)

	for _, c := range []prometheus.Collector{r.submissions, r.progress, r.duration} {
		if err := r.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return r, nil
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveSubmission counts one Submit result. Errors are labelled by their
// crawl error type.
func (r *Recorder) ObserveSubmission(err error) {
	r.submissions.WithLabelValues(ResultLabel(err)).Inc()
}

// TrackProgress mirrors s into the progress gauge.
func (r *Recorder) TrackProgress(s *progress.Simulator) {
	r.progress.Set(float64(s.Value()))
	s.OnChange(func(v int) {
		r.progress.Set(float64(v))
	})
}

// Instrument wraps op so every call is timed.
func (r *Recorder) Instrument(op crawler.Operation) crawler.Operation {
	return crawler.OperationFunc(func(ctx context.Context, req models.CrawlRequest) (models.CrawlOutcome, error) {
		start := time.Now()
		defer func() {
			r.duration.Observe(time.Since(start).Seconds())
		}()
		return op.Crawl(ctx, req)
	})
}

// ResultLabel maps a Submit error to a metric label.
func ResultLabel(err error) string {
	if err == nil {
		return ResultSuccess
	}
	var crawlErr *crawler.CrawlError
	if errors.As(err, &crawlErr) {
		return string(crawlErr.Type)
	}
	return string(crawler.ErrorTypeUnexpected)
}
