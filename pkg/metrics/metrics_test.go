package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"image-crawler-go/pkg/clock"
	"image-crawler-go/pkg/crawler"
	"image-crawler-go/pkg/models"
	"image-crawler-go/pkg/progress"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ResultSuccess, ResultLabel(nil))
	assert.Equal(t, "operation_failed", ResultLabel(crawler.NewOperationFailedError("nope")))
	assert.Equal(t, "unexpected_failure", ResultLabel(errors.New("boom")))
}

func TestRecorder_CountsSubmissions(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)

	r.ObserveSubmission(nil)
	r.ObserveSubmission(nil)
	r.ObserveSubmission(crawler.NewOperationFailedError(""))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.submissions.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.submissions.WithLabelValues("operation_failed")))
}

func TestRecorder_TracksProgress(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)

	c := clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	sim := progress.New(c, progress.Config{})
	r.TrackProgress(sim)

	sim.Start()
	c.Advance(600 * time.Millisecond)
	assert.Equal(t, 20.0, testutil.ToFloat64(r.progress))

	sim.Complete()
	assert.Equal(t, 100.0, testutil.ToFloat64(r.progress))

	c.Advance(time.Second)
	assert.Equal(t, 0.0, testutil.ToFloat64(r.progress))
}

func TestRecorder_InstrumentObservesDuration(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)

	op := r.Instrument(crawler.OperationFunc(func(_ context.Context, req models.CrawlRequest) (models.CrawlOutcome, error) {
		return &models.Failure{Reason: "x"}, nil
	}))
	out, err := op.Crawl(context.Background(), models.CrawlRequest{TargetURL: "https://example.com"})
	require.NoError(t, err)
	assert.IsType(t, &models.Failure{}, out)

	assert.Equal(t, 1, testutil.CollectAndCount(r.duration))
}

func TestRecorder_Handler(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)
	r.ObserveSubmission(nil)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `image_crawler_submissions_total{result="success"} 1`)
	assert.Contains(t, string(body), "image_crawler_progress_percent")
}
