package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"image-crawler-go/pkg/clock"
	"image-crawler-go/pkg/crawler"
	"image-crawler-go/pkg/keystore"
	"image-crawler-go/pkg/metrics"
	"image-crawler-go/pkg/models"
	"image-crawler-go/pkg/progress"
	"image-crawler-go/pkg/scraper"
	"image-crawler-go/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router http.Handler
	store  *keystore.Memory
	clock  *clock.Manual
}

func newTestServer(t *testing.T, op crawler.Operation) *testServer {
	t.Helper()
	ts := &testServer{
		store: keystore.NewMemory(),
		clock: clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	if op == nil {
		op = scraper.NewSimulated(ts.clock, scraper.SimulatedConfig{Delay: time.Nanosecond})
	}
	rec, err := metrics.New()
	require.NoError(t, err)

	inv := crawler.New(crawler.Deps{
		Store:     ts.store,
		Progress:  progress.New(ts.clock, progress.Config{}),
		Operation: rec.Instrument(op),
	})
	ts.router = NewRouter(services.NewCrawlService(inv, rec), rec, nil)
	return ts
}

func (ts *testServer) do(method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func instant(outcome models.CrawlOutcome, err error) crawler.Operation {
	return crawler.OperationFunc(func(context.Context, models.CrawlRequest) (models.CrawlOutcome, error) {
		return outcome, err
	})
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	w := ts.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestSubmitCrawl_Success(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, instant(models.NewSuccess("https://example.com",
		scraper.SampleImages(scraper.DefaultImageBase, 8), time.Now()), nil))

	w := ts.do(http.MethodPost, "/api/v1/crawls",
		map[string]string{"url": "https://example.com", "api_key": "secret-key"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.CrawlResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	require.Len(t, resp.Data.Items, 8)
	assert.Equal(t, "Image 1", resp.Data.Items[0].Label)
	assert.Equal(t, scraper.DefaultImageBase+"?website=8", resp.Data.Items[7].ResourceURL)

	stored, err := keystore.Credential(context.Background(), ts.store)
	require.NoError(t, err)
	assert.Equal(t, "secret-key", stored)

	latest := ts.do(http.MethodGet, "/api/v1/crawls/latest", nil, nil)
	assert.Equal(t, http.StatusOK, latest.Code)

	cred := decode(t, ts.do(http.MethodGet, "/api/v1/credential", nil, nil))
	assert.Equal(t, true, cred["present"])
	assert.Equal(t, "se••••••ey", cred["masked"])

	prog := decode(t, ts.do(http.MethodGet, "/api/v1/progress", nil, nil))
	assert.Equal(t, float64(progress.Done), prog["progress"])
}

func TestSubmitCrawl_SimulatedOperation(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)

	var wg sync.WaitGroup
	var w *httptest.ResponseRecorder
	wg.Add(1)
	go func() {
		defer wg.Done()
		w = ts.do(http.MethodPost, "/api/v1/crawls",
			map[string]string{"url": "https://example.com", "api_key": "k"}, nil)
	}()

	// progress tick + crawl delay
	ts.clock.WaitForTimers(2)
	ts.clock.Advance(time.Millisecond)
	wg.Wait()

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.CrawlResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Items, scraper.DefaultItemCount)
}

func TestSubmitCrawl_BearerCredential(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, instant(models.NewSuccess("https://example.com", nil, time.Now()), nil))
	w := ts.do(http.MethodPost, "/api/v1/crawls",
		map[string]string{"url": "https://example.com"},
		map[string]string{"Authorization": "Bearer from-header"})
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := keystore.Credential(context.Background(), ts.store)
	require.NoError(t, err)
	assert.Equal(t, "from-header", stored)
}

func TestSubmitCrawl_ErrorStatuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		op       crawler.Operation
		body     map[string]string
		status   int
		errType  string
		errorMsg string
	}{
		{
			name:     "missing credential",
			body:     map[string]string{"url": "https://example.com"},
			status:   http.StatusBadRequest,
			errType:  "missing_credential",
			errorMsg: "Please enter your API key to proceed",
		},
		{
			name:    "missing url",
			body:    map[string]string{"api_key": "k"},
			status:  http.StatusBadRequest,
			errType: "missing_url",
		},
		{
			name:    "invalid url",
			body:    map[string]string{"url": "example.com", "api_key": "k"},
			status:  http.StatusBadRequest,
			errType: "invalid_url",
		},
		{
			name:     "operation failure",
			op:       instant(&models.Failure{Reason: "rate limited"}, nil),
			body:     map[string]string{"url": "https://example.com", "api_key": "k"},
			status:   http.StatusBadGateway,
			errType:  "operation_failed",
			errorMsg: "rate limited",
		},
		{
			name:     "unexpected error",
			op:       instant(nil, assert.AnError),
			body:     map[string]string{"url": "https://example.com", "api_key": "k"},
			status:   http.StatusInternalServerError,
			errType:  "unexpected_failure",
			errorMsg: crawler.GenericFailureMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := newTestServer(t, tt.op)
			w := ts.do(http.MethodPost, "/api/v1/crawls", tt.body, nil)
			assert.Equal(t, tt.status, w.Code)

			out := decode(t, w)
			assert.Equal(t, false, out["success"])
			assert.Equal(t, tt.errType, out["type"])
			if tt.errorMsg != "" {
				assert.Equal(t, tt.errorMsg, out["error"])
			}
		})
	}
}

func TestSubmitCrawl_MalformedBody(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/crawls", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decode(t, w)["type"])
}

func TestSubmitCrawl_BusyReturnsConflict(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	entered := make(chan struct{})
	op := crawler.OperationFunc(func(ctx context.Context, req models.CrawlRequest) (models.CrawlOutcome, error) {
		close(entered)
		<-release
		return models.NewSuccess(req.TargetURL, nil, time.Now()), nil
	})
	ts := newTestServer(t, op)

	body := map[string]string{"url": "https://example.com", "api_key": "k"}
	done := make(chan int)
	go func() {
		done <- ts.do(http.MethodPost, "/api/v1/crawls", body, nil).Code
	}()
	<-entered

	w := ts.do(http.MethodPost, "/api/v1/crawls", body, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "busy", decode(t, w)["type"])

	close(release)
	assert.Equal(t, http.StatusOK, <-done)
}

func TestLatestCrawl_NoResults(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	w := ts.do(http.MethodGet, "/api/v1/crawls/latest", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "no results yet", decode(t, w)["error"])

	cred := decode(t, ts.do(http.MethodGet, "/api/v1/credential", nil, nil))
	assert.Equal(t, false, cred["present"])
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, instant(models.NewSuccess("https://example.com", nil, time.Now()), nil))
	ts.do(http.MethodPost, "/api/v1/crawls",
		map[string]string{"url": "https://example.com", "api_key": "k"}, nil)

	w := ts.do(http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `image_crawler_submissions_total{result="success"} 1`)
	assert.Contains(t, w.Body.String(), "image_crawler_crawl_duration_seconds_count 1")
}
