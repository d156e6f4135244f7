package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"image-crawler-go/pkg/keystore"
	"image-crawler-go/pkg/models"
	"image-crawler-go/pkg/notify"
	"image-crawler-go/pkg/progress"
	"image-crawler-go/pkg/utils"
)

// Operation performs the remote crawl for a validated request.
type Operation interface {
	Crawl(ctx context.Context, req models.CrawlRequest) (models.CrawlOutcome, error)
}

// OperationFunc adapts a function to Operation.
type OperationFunc func(ctx context.Context, req models.CrawlRequest) (models.CrawlOutcome, error)

func (f OperationFunc) Crawl(ctx context.Context, req models.CrawlRequest) (models.CrawlOutcome, error) {
	return f(ctx, req)
}

// ResultSink receives successful outcomes for display.
type ResultSink interface {
	Show(outcome *models.Success)
}

// Deps are the collaborators of an Invoker. Sink may be nil.
type Deps struct {
	Store     keystore.Store
	Notifier  notify.Notifier
	Progress  *progress.Simulator
	Operation Operation
	Sink      ResultSink
}

// Invoker runs one request/response cycle at a time: validate, persist the
// credential, run the operation under simulated progress, report the outcome.
type Invoker struct {
	deps    Deps
	pending atomic.Bool

	mu   sync.RWMutex
	last *models.Success
}

func New(deps Deps) *Invoker {
	if deps.Notifier == nil {
		deps.Notifier = notify.Multi{}
	}
	if deps.Progress == nil {
		deps.Progress = progress.New(nil, progress.Config{})
	}
	return &Invoker{deps: deps}
}

// Pending reports whether a submission is in flight.
func (inv *Invoker) Pending() bool {
	return inv.pending.Load()
}

// Progress exposes the simulator so surfaces can render it.
func (inv *Invoker) Progress() *progress.Simulator {
	return inv.deps.Progress
}

// Last returns the most recent successful outcome, or nil.
func (inv *Invoker) Last() *models.Success {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.last
}

// StoredCredential returns the persisted API key, or "" when none is stored.
func (inv *Invoker) StoredCredential(ctx context.Context) (string, error) {
	return keystore.Credential(ctx, inv.deps.Store)
}

// Submit validates the input and runs the crawl. On success the outcome is
// handed to the sink and returned; every error is a *CrawlError and has
// already been reported to the notifier.
func (inv *Invoker) Submit(ctx context.Context, rawURL, rawCredential string) (*models.Success, error) {
	if !inv.pending.CompareAndSwap(false, true) {
		err := newBusyError()
		inv.report(err)
		return nil, err
	}
	defer inv.pending.Store(false)

	req, err := Validate(rawURL, rawCredential)
	if err != nil {
		cerr := classify(err)
		inv.report(cerr)
		return nil, cerr
	}

	if err := inv.deps.Store.Set(ctx, keystore.CredentialKey, req.Credential); err != nil {
		cerr := newUnexpectedError(fmt.Errorf("persist credential: %w", err))
		inv.report(cerr)
		return nil, cerr
	}

	outcome, err := inv.invoke(ctx, req)
	if err != nil {
		cerr := classify(err)
		inv.report(cerr)
		return nil, cerr
	}

	switch o := outcome.(type) {
	case *models.Success:
		inv.deps.Notifier.Notify(notify.Info("Success",
			fmt.Sprintf("Found %d images on the website", len(o.Items))))
		inv.mu.Lock()
		inv.last = o
		inv.mu.Unlock()
		if inv.deps.Sink != nil {
			inv.deps.Sink.Show(o)
		}
		return o, nil
	case *models.Failure:
		cerr := NewOperationFailedError(o.Reason)
		inv.report(cerr)
		return nil, cerr
	default:
		cerr := newUnexpectedError(fmt.Errorf("operation returned %T", outcome))
		inv.report(cerr)
		return nil, cerr
	}
}

// invoke runs the operation between Start and Complete. Complete runs on
// every path, panics included.
func (inv *Invoker) invoke(ctx context.Context, req models.CrawlRequest) (outcome models.CrawlOutcome, err error) {
	inv.deps.Progress.Start()
	defer inv.deps.Progress.Complete()
	defer func() {
		if r := recover(); r != nil {
			outcome = nil
			err = newUnexpectedError(fmt.Errorf("panic: %v", r))
		}
	}()

	return inv.deps.Operation.Crawl(ctx, req)
}

// Validate checks the raw form input in order: credential, URL presence,
// URL shape.
func Validate(rawURL, rawCredential string) (models.CrawlRequest, error) {
	credential := strings.TrimSpace(rawCredential)
	if credential == "" {
		return models.CrawlRequest{}, newMissingCredentialError()
	}

	target, err := utils.ValidateURL(rawURL)
	if errors.Is(err, utils.ErrURLRequired) {
		return models.CrawlRequest{}, newMissingURLError(err)
	}
	if err != nil {
		return models.CrawlRequest{}, newInvalidURLError(err)
	}

	return models.CrawlRequest{TargetURL: target, Credential: credential}, nil
}

func classify(err error) *CrawlError {
	var crawlErr *CrawlError
	if errors.As(err, &crawlErr) {
		return crawlErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &CrawlError{Type: ErrorTypeOperationFailed, Message: "crawl cancelled", Cause: err}
	}
	return newUnexpectedError(err)
}

func (inv *Invoker) report(err *CrawlError) {
	inv.deps.Notifier.Notify(notify.Error(err.Title(), err.UserMessage()))
}
