package browse

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/adrianmross/objnav/internal/nav"
	"github.com/adrianmross/objnav/pkg/storage"
)

// Service is the listing client the fetcher drives.
type Service interface {
	Backend() storage.Backend
	ListContainers(ctx context.Context) ([]storage.Container, error)
	ListChildren(ctx context.Context, container, prefix string) (storage.Listing, error)
}

// Completion is a finished fetch delivered back to the controller.
type Completion struct {
	Request nav.Request
	Result  nav.ListingResult
	Err     error
	Elapsed time.Duration
}

// FetcherOptions tunes a Fetcher.
type FetcherOptions struct {
	// Timeout bounds each fetch including all of its pages.
	Timeout time.Duration
	// RequestsPerSecond throttles fetch starts; zero disables throttling.
	RequestsPerSecond float64
	// Buffer is the capacity of the completion channel.
	Buffer int
	Logger *zap.Logger
}

// DefaultFetchTimeout is used when FetcherOptions.Timeout is unset.
const DefaultFetchTimeout = 30 * time.Second

// Fetcher runs listings on background goroutines and funnels every outcome
// into one channel.
type Fetcher struct {
	svc     Service
	results chan Completion
	timeout time.Duration
	limiter *rate.Limiter
	log     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewFetcher creates a fetcher for svc.
func NewFetcher(svc Service, opts FetcherOptions) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultFetchTimeout
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 100
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Fetcher{
		svc:     svc,
		results: make(chan Completion, opts.Buffer),
		timeout: opts.Timeout,
		limiter: limiter,
		log:     opts.Logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Results is the channel completions arrive on.
func (f *Fetcher) Results() <-chan Completion { return f.results }

// Backend reports the backend of the underlying service.
func (f *Fetcher) Backend() storage.Backend { return f.svc.Backend() }

// Submit starts req in the background and returns it with its id assigned.
func (f *Fetcher) Submit(req nav.Request) nav.Request {
	req.ID = uuid.NewString()
	f.log.Debug("fetch started",
		zap.String("request_id", req.ID),
		zap.String("intent", req.Intent.String()),
		zap.String("container", req.Scope.Container),
		zap.String("prefix", req.Scope.Prefix),
	)
	go f.run(req)
	return req
}

func (f *Fetcher) run(req nav.Request) {
	start := time.Now()
	c := Completion{Request: req}
	if f.limiter != nil {
		if err := f.limiter.Wait(f.ctx); err != nil {
			return
		}
	}

	ctx, cancel := context.WithTimeout(f.ctx, f.timeout)
	defer cancel()
	if req.Scope.IsRoot() {
		containers, err := f.svc.ListContainers(ctx)
		c.Result, c.Err = nav.ContainersResult(containers), err
	} else {
		listing, err := f.svc.ListChildren(ctx, req.Scope.Container, req.Scope.Prefix)
		c.Result, c.Err = nav.EntriesResult(listing), err
	}
	c.Elapsed = time.Since(start)

	select {
	case f.results <- c:
	case <-f.ctx.Done():
	}
}

// Close abandons in-flight fetches. Completions not yet delivered are
// discarded.
func (f *Fetcher) Close() {
	f.cancel()
}
