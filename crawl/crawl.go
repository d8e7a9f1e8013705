// Package crawl drives a bounded single-site crawl. It claims URLs from a
// frontier, runs each through fetch, classification, extraction and
// normalization on a worker pool, and persists accepted pages.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/sitecorpus"
)

// Crawl defaults.
const (
	DefaultConcurrency  = 16
	DefaultFetchTimeout = 15 * time.Second
	DefaultMinContent   = 100
)

// Format selects how extracted content is normalized before it is written.
type Format string

const (
	// FormatText cleans the linearized text for an embedding corpus.
	FormatText Format = "text"
	// FormatMarkdown converts the content region to Markdown and strips links.
	FormatMarkdown Format = "markdown"
)

// State is the lifecycle stage of a Crawler.
type State int32

const (
	StateIdle State = iota
	StateRunning
	// StateDraining is entered once the frontier is exhausted and the
	// last in-flight pages have completed.
	StateDraining
	// StateAborting is entered when the run is canceled; in-flight pages
	// complete but nothing new is dispatched.
	StateAborting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateAborting:
		return "aborting"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Crawler orchestrates one crawl run. A Crawler is single-use.
type Crawler struct {
	Fetcher    sitecorpus.Fetcher
	Classifier sitecorpus.Classifier
	Extractor  sitecorpus.Extractor

	// Converter renders content HTML as Markdown. Required for FormatMarkdown.
	Converter sitecorpus.Converter

	// Links enables link following. When nil only the seeds are crawled.
	Links sitecorpus.LinkExtractor

	// Documents receives accepted pages. When nil pages are classified
	// but not extracted or written, which is how discovery runs.
	Documents sitecorpus.DocumentWriter

	// Recorder receives every URL admitted to the frontier.
	Recorder sitecorpus.LinkRecorder

	// Reports persists the report at the end of the run.
	Reports sitecorpus.ReportWriter

	RateLimiter sitecorpus.DomainLimiter
	Robots      sitecorpus.RobotsPolicy

	Format       Format
	Concurrency  int
	FetchTimeout time.Duration
	// MinContent is the number of characters normalized text must exceed.
	MinContent int
	// MaxPages caps the number of dispatched URLs. Zero means unbounded.
	MaxPages    int
	RetryDelays []time.Duration
	RetryLog    LogFunc

	// Now returns the scrape timestamp. Defaults to time.Now.
	Now func() time.Time

	state atomic.Int32
}

// ProgressEvent reports progress during a crawl run.
type ProgressEvent struct {
	Type      ProgressType
	URL       string
	Outcome   sitecorpus.Outcome
	Detail    string
	Completed int // URLs finished so far
	Queued    int // URLs waiting in the frontier
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressAccepted
	ProgressRejected
	ProgressSkipped
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
// It is always called from a single goroutine.
type ProgressFunc func(event ProgressEvent)

// State returns the current lifecycle stage.
func (c *Crawler) State() State {
	return State(c.state.Load())
}

func (c *Crawler) setState(s State) {
	c.state.Store(int32(s))
}

// pageResult holds the outcome of processing a single URL.
type pageResult struct {
	target  sitecorpus.Target
	outcome sitecorpus.Outcome
	detail  string
	skipped bool
	links   []string
}

// Run seeds the frontier and crawls until it is exhausted or ctx is
// canceled. Per-page failures are recorded in the returned report and
// never stop the run. The report is written through Reports whenever at
// least one URL was attempted, including canceled runs.
//
// Run returns an error for invalid configuration, before anything is
// fetched, and for recorder or report write failures. A canceled run
// returns the partial report together with the context error.
func (c *Crawler) Run(ctx context.Context, frontier sitecorpus.URLFrontier, seeds []string, progress ProgressFunc) (*sitecorpus.Report, error) {
	if err := c.validate(frontier); err != nil {
		return nil, err
	}
	if !c.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return nil, sitecorpus.Errorf(sitecorpus.ECONFLICT, "crawler already started")
	}
	defer c.setState(StateDone)

	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	// Seeds the frontier rejects (outside the domain or unparsable) are
	// counted as skipped so every distinct seed is accounted for.
	var rejected []ProgressEvent
	distinct := make(map[string]bool, len(seeds))
	for _, seed := range seeds {
		key, detail := seed, "invalid URL"
		if u, err := NormalizeURL(seed, ""); err == nil {
			key, detail = u.String(), "outside the crawl domain"
		}
		if distinct[key] {
			continue
		}
		distinct[key] = true
		if !c.offer(runCtx, cancel, frontier, seed, "", 0) {
			rejected = append(rejected, ProgressEvent{Type: ProgressSkipped, URL: key, Detail: detail})
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Queued: frontier.Len()})
	}

	report := sitecorpus.NewReport()
	completed := 0
	for _, event := range rejected {
		report.RecordSkipped()
		completed++
		if progress != nil {
			event.Completed = completed
			event.Queued = frontier.Len()
			progress(event)
		}
	}
	c.walkFrontier(runCtx, frontier, func(res *pageResult) {
		completed++
		event := ProgressEvent{URL: res.target.URL, Outcome: res.outcome, Detail: res.detail}
		switch {
		case res.skipped:
			report.RecordSkipped()
			event.Type = ProgressSkipped
		case res.outcome == sitecorpus.Success:
			report.RecordSuccess()
			event.Type = ProgressAccepted
		default:
			report.RecordFailure(res.outcome, res.target.URL, res.detail)
			event.Type = ProgressRejected
		}
		for _, link := range res.links {
			c.offer(runCtx, cancel, frontier, link, res.target.URL, res.target.Depth+1)
		}
		if progress != nil {
			event.Completed = completed
			event.Queued = frontier.Len()
			progress(event)
		}
	})

	var runErr error
	if runCtx.Err() != nil {
		c.setState(StateAborting)
		runErr = context.Cause(runCtx)
	} else {
		c.setState(StateDraining)
	}

	if c.Reports != nil && report.Attempted() > 0 {
		if err := c.Reports.WriteReport(context.WithoutCancel(ctx), report); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("write report: %w", err))
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: completed, Queued: frontier.Len()})
	}
	return report, runErr
}

// offer admits a URL to the frontier and records it. A recorder failure
// cancels the run. Returns false if the frontier rejected the URL.
func (c *Crawler) offer(ctx context.Context, cancel context.CancelCauseFunc, frontier sitecorpus.URLFrontier, rawURL, parent string, depth int) bool {
	if !frontier.Offer(rawURL, parent, depth) {
		return false
	}
	if c.Recorder == nil {
		return true
	}
	u, err := NormalizeURL(rawURL, parent)
	if err != nil {
		return true
	}
	if err := c.Recorder.RecordLink(ctx, u.String()); err != nil {
		cancel(fmt.Errorf("record link: %w", err))
	}
	return true
}

func (c *Crawler) validate(frontier sitecorpus.URLFrontier) error {
	if frontier == nil {
		return sitecorpus.Errorf(sitecorpus.EINVALID, "frontier required")
	}
	if c.Fetcher == nil {
		return sitecorpus.Errorf(sitecorpus.EINVALID, "fetcher required")
	}
	if c.Classifier == nil {
		return sitecorpus.Errorf(sitecorpus.EINVALID, "classifier required")
	}
	if c.Documents != nil && c.Extractor == nil {
		return sitecorpus.Errorf(sitecorpus.EINVALID, "extractor required")
	}
	switch c.format() {
	case FormatText:
	case FormatMarkdown:
		if c.Converter == nil {
			return sitecorpus.Errorf(sitecorpus.EINVALID, "markdown format requires a converter")
		}
	default:
		return sitecorpus.Errorf(sitecorpus.EINVALID, "unknown format %q", c.Format)
	}
	return nil
}

// process runs the per-URL pipeline. It never panics; any failure is
// folded into the result.
func (c *Crawler) process(ctx context.Context, target sitecorpus.Target) (res pageResult) {
	res.target = target
	defer func() {
		if v := recover(); v != nil {
			res.outcome = sitecorpus.GeneralError
			res.detail = fmt.Sprintf("panic: %v", v)
			res.skipped = false
		}
	}()

	if ctx.Err() != nil {
		res.skipped = true
		res.detail = "canceled"
		return res
	}

	u, err := url.Parse(target.URL)
	if err != nil {
		res.outcome = sitecorpus.GeneralError
		res.detail = err.Error()
		return res
	}

	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, u.Hostname()); err != nil {
			res.skipped = true
			res.detail = "canceled"
			return res
		}
	}

	// In-flight work outlives cancellation and is bounded by the fetch timeout.
	workCtx := context.WithoutCancel(ctx)

	if c.Robots != nil && !c.Robots.Allowed(workCtx, u) {
		res.skipped = true
		res.detail = "disallowed by robots.txt"
		return res
	}

	fetch := func(_ context.Context, rawURL string) (*sitecorpus.Page, error) {
		fetchCtx, cancel := context.WithTimeout(workCtx, c.fetchTimeout())
		defer cancel()
		return c.Fetcher.Fetch(fetchCtx, rawURL)
	}
	page, err := FetchWithRetryDelays(ctx, target.URL, fetch, c.RetryLog, c.RetryDelays)
	if err != nil {
		res.outcome = failureOutcome(err)
		res.detail = errorDetail(err)
		return res
	}

	if c.Links != nil {
		if links, err := c.Links.ExtractLinks(page); err == nil {
			res.links = links
		}
	}

	verdict := c.Classifier.Classify(page)
	if verdict.Outcome != sitecorpus.Success {
		res.outcome = verdict.Outcome
		res.detail = verdict.Detail
		return res
	}

	if c.Documents == nil {
		res.outcome = sitecorpus.Success
		return res
	}

	content, err := c.Extractor.Extract(page)
	if err != nil {
		res.outcome = sitecorpus.GeneralError
		res.detail = errorDetail(err)
		return res
	}

	text, err := c.normalize(content)
	if err != nil {
		res.outcome = sitecorpus.GeneralError
		res.detail = errorDetail(err)
		return res
	}
	if n := utf8.RuneCountInString(text); n <= c.minContent() {
		res.outcome = sitecorpus.NoContent
		res.detail = fmt.Sprintf("%d characters", n)
		return res
	}

	doc := &sitecorpus.Document{
		ID:          sitecorpus.DocumentID(target.URL),
		SourceURL:   target.URL,
		Title:       content.Title,
		Content:     text,
		ContentHash: sitecorpus.ContentHash(text),
		ScrapedAt:   c.now(),
	}
	if err := c.Documents.CreateDocument(workCtx, doc); err != nil {
		res.outcome = sitecorpus.GeneralError
		res.detail = errorDetail(err)
		return res
	}

	res.outcome = sitecorpus.Success
	return res
}

func (c *Crawler) normalize(content *sitecorpus.Content) (string, error) {
	if c.format() == FormatMarkdown {
		markdown, err := c.Converter.Convert(content.HTML)
		if err != nil {
			return "", fmt.Errorf("convert: %w", err)
		}
		return sitecorpus.RemoveLinks(markdown), nil
	}
	return sitecorpus.CleanCorpus(content.Text), nil
}

// failureOutcome maps a fetch error to its report category.
func failureOutcome(err error) sitecorpus.Outcome {
	if sitecorpus.ErrorCode(err) == sitecorpus.EUNAVAILABLE ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return sitecorpus.RequestError
	}
	return sitecorpus.GeneralError
}

func errorDetail(err error) string {
	var e *sitecorpus.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func (c *Crawler) format() Format {
	if c.Format == "" {
		return FormatText
	}
	return c.Format
}

func (c *Crawler) concurrency() int {
	if c.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return c.Concurrency
}

func (c *Crawler) fetchTimeout() time.Duration {
	if c.FetchTimeout <= 0 {
		return DefaultFetchTimeout
	}
	return c.FetchTimeout
}

func (c *Crawler) minContent() int {
	if c.MinContent <= 0 {
		return DefaultMinContent
	}
	return c.MinContent
}

func (c *Crawler) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
