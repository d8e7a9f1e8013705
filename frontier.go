package sitecorpus

import (
	"context"
	"net/url"
)

// Target is a URL scheduled for crawling.
// URL is normalized: absolute, fragment stripped, duplicate slashes collapsed.
type Target struct {
	URL    string
	Depth  int
	Parent string // empty for seeds
}

// URLFrontier manages the set of URLs still to be fetched in one crawl run.
type URLFrontier interface {
	// Offer resolves rawURL against parent and registers it as a candidate.
	// Returns false if the URL was filtered out or has already been seen.
	Offer(rawURL, parent string, depth int) bool

	// Next claims the next URL in breadth-first order.
	// A claimed URL is never returned again within the same run.
	// Returns false if the frontier is empty.
	Next() (Target, bool)

	// Len returns the number of URLs waiting to be claimed.
	Len() int

	// Seen returns true if the URL has been queued or claimed.
	Seen(rawURL string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// RobotsPolicy reports whether robots.txt allows fetching a URL.
type RobotsPolicy interface {
	Allowed(ctx context.Context, target *url.URL) bool
}

// LinkExtractor lists the outgoing links of a fetched page.
type LinkExtractor interface {
	// ExtractLinks returns href values resolved against the page URL,
	// in document order. Non-HTTP links are skipped.
	ExtractLinks(page *Page) ([]string, error)
}

// LinkRecorder receives URLs found during discovery.
type LinkRecorder interface {
	RecordLink(ctx context.Context, url string) error
}
