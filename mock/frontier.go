package mock

import (
	"context"
	"net/url"

	"github.com/fwojciec/sitecorpus"
)

var _ sitecorpus.URLFrontier = (*URLFrontier)(nil)

// URLFrontier is a mock implementation of sitecorpus.URLFrontier.
type URLFrontier struct {
	OfferFn func(rawURL, parent string, depth int) bool
	NextFn  func() (sitecorpus.Target, bool)
	LenFn   func() int
	SeenFn  func(rawURL string) bool
}

func (f *URLFrontier) Offer(rawURL, parent string, depth int) bool {
	return f.OfferFn(rawURL, parent, depth)
}

func (f *URLFrontier) Next() (sitecorpus.Target, bool) {
	return f.NextFn()
}

func (f *URLFrontier) Len() int {
	return f.LenFn()
}

func (f *URLFrontier) Seen(rawURL string) bool {
	return f.SeenFn(rawURL)
}

var _ sitecorpus.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of sitecorpus.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

var _ sitecorpus.RobotsPolicy = (*RobotsPolicy)(nil)

// RobotsPolicy is a mock implementation of sitecorpus.RobotsPolicy.
type RobotsPolicy struct {
	AllowedFn func(ctx context.Context, target *url.URL) bool
}

func (p *RobotsPolicy) Allowed(ctx context.Context, target *url.URL) bool {
	return p.AllowedFn(ctx, target)
}

var _ sitecorpus.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of sitecorpus.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(page *sitecorpus.Page) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(page *sitecorpus.Page) ([]string, error) {
	return e.ExtractLinksFn(page)
}

var _ sitecorpus.LinkRecorder = (*LinkRecorder)(nil)

// LinkRecorder is a mock implementation of sitecorpus.LinkRecorder.
type LinkRecorder struct {
	RecordLinkFn func(ctx context.Context, url string) error
}

func (r *LinkRecorder) RecordLink(ctx context.Context, url string) error {
	return r.RecordLinkFn(ctx, url)
}
