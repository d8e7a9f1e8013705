// Package http provides HTTP implementations of sitecorpus.Fetcher and
// sitecorpus.SitemapService for static sites that don't require
// JavaScript rendering.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/sitecorpus"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 15 * time.Second

// DefaultMaxBodySize caps how much of a response body is read.
const DefaultMaxBodySize = 10 << 20

// DefaultHeaders are sent with every request so the crawler is served
// the same pages a desktop browser would get.
var DefaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "ja,en-US;q=0.7,en;q=0.3",
}

// Ensure Fetcher implements sitecorpus.Fetcher at compile time.
var _ sitecorpus.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves and parses pages with plain HTTP GET requests.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	headers     map[string]string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for each Fetch, covering the request and
// reading the body. Defaults to DefaultFetchTimeout (15s) if not
// specified. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithHeader overrides or adds a request header.
func WithHeader(key, value string) Option {
	return func(f *Fetcher) {
		f.headers[key] = value
	}
}

// WithMaxBodySize limits how many bytes of a response body are read.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithClient replaces the underlying HTTP client. The client is not
// modified; the fetch timeout is applied per request.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		headers:     make(map[string]string, len(DefaultHeaders)),
		maxBodySize: DefaultMaxBodySize,
	}
	for k, v := range DefaultHeaders {
		f.headers[k] = v
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{}
	}

	return f
}

// Fetch issues one GET for url, decodes the body to UTF-8 and parses it.
// A page is returned for every response, whatever its status code;
// classifying error statuses is up to the caller.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*sitecorpus.Page, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, sitecorpus.Errorf(sitecorpus.EINVALID, "invalid request for %s: %v", url, err)
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, sitecorpus.Errorf(sitecorpus.EUNAVAILABLE, "GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, sitecorpus.Errorf(sitecorpus.EUNAVAILABLE, "read %s: %v", url, err)
	}

	body, err := decodeUTF8(raw, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}

	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}

	return &sitecorpus.Page{
		URL:        url,
		StatusCode: resp.StatusCode,
		Body:       body,
		Root:       root,
	}, nil
}

// decodeUTF8 converts raw to UTF-8 using the Content-Type charset, a
// <meta> declaration or content sniffing, in that order.
func decodeUTF8(raw []byte, contentType string) ([]byte, error) {
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
