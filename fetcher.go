package sitecorpus

import (
	"context"

	"golang.org/x/net/html"
)

// Page is a fetched web page. It is transient: the pipeline consumes it
// during classification and extraction and never persists it.
type Page struct {
	URL        string
	StatusCode int
	Body       []byte     // UTF-8
	Root       *html.Node // parsed document tree
}

// Fetcher retrieves and parses pages.
type Fetcher interface {
	// Fetch issues a single GET for the URL and parses the response.
	// Network and timeout failures return an EUNAVAILABLE error.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*Page, error)

	// Close releases resources held by the fetcher.
	Close() error
}
