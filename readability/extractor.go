// Package readability extracts page content with go-readability.
package readability

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/sitecorpus"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// Ensure Extractor implements sitecorpus.Extractor at compile time.
var _ sitecorpus.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from a page.
type Extractor struct {
	// Fallback handles pages readability rejects.
	Fallback sitecorpus.Extractor
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the main article of the page.
func (e *Extractor) Extract(page *sitecorpus.Page) (*sitecorpus.Content, error) {
	content, err := e.extract(page)
	if err != nil && e.Fallback != nil {
		return e.Fallback.Extract(page)
	}
	return content, err
}

func (e *Extractor) extract(page *sitecorpus.Page) (*sitecorpus.Content, error) {
	var rawHTML string
	switch {
	case len(bytes.TrimSpace(page.Body)) > 0:
		rawHTML = string(page.Body)
	case page.Root != nil:
		var buf bytes.Buffer
		if err := html.Render(&buf, page.Root); err != nil {
			return nil, err
		}
		rawHTML = buf.String()
	default:
		return nil, sitecorpus.Errorf(sitecorpus.EINVALID, "empty HTML input")
	}

	pageURL, err := url.Parse(page.URL)
	if err != nil || !pageURL.IsAbs() {
		pageURL = nil
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL)
	if err != nil {
		return nil, err
	}

	return &sitecorpus.Content{
		URL:    page.URL,
		Title:  article.Title,
		Text:   article.TextContent,
		HTML:   article.Content,
		Source: "readability",
	}, nil
}
