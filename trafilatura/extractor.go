// Package trafilatura extracts page content with go-trafilatura.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/sitecorpus"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements sitecorpus.Extractor at compile time.
var _ sitecorpus.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from a page.
type Extractor struct {
	// Fallback handles pages trafilatura cannot extract anything from.
	Fallback sitecorpus.Extractor
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the main content of the page.
func (e *Extractor) Extract(page *sitecorpus.Page) (*sitecorpus.Content, error) {
	content, err := e.extract(page)
	if err != nil && e.Fallback != nil {
		return e.Fallback.Extract(page)
	}
	return content, err
}

func (e *Extractor) extract(page *sitecorpus.Page) (*sitecorpus.Content, error) {
	rawHTML, err := pageHTML(page)
	if err != nil {
		return nil, err
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if u, err := url.Parse(page.URL); err == nil && u.IsAbs() {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(result.ContentText) == "" && contentHTML == "" {
		return nil, sitecorpus.Errorf(sitecorpus.ENOTFOUND, "no content extracted from %s", page.URL)
	}

	return &sitecorpus.Content{
		URL:    page.URL,
		Title:  result.Metadata.Title,
		Text:   result.ContentText,
		HTML:   contentHTML,
		Source: "trafilatura",
	}, nil
}

// pageHTML returns the page markup, rendering the parse tree when the raw
// body is unavailable.
func pageHTML(page *sitecorpus.Page) (string, error) {
	if len(bytes.TrimSpace(page.Body)) > 0 {
		return string(page.Body), nil
	}
	if page.Root != nil {
		return renderNode(page.Root)
	}
	return "", sitecorpus.Errorf(sitecorpus.EINVALID, "empty HTML input")
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
