package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitecorpus"
)

var _ sitecorpus.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor lists the anchors of a page as absolute URLs.
type LinkExtractor struct {
	// Selector picks the anchors to follow. Defaults to "a[href]".
	Selector string
}

// NewLinkExtractor returns a LinkExtractor following every anchor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{Selector: "a[href]"}
}

// ExtractLinks returns each distinct link once, in document order, resolved
// against the page URL (or a <base href> when present) with the fragment
// stripped. Self links and non-HTTP links are skipped. Scope filtering is
// left to the frontier.
func (e *LinkExtractor) ExtractLinks(page *sitecorpus.Page) ([]string, error) {
	base, err := url.Parse(page.URL)
	if err != nil {
		return nil, sitecorpus.Errorf(sitecorpus.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := readDocument(page)
	if err != nil {
		return nil, err
	}

	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			base = base.ResolveReference(ref)
		}
	}

	selector := e.Selector
	if selector == "" {
		selector = "a[href]"
	}

	seen := make(map[string]bool)
	var links []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || strings.TrimSpace(href) == "" {
			return
		}

		// Skip non-HTTP links (javascript:, mailto:, etc.)
		if isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, page.URL, href)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})

	return links, nil
}

// resolveURL resolves href against base and strips the fragment.
// Returns empty string if the href cannot be parsed, is not HTTP, or
// points back at the page itself.
func resolveURL(base *url.URL, pageURL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	resolved.RawFragment = ""

	result := resolved.String()
	if self, err := url.Parse(pageURL); err == nil {
		self.Fragment = ""
		self.RawFragment = ""
		if result == self.String() {
			return ""
		}
	}
	return result
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
