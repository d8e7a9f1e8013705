package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitecorpus"
)

var _ sitecorpus.Extractor = (*Extractor)(nil)

// BoilerplateSelector matches subtrees removed before any text is collected.
const BoilerplateSelector = "script, style, noscript, template, nav, footer, header, aside, menu, a"

// minTextLen is the rune count a text node must exceed to be kept.
const minTextLen = 2

// Strategy selects a candidate content region. It returns an empty
// selection when the page has no such region.
type Strategy struct {
	Name   string
	Select func(doc *goquery.Document) *goquery.Selection
}

// SelectorStrategy builds a Strategy that picks the first element
// matching a CSS selector. The selector doubles as the strategy name.
func SelectorStrategy(selector string) Strategy {
	return Strategy{
		Name: selector,
		Select: func(doc *goquery.Document) *goquery.Selection {
			return doc.Find(selector).First()
		},
	}
}

// DefaultStrategies returns the main-content selectors tried in order:
// the main landmark, then common content containers.
func DefaultStrategies() []Strategy {
	selectors := []string{
		"main",
		".main-content",
		".content",
		"#content",
		".product-info",
		".product-details",
		".entry-content",
		"article",
		".post-content",
	}
	strategies := make([]Strategy, len(selectors))
	for i, s := range selectors {
		strategies[i] = SelectorStrategy(s)
	}
	return strategies
}

// Extractor selects a page's main content region with an ordered
// list of strategies and falls back to the document body.
type Extractor struct {
	Strategies []Strategy
}

// NewExtractor returns an Extractor using DefaultStrategies.
func NewExtractor() *Extractor {
	return &Extractor{Strategies: DefaultStrategies()}
}

// Extract removes boilerplate, picks the first region a strategy finds and
// linearizes its text nodes one per line in document order.
func (e *Extractor) Extract(page *sitecorpus.Page) (*sitecorpus.Content, error) {
	doc, err := mutableDocument(page)
	if err != nil {
		return nil, err
	}

	title := pageTitle(doc)
	doc.Find(BoilerplateSelector).Remove()

	region, source := e.selectRegion(doc)

	regionHTML, err := goquery.OuterHtml(region)
	if err != nil {
		regionHTML = ""
	}

	return &sitecorpus.Content{
		URL:    page.URL,
		Title:  title,
		Text:   strings.Join(textLines(region, minTextLen, nil), "\n"),
		HTML:   regionHTML,
		Source: source,
	}, nil
}

func (e *Extractor) selectRegion(doc *goquery.Document) (*goquery.Selection, string) {
	for _, s := range e.Strategies {
		if s.Select == nil {
			continue
		}
		if sel := s.Select(doc); sel != nil && sel.Length() > 0 {
			return sel.First(), s.Name
		}
	}
	if body := doc.Find("body"); body.Length() > 0 {
		return body.First(), "body"
	}
	return doc.Selection, "document"
}
