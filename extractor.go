package sitecorpus

// Content is the readable text extracted from a page.
type Content struct {
	URL   string
	Title string

	// Text holds the linearized text nodes of the content region,
	// one per line in document order.
	Text string

	// HTML is the content region rendered back to markup, boilerplate removed.
	HTML string

	// Source names the rule that selected the content region (e.g. "main", "body").
	Source string
}

// Extractor selects the main content region of a page and linearizes it.
type Extractor interface {
	// Extract never fails on malformed markup; when no content region
	// matches it falls back to the document body.
	Extract(page *Page) (*Content, error)
}
