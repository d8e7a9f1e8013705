package goquery

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitecorpus"
	"golang.org/x/net/html"
)

// readDocument wraps the page's parse tree, parsing the body if the
// fetcher did not. The result must not be modified.
func readDocument(page *sitecorpus.Page) (*goquery.Document, error) {
	if page.Root != nil {
		return goquery.NewDocumentFromNode(page.Root), nil
	}
	return parseDocument(page.Body)
}

// mutableDocument returns a private copy of the page's document that the
// caller may prune.
func mutableDocument(page *sitecorpus.Page) (*goquery.Document, error) {
	body := page.Body
	if len(body) == 0 && page.Root != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, page.Root); err != nil {
			return nil, sitecorpus.Errorf(sitecorpus.EINVALID, "failed to render HTML: %v", err)
		}
		body = buf.Bytes()
	}
	return parseDocument(body)
}

func parseDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, sitecorpus.Errorf(sitecorpus.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// pageTitle returns the whitespace-normalized document title.
func pageTitle(doc *goquery.Document) string {
	return sitecorpus.CollapseWhitespace(doc.Find("title").First().Text())
}

// textLines returns the text nodes under sel in document order, each
// with collapsed whitespace, keeping those longer than minLen runes.
// Elements named in skip are not descended into.
func textLines(sel *goquery.Selection, minLen int, skip map[string]bool) []string {
	var lines []string
	walkText(sel, skip, func(data string) {
		text := sitecorpus.CollapseWhitespace(data)
		if utf8.RuneCountInString(text) > minLen {
			lines = append(lines, text)
		}
	})
	return lines
}

// visibleText concatenates the text nodes under sel with no separator,
// so phrases split across inline elements stay intact, then collapses
// whitespace.
func visibleText(sel *goquery.Selection, skip map[string]bool) string {
	var b strings.Builder
	walkText(sel, skip, func(data string) {
		b.WriteString(data)
	})
	return sitecorpus.CollapseWhitespace(b.String())
}

func walkText(sel *goquery.Selection, skip map[string]bool, fn func(data string)) {
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			fn(n.Data)
			return
		case html.ElementNode:
			if skip[strings.ToLower(n.Data)] {
				return
			}
		case html.CommentNode, html.DoctypeNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
}
