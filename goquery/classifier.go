package goquery

import (
	"fmt"

	"github.com/fwojciec/sitecorpus"
)

var _ sitecorpus.Classifier = (*Classifier)(nil)

// invisible elements whose text never counts as page text.
var invisible = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"head":     true,
}

// Classifier detects "not found" pages served with a success status by
// matching soft-error rules against the visible text and title.
type Classifier struct {
	// Rules are evaluated in order; the first match wins.
	Rules []sitecorpus.SoftErrorRule
}

// NewClassifier returns a Classifier using sitecorpus.DefaultSoftErrorRules.
func NewClassifier() *Classifier {
	return &Classifier{Rules: sitecorpus.DefaultSoftErrorRules()}
}

// Classify returns SoftErrorPage with the matched rule name when a rule
// matches. Otherwise an HTTP error status is reported as SoftErrorPage
// with detail "HTTP <code>". Pages that cannot be parsed are GeneralError.
func (c *Classifier) Classify(page *sitecorpus.Page) sitecorpus.Classification {
	doc, err := readDocument(page)
	if err != nil {
		return sitecorpus.Classification{Outcome: sitecorpus.GeneralError, Detail: sitecorpus.ErrorMessage(err)}
	}

	title := pageTitle(doc)
	text := visibleText(doc.Selection, invisible)

	for _, rule := range c.Rules {
		if rule.Match(text, title) {
			return sitecorpus.Classification{Outcome: sitecorpus.SoftErrorPage, Detail: rule.Name}
		}
	}

	if page.StatusCode >= 400 {
		return sitecorpus.Classification{Outcome: sitecorpus.SoftErrorPage, Detail: fmt.Sprintf("HTTP %d", page.StatusCode)}
	}
	return sitecorpus.Classification{Outcome: sitecorpus.Success}
}
