package mock

import "github.com/fwojciec/sitecorpus"

var _ sitecorpus.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of sitecorpus.Extractor.
type Extractor struct {
	ExtractFn func(page *sitecorpus.Page) (*sitecorpus.Content, error)
}

func (e *Extractor) Extract(page *sitecorpus.Page) (*sitecorpus.Content, error) {
	return e.ExtractFn(page)
}

var _ sitecorpus.Classifier = (*Classifier)(nil)

// Classifier is a mock implementation of sitecorpus.Classifier.
type Classifier struct {
	ClassifyFn func(page *sitecorpus.Page) sitecorpus.Classification
}

func (c *Classifier) Classify(page *sitecorpus.Page) sitecorpus.Classification {
	return c.ClassifyFn(page)
}

var _ sitecorpus.Converter = (*Converter)(nil)

// Converter is a mock implementation of sitecorpus.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
