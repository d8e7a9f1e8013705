package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/sitecorpus"
)

// Ensure LoggingClassifier implements sitecorpus.Classifier.
var _ sitecorpus.Classifier = (*LoggingClassifier)(nil)

// LoggingClassifier wraps a Classifier and logs each verdict.
type LoggingClassifier struct {
	next   sitecorpus.Classifier
	logger *slog.Logger
}

// NewLoggingClassifier creates a new LoggingClassifier.
func NewLoggingClassifier(next sitecorpus.Classifier, logger *slog.Logger) *LoggingClassifier {
	return &LoggingClassifier{next: next, logger: logger}
}

// Classify delegates to the wrapped classifier and logs the outcome.
func (c *LoggingClassifier) Classify(page *sitecorpus.Page) sitecorpus.Classification {
	begin := time.Now()
	result := c.next.Classify(page)
	detail := result.Detail
	if detail == "" {
		detail = "(none)"
	}
	c.logger.Info("classify",
		"url", page.URL,
		"outcome", result.Outcome.String(),
		"detail", detail,
		"duration", time.Since(begin),
	)
	return result
}
