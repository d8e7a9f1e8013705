package slog

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/sitecorpus"
)

// Ensure LoggingDocumentWriter implements sitecorpus.DocumentWriter.
var _ sitecorpus.DocumentWriter = (*LoggingDocumentWriter)(nil)

// LoggingDocumentWriter wraps a DocumentWriter with debug logging.
type LoggingDocumentWriter struct {
	next   sitecorpus.DocumentWriter
	logger *slog.Logger
}

// NewLoggingDocumentWriter creates a new LoggingDocumentWriter.
func NewLoggingDocumentWriter(next sitecorpus.DocumentWriter, logger *slog.Logger) *LoggingDocumentWriter {
	return &LoggingDocumentWriter{next: next, logger: logger}
}

// CreateDocument delegates to the wrapped writer and logs the operation.
func (w *LoggingDocumentWriter) CreateDocument(ctx context.Context, doc *sitecorpus.Document) (err error) {
	defer func(begin time.Time) {
		w.logger.Info("write document",
			"url", doc.SourceURL,
			"chars", utf8.RuneCountInString(doc.Content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.CreateDocument(ctx, doc)
}
