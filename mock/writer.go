package mock

import (
	"context"

	"github.com/fwojciec/sitecorpus"
)

var _ sitecorpus.DocumentWriter = (*DocumentWriter)(nil)

// DocumentWriter is a mock implementation of sitecorpus.DocumentWriter.
type DocumentWriter struct {
	CreateDocumentFn func(ctx context.Context, doc *sitecorpus.Document) error
}

func (w *DocumentWriter) CreateDocument(ctx context.Context, doc *sitecorpus.Document) error {
	return w.CreateDocumentFn(ctx, doc)
}

var _ sitecorpus.ReportWriter = (*ReportWriter)(nil)

// ReportWriter is a mock implementation of sitecorpus.ReportWriter.
type ReportWriter struct {
	WriteReportFn func(ctx context.Context, report *sitecorpus.Report) error
}

func (w *ReportWriter) WriteReport(ctx context.Context, report *sitecorpus.Report) error {
	return w.WriteReportFn(ctx, report)
}
