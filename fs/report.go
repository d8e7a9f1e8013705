package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/sitecorpus"
)

// Ensure ReportWriter implements sitecorpus.ReportWriter at compile time.
var _ sitecorpus.ReportWriter = (*ReportWriter)(nil)

// ReportWriter writes the crawl report to a single text file.
type ReportWriter struct {
	path string
}

// NewReportWriter creates a ReportWriter for the given file path.
func NewReportWriter(path string) *ReportWriter {
	return &ReportWriter{path: path}
}

// WriteReport replaces the report file with the formatted report.
func (w *ReportWriter) WriteReport(ctx context.Context, report *sitecorpus.Report) error {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return writeFileAtomic(w.path, []byte(FormatReport(report)))
}

// FormatReport renders totals followed by one section per non-empty
// failure category, each entry as "url - detail".
func FormatReport(report *sitecorpus.Report) string {
	var b strings.Builder
	b.WriteString("SCRAPING ERROR REPORT\n")
	b.WriteString(strings.Repeat("=", 50))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Total URLs processed: %d\n", report.Attempted())
	fmt.Fprintf(&b, "Successful: %d\n", report.Succeeded())
	fmt.Fprintf(&b, "Failed: %d\n", report.Failed())
	fmt.Fprintf(&b, "Skipped: %d\n", report.Skipped())

	for _, outcome := range sitecorpus.FailureOutcomes {
		failures := report.Failures(outcome)
		if len(failures) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s (%d):\n", outcome, len(failures))
		b.WriteString(strings.Repeat("-", 30))
		b.WriteString("\n")
		for _, f := range failures {
			b.WriteString(f.URL)
			if f.Detail != "" {
				b.WriteString(" - ")
				b.WriteString(f.Detail)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
