package main

import (
	"fmt"

	"github.com/fwojciec/sitecorpus"
	"github.com/fwojciec/sitecorpus/crawl"
	"github.com/fwojciec/sitecorpus/fs"
	"github.com/fwojciec/sitecorpus/goquery"
	"github.com/fwojciec/sitecorpus/htmltomarkdown"
	"github.com/fwojciec/sitecorpus/readability"
	scslog "github.com/fwojciec/sitecorpus/slog"
	"github.com/fwojciec/sitecorpus/trafilatura"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	seeds, err := readSeeds(c.Seeds)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecorpus.ErrorMessage(err))
		return err
	}

	frontier, err := c.frontier(seeds, "")
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecorpus.ErrorMessage(err))
		return err
	}

	var documents sitecorpus.DocumentWriter = fs.NewWriter(c.Out)
	if deps.Verbose {
		documents = scslog.NewLoggingDocumentWriter(documents, deps.Logger)
	}

	crawler := c.crawler(deps)
	crawler.Extractor = c.extractor()
	crawler.Converter = htmltomarkdown.NewConverter()
	crawler.Documents = documents
	crawler.Reports = fs.NewReportWriter(c.Report)
	crawler.Format = crawl.Format(c.Format)
	crawler.MinContent = c.MinContent
	if c.Follow {
		crawler.Links = goquery.NewLinkExtractor()
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Scraping %d URLs\n", event.Queued)
		case crawl.ProgressAccepted:
			fmt.Fprintf(deps.Stdout, "  [%d] ok %s\n", event.Completed, event.URL)
		case crawl.ProgressRejected:
			fmt.Fprintf(deps.Stdout, "  [%d] %s %s: %s\n", event.Completed, event.Outcome, event.URL, event.Detail)
		case crawl.ProgressSkipped:
			fmt.Fprintf(deps.Stdout, "  [%d] skip %s: %s\n", event.Completed, event.URL, event.Detail)
		}
	}

	report, runErr := crawler.Run(deps.Ctx, frontier, seeds, progress)
	if report != nil {
		fmt.Fprintf(deps.Stdout, "Processed %d URLs: %d successful, %d failed, %d skipped\n",
			report.Attempted(), report.Succeeded(), report.Failed(), report.Skipped())
		if report.Attempted() > 0 {
			fmt.Fprintf(deps.Stdout, "Report written to %s\n", c.Report)
		}
	}
	if runErr != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", runErr)
	}
	return runErr
}

// extractor returns the configured content extractor. The library-backed
// extractors fall back to the selector-based one.
func (c *ScrapeCmd) extractor() sitecorpus.Extractor {
	base := goquery.NewExtractor()
	switch c.Extractor {
	case "trafilatura":
		ext := trafilatura.NewExtractor()
		ext.Fallback = base
		return ext
	case "readability":
		ext := readability.NewExtractor()
		ext.Fallback = base
		return ext
	default:
		return base
	}
}
