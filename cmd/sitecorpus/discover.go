package main

import (
	"fmt"

	"github.com/fwojciec/sitecorpus"
	"github.com/fwojciec/sitecorpus/crawl"
	"github.com/fwojciec/sitecorpus/fs"
	"github.com/fwojciec/sitecorpus/goquery"
)

// Run executes the discover command.
func (c *DiscoverCmd) Run(deps *Dependencies) error {
	if len(c.Seeds) == 0 {
		return sitecorpus.Errorf(sitecorpus.EINVALID, "at least one seed URL required")
	}

	frontier, err := c.frontier(c.Seeds, c.Allow)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecorpus.ErrorMessage(err))
		return err
	}

	seeds := c.Seeds
	if c.Sitemap {
		for _, seed := range c.Seeds {
			urls, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, seed)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "  sitemap %s: %s\n", seed, sitecorpus.ErrorMessage(err))
				continue
			}
			seeds = append(seeds, urls...)
		}
	}

	output := c.Links
	if c.Allow != "" {
		output = c.ProductLinks
	}
	log, err := fs.OpenLinkLog(output)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	defer log.Close()

	if c.Allow != "" {
		log.Filter = frontier.Allows
		log.Canonicalize = crawl.CanonicalURL
	}

	crawler := c.crawler(deps)
	crawler.Links = goquery.NewLinkExtractor()
	crawler.Recorder = log

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Discovering from %d seed URLs\n", event.Queued)
		case crawl.ProgressAccepted, crawl.ProgressRejected:
			fmt.Fprintf(deps.Stdout, "  [%d, %d queued] %s\n", event.Completed, event.Queued, event.URL)
		case crawl.ProgressSkipped:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", event.URL, event.Detail)
		}
	}

	_, runErr := crawler.Run(deps.Ctx, frontier, seeds, progress)
	if err := log.Close(); err != nil && runErr == nil {
		runErr = err
	}

	fmt.Fprintf(deps.Stdout, "Recorded %d URLs to %s\n", log.Count(), output)
	if runErr != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", runErr)
	}
	return runErr
}
