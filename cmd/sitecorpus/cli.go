package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/sitecorpus"
	"github.com/fwojciec/sitecorpus/crawl"
	"github.com/fwojciec/sitecorpus/goquery"
	scslog "github.com/fwojciec/sitecorpus/slog"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Verbose wraps services with logging decorators.
	Verbose bool

	Fetcher   sitecorpus.Fetcher
	Sitemaps  sitecorpus.SitemapService
	Robots    sitecorpus.RobotsPolicy
	Documents sitecorpus.DocumentService
	Chunks    sitecorpus.ChunkService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" env:"SITECORPUS_VERBOSE" help:"Log fetches, verdicts and writes to stderr"`

	Discover DiscoverCmd `cmd:"" help:"Discover in-domain URLs starting from seed pages"`
	Scrape   ScrapeCmd   `cmd:"" help:"Fetch seed URLs and write cleaned page text"`
	Ingest   IngestCmd   `cmd:"" help:"Chunk cleaned pages into a SQLite database"`
}

// CrawlFlags are the knobs shared by discover and scrape.
type CrawlFlags struct {
	Domain      string        `env:"SITECORPUS_DOMAIN" help:"Allowed domain (subdomains included). Defaults to the first seed's host."`
	Concurrency int           `short:"c" default:"16" env:"SITECORPUS_CONCURRENCY" help:"Concurrent fetch limit"`
	Rate        float64       `default:"1" env:"SITECORPUS_RATE" help:"Requests per second per host (0 disables the limit)"`
	Timeout     time.Duration `default:"15s" env:"SITECORPUS_TIMEOUT" help:"Per-request timeout"`
	Retries     int           `default:"0" env:"SITECORPUS_RETRIES" help:"Retries after a network failure"`
	Robots      bool          `default:"true" negatable:"" env:"SITECORPUS_ROBOTS" help:"Honor robots.txt"`
	Exclude     []string      `default:"/wp-content/" env:"SITECORPUS_EXCLUDE" help:"Path segments never crawled"`
	MaxDepth    int           `default:"0" env:"SITECORPUS_MAX_DEPTH" help:"Maximum link depth (0 is unbounded)"`
	MaxPages    int           `default:"0" env:"SITECORPUS_MAX_PAGES" help:"Maximum pages to fetch (0 is unbounded)"`
}

// DiscoverCmd is the "discover" subcommand.
type DiscoverCmd struct {
	CrawlFlags `embed:""`

	Seeds        []string `arg:"" name:"seed-url" help:"Pages to start from"`
	Allow        string   `env:"SITECORPUS_ALLOW" help:"Only follow and record paths matching this pattern (e.g. /products/*)"`
	Links        string   `default:"links.txt" env:"SITECORPUS_LINKS" help:"Output file for full-site discovery"`
	ProductLinks string   `default:"product_links.txt" env:"SITECORPUS_PRODUCT_LINKS" help:"Output file for pattern-restricted discovery"`
	Sitemap      bool     `env:"SITECORPUS_SITEMAP" help:"Also seed from the site's sitemaps"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	CrawlFlags `embed:""`

	Seeds      string `default:"product_links.txt" env:"SITECORPUS_SEEDS" help:"File with one URL per line"`
	Out        string `default:"clean_text" env:"SITECORPUS_OUT" help:"Directory for cleaned page files"`
	Report     string `default:"scraping_errors.txt" env:"SITECORPUS_REPORT" help:"Error report file"`
	Follow     bool   `env:"SITECORPUS_FOLLOW" help:"Also crawl in-domain links found on seed pages"`
	Format     string `default:"text" enum:"text,markdown" env:"SITECORPUS_FORMAT" help:"Normalization: text or markdown"`
	Extractor  string `default:"goquery" enum:"goquery,trafilatura,readability" env:"SITECORPUS_EXTRACTOR" help:"Content extractor"`
	MinContent int    `default:"100" env:"SITECORPUS_MIN_CONTENT" help:"Characters a page must exceed to be kept"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	Dir          string `default:"clean_text" env:"SITECORPUS_DIR" help:"Directory of cleaned page files"`
	DB           string `default:"corpus.db" env:"SITECORPUS_DB" help:"SQLite database path"`
	ChunkSize    int    `default:"1000" env:"SITECORPUS_CHUNK_SIZE" help:"Maximum chunk length in characters"`
	ChunkOverlap int    `default:"300" env:"SITECORPUS_CHUNK_OVERLAP" help:"Characters shared by consecutive chunks"`
}

// frontier builds the URL frontier for a run. The domain defaults to the
// host of the first seed.
func (f *CrawlFlags) frontier(seeds []string, allow string) (*crawl.Frontier, error) {
	domain := f.Domain
	if domain == "" && len(seeds) > 0 {
		u, err := url.Parse(seeds[0])
		if err != nil {
			return nil, sitecorpus.Errorf(sitecorpus.EINVALID, "invalid seed URL %q", seeds[0])
		}
		domain = u.Hostname()
	}
	return crawl.NewFrontier(crawl.FrontierConfig{
		Domain:          domain,
		ExcludeSegments: f.Exclude,
		AllowPattern:    allow,
		MaxDepth:        f.MaxDepth,
	})
}

// crawler builds a Crawler with the shared services and flags applied.
func (f *CrawlFlags) crawler(deps *Dependencies) *crawl.Crawler {
	var classifier sitecorpus.Classifier = goquery.NewClassifier()
	if deps.Verbose {
		classifier = scslog.NewLoggingClassifier(classifier, deps.Logger)
	}

	c := &crawl.Crawler{
		Fetcher:      deps.Fetcher,
		Classifier:   classifier,
		RateLimiter:  crawl.NewDomainLimiter(f.Rate),
		Concurrency:  f.Concurrency,
		FetchTimeout: f.Timeout,
		MaxPages:     f.MaxPages,
		RetryDelays:  crawl.RetryDelays(f.Retries, time.Second),
		RetryLog: func(format string, args ...any) {
			deps.Logger.Warn(fmt.Sprintf(format, args...))
		},
	}
	if f.Robots {
		c.Robots = deps.Robots
	}
	return c
}

// readSeeds reads one URL per line. Lines that are not http(s) URLs are ignored.
func readSeeds(path string) ([]string, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, sitecorpus.Errorf(sitecorpus.ENOTFOUND, "seed file %s not found", path)
	} else if err != nil {
		return nil, err
	}
	defer file.Close()

	var seeds []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lower := strings.ToLower(line)
		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			continue
		}
		seeds = append(seeds, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(seeds) == 0 {
		return nil, sitecorpus.Errorf(sitecorpus.EINVALID, "seed file %s has no URLs", path)
	}
	return seeds, nil
}
