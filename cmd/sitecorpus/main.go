package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitecorpus"
	schttp "github.com/fwojciec/sitecorpus/http"
	"github.com/fwojciec/sitecorpus/robotstxt"
	scslog "github.com/fwojciec/sitecorpus/slog"
	"github.com/fwojciec/sitecorpus/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// HTTPClient is shared by the fetcher, robots.txt policy and sitemap
	// discovery. Nil uses a default client.
	HTTPClient *http.Client

	// SQLite database opened for ingestion.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitecorpus"),
		kong.Description("Build a clean text corpus from a single website."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitecorpus --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelInfo
	}
	deps.Verbose = cli.Verbose
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	client := m.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	userAgent := schttp.DefaultHeaders["User-Agent"]

	command, _, _ := strings.Cut(kongCtx.Command(), " ")
	timeout := schttp.DefaultFetchTimeout
	switch command {
	case "discover":
		timeout = cli.Discover.Timeout
	case "scrape":
		timeout = cli.Scrape.Timeout
	}

	var fetcher sitecorpus.Fetcher = schttp.NewFetcher(schttp.WithClient(client), schttp.WithTimeout(timeout))
	var sitemaps sitecorpus.SitemapService = schttp.NewSitemapService(client)
	if cli.Verbose {
		fetcher = scslog.NewLoggingFetcher(fetcher, deps.Logger)
		sitemaps = scslog.NewLoggingSitemapService(sitemaps, deps.Logger)
	}
	defer fetcher.Close()

	deps.Fetcher = fetcher
	deps.Sitemaps = sitemaps
	deps.Robots = robotstxt.NewPolicy(client, userAgent)

	if command == "ingest" {
		m.DB = sqlite.NewDB(cli.Ingest.DB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set SITECORPUS_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", cli.Ingest.DB, err)
		}
		defer m.Close()

		deps.Documents = sqlite.NewDocumentService(m.DB)
		deps.Chunks = sqlite.NewChunkService(m.DB)
	}

	return kongCtx.Run(deps)
}
