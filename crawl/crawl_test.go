package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/sitecorpus"
	"github.com/fwojciec/sitecorpus/crawl"
	"github.com/fwojciec/sitecorpus/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var longText = strings.Repeat("This product page has plenty of descriptive text. ", 10)

func okFetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*sitecorpus.Page, error) {
			return &sitecorpus.Page{URL: url, StatusCode: 200, Body: []byte("<html></html>")}, nil
		},
	}
}

func successClassifier() *mock.Classifier {
	return &mock.Classifier{
		ClassifyFn: func(_ *sitecorpus.Page) sitecorpus.Classification {
			return sitecorpus.Classification{Outcome: sitecorpus.Success}
		},
	}
}

func textExtractor(text string) *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(page *sitecorpus.Page) (*sitecorpus.Content, error) {
			return &sitecorpus.Content{URL: page.URL, Title: "Title", Text: text, HTML: "<p>" + text + "</p>", Source: "main"}, nil
		},
	}
}

type docStore struct {
	mu   sync.Mutex
	docs []*sitecorpus.Document
}

func (s *docStore) writer() *mock.DocumentWriter {
	return &mock.DocumentWriter{
		CreateDocumentFn: func(_ context.Context, doc *sitecorpus.Document) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.docs = append(s.docs, doc)
			return nil
		},
	}
}

func (s *docStore) urls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, d := range s.docs {
		out = append(out, d.SourceURL)
	}
	return out
}

func TestCrawler_Run(t *testing.T) {
	t.Parallel()

	t.Run("accepts page with enough content", func(t *testing.T) {
		t.Parallel()

		store := &docStore{}
		scrapedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		c := &crawl.Crawler{
			Fetcher:    okFetcher(),
			Classifier: successClassifier(),
			Extractor:  textExtractor(longText),
			Documents:  store.writer(),
			Now:        func() time.Time { return scrapedAt },
		}

		report, err := c.Run(context.Background(), newFrontier(t, crawl.FrontierConfig{}), []string{"https://example.com/page1"}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, report.Succeeded())
		assert.Equal(t, 0, report.Failed())
		require.Len(t, store.docs, 1)
		doc := store.docs[0]
		assert.Equal(t, "https://example.com/page1", doc.SourceURL)
		assert.Equal(t, "Title", doc.Title)
		assert.Equal(t, sitecorpus.CleanCorpus(longText), doc.Content)
		assert.Equal(t, sitecorpus.DocumentID("https://example.com/page1"), doc.ID)
		assert.Equal(t, scrapedAt, doc.ScrapedAt)
		assert.NotEmpty(t, doc.ContentHash)
		assert.Equal(t, crawl.StateDone, c.State())
	})

	t.Run("rejects soft error page", func(t *testing.T) {
		t.Parallel()

		store := &docStore{}
		c := &crawl.Crawler{
			Fetcher: okFetcher(),
			Classifier: &mock.Classifier{
				ClassifyFn: func(_ *sitecorpus.Page) sitecorpus.Classification {
					return sitecorpus.Classification{Outcome: sitecorpus.SoftErrorPage, Detail: "Title: 404"}
				},
			},
			Extractor: textExtractor(longText),
			Documents: store.writer(),
		}

		report, err := c.Run(context.Background(), newFrontier(t, crawl.FrontierConfig{}), []string{"https://example.com/missing"}, nil)

		require.NoError(t, err)
		assert.Equal(t, 0, report.Succeeded())
		assert.Empty(t, store.docs)
		assert.Equal(t, []sitecorpus.Failure{{URL: "https://example.com/missing", Detail: "Title: 404"}},
			report.Failures(sitecorpus.SoftErrorPage))
	})

	t.Run("rejects page at or below minimum content", func(t *testing.T) {
		t.Parallel()

		store := &docStore{}
		c := &crawl.Crawler{
			Fetcher:    okFetcher(),
			Classifier: successClassifier(),
			Extractor:  textExtractor(strings.Repeat("a", 100)),
			Documents:  store.writer(),
		}

		report, err := c.Run(context.Background(), newFrontier(t, crawl.FrontierConfig{}), []string{"https://example.com/thin"}, nil)

		require.NoError(t, err)
		assert.Empty(t, store.docs)
		assert.Equal(t, []sitecorpus.Failure{{URL: "https://example.com/thin", Detail: "100 characters"}},
			report.Failures(sitecorpus.NoContent))
	})

	t.Run("records transport failure as request error", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (*sitecorpus.Page, error) {
					return nil, sitecorpus.Errorf(sitecorpus.EUNAVAILABLE, "connection refused")
				},
			},
			Classifier: successClassifier(),
			Extractor:  textExtractor(longText),
			Documents:  (&docStore{}).writer(),
		}

		report, err := c.Run(context.Background(), newFrontier(t, crawl.FrontierConfig{}), []string{"https://example.com/down"}, nil)

		require.NoError(t, err)
		assert.Equal(t, []sitecorpus.Failure{{URL: "https://example.com/down", Detail: "connection refused"}},
			report.Failures(sitecorpus.RequestError))
	})

	t.Run("records other failures as general error", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher:    okFetcher(),
			Classifier: successClassifier(),
			Extractor: &mock.Extractor{
				ExtractFn: func(_ *sitecorpus.Page) (*sitecorpus.Content, error) {
					return nil, errors.New("boom")
				},
			},
			Documents: (&docStore{}).writer(),
		}

		report, err := c.Run(context.Background(), newFrontier(t, crawl.FrontierConfig{}), []string{"https://example.com/a"}, nil)

		require.NoError(t, err)
		assert.Equal(t, []sitecorpus.Failure{{URL: "https://example.com/a", Detail: "boom"}},
			report.Failures(sitecorpus.GeneralError))
	})

	t.Run("recovers from panics in the pipeline", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: okFetcher(),
			Classifier: &mock.Classifier{
				ClassifyFn: func(_ *sitecorpus.Page) sitecorpus.Classification {
					panic("malformed tree")
				},
			},
			Documents: (&docStore{}).writer(),
			Extractor: textExtractor(longText),
		}

		report, err := c.Run(context.Background(), newFrontier(t, crawl.FrontierConfig{}),
			[]string{"https://example.com/a", "https://example.com/b"}, nil)

		require.NoError(t, err)
		assert.Len(t, report.Failures(sitecorpus.GeneralError), 2)
		assert.Equal(t, "panic: malformed tree", report.Failures(sitecorpus.GeneralError)[0].Detail)
	})

	t.Run("sink failure is recorded and the run continues", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		c := &crawl.Crawler{
			Fetcher:    okFetcher(),
			Classifier: successClassifier(),
			Extractor:  textExtractor(longText),
			Documents: &mock.DocumentWriter{
				CreateDocumentFn: func(_ context.Context, doc *sitecorpus.Document) error {
					if calls.Add(1) == 1 {
						return errors.New("disk full")
					}
					return nil
				},
			},
			Concurrency: 1,
		}

		report, err := c.Run(context.Background(), newFrontier(t, crawl.FrontierConfig{}),
			[]string{"https://example.com/a", "https://example.com/b"}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, report.Succeeded())
		assert.Len(t, report.Failures(sitecorpus.GeneralError), 1)
	})

	t.Run("deduplicates seeds", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int32
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*sitecorpus.Page, error) {
					fetches.Add(1)
					return &sitecorpus.Page{URL: url, StatusCode: 200}, nil
				},
			},
			Classifier: successClassifier(),
			Extractor:  textExtractor(longText),
			Documents:  (&docStore{}).writer(),
		}

		report, err := c.Run(context.Background(), newFrontier(t, crawl.FrontierConfig{}),
			[]string{"https://example.com/a", "https://example.com/a", "https://example.com/a#frag"}, nil)

		require.NoError(t, err)
		assert.Equal(t, int32(1), fetches.Load())
		assert.Equal(t, 1, report.Attempted())
	})

	t.Run("accounts for every distinct seed", func(t *testing.T) {
		t.Parallel()

		var (
			mu      sync.Mutex
			skipped []string
		)
		c := &crawl.Crawler{
			Fetcher:    okFetcher(),
			Classifier: successClassifier(),
			Extractor:  textExtractor(longText),
			Documents:  (&docStore{}).writer(),
		}
		seeds := []string{
			"https://example.com/products/a",
			"https://example.com/products/%E5%95%86%E5%93%81",
			"https://example.com/products/b?lang=en",
			"https://example.com/wp-content/catalog/",
			"https://other.com/products/c",
		}

		report, err := c.Run(context.Background(),
			newFrontier(t, crawl.FrontierConfig{ExcludeSegments: crawl.DefaultExcludeSegments}),
			seeds,
			func(event crawl.ProgressEvent) {
				if event.Type == crawl.ProgressSkipped {
					mu.Lock()
					skipped = append(skipped, event.URL)
					mu.Unlock()
				}
			})

		require.NoError(t, err)
		assert.Equal(t, len(seeds), report.Attempted()+report.Skipped())
		assert.Equal(t, 4, report.Succeeded())
		assert.Equal(t, []string{"https://other.com/products/c"}, skipped)
	})

	t.Run("follows links within the domain", func(t *testing.T) {
		t.Parallel()

		graph := map[string][]string{
			"https://example.com/":  {"/a", "/b", "https://other.com/x"},
			"https://example.com/a": {"/", "/b", "/a/deep"},
			"https://example.com/b": {"/a"},
		}
		store := &docStore{}
		c := &crawl.Crawler{
			Fetcher:    okFetcher(),
			Classifier: successClassifier(),
			Extractor:  textExtractor(longText),
			Links: &mock.LinkExtractor{
				ExtractLinksFn: func(page *sitecorpus.Page) ([]string, error) {
					return graph[page.URL], nil
				},
			},
			Documents: store.writer(),
		}

		report, err := c.Run(context.Background(), newFrontier(t, crawl.FrontierConfig{}), []string{"https://example.com/"}, nil)

		require.NoError(t, err)
		assert.Equal(t, 4, report.Succeeded())
		assert.ElementsMatch(t, []string{
			"https://example.com/",
			"https://example.com/a",
			"https://example.com/b",
			"https://example.com/a/deep",
		}, store.urls())
	})

	t.Run("records admitted links in discovery mode", func(t *testing.T) {
		t.Parallel()

		var (
			mu       sync.Mutex
			recorded []string
		)
		c := &crawl.Crawler{
			Fetcher:    okFetcher(),
			Classifier: successClassifier(),
			Links: &mock.LinkExtractor{
				ExtractLinksFn: func(page *sitecorpus.Page) ([]string, error) {
					if page.URL == "https://example.com/" {
						return []string{"/products/a", "/products/a/", "/about"}, nil
					}
					return nil, nil
				},
			},
			Recorder: &mock.LinkRecorder{
				RecordLinkFn: func(_ context.Context, u string) error {
					mu.Lock()
					defer mu.Unlock()
					recorded = append(recorded, u)
					return nil
				},
			},
		}
		f := newFrontier(t, crawl.FrontierConfig{AllowPattern: "/products/*"})

		report, err := c.Run(context.Background(), f, []string{"https://example.com/"}, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/",
			"https://example.com/products/a",
			"https://example.com/products/a/",
		}, recorded)
		assert.Equal(t, 3, report.Succeeded())
	})

	t.Run("recorder failure stops the run", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher:    okFetcher(),
			Classifier: successClassifier(),
			Recorder: &mock.LinkRecorder{
				RecordLinkFn: func(_ context.Context, _ string) error {
					return errors.New("read-only file system")
				},
			},
		}

		report, err := c.Run(context.Background(), newFrontier(t, crawl.FrontierConfig{}), []string{"https://example.com/"}, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "read-only file system")
		assert.Equal(t, 0, report.Attempted())
		assert.Equal(t, crawl.StateDone, c.State())
	})

	t.Run("skips URLs disallowed by robots", func(t *testing.T) {
		t.Parallel()

		var fetched atomic.Int32
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*sitecorpus.Page, error) {
					fetched.Add(1)
					return &sitecorpus.Page{URL: url, StatusCode: 200}, nil
				},
			},
			Classifier: successClassifier(),
			Extractor:  textExtractor(longText),
			Documents:  (&docStore{}).writer(),
			Robots: &mock.RobotsPolicy{
				AllowedFn: func(_ context.Context, u *url.URL) bool {
					return u.Path != "/private"
				},
			},
		}

		report, err := c.Run(context.Background(), newFrontier(t, crawl.FrontierConfig{}),
			[]string{"https://example.com/public", "https://example.com/private"}, nil)

		require.NoError(t, err)
		assert.Equal(t, int32(1), fetched.Load())
		assert.Equal(t, 1, report.Succeeded())
		assert.Equal(t, 1, report.Skipped())
	})

	t.Run("waits on the rate limiter per host", func(t *testing.T) {
		t.Parallel()

		var (
			mu    sync.Mutex
			hosts []string
		)
		c := &crawl.Crawler{
			Fetcher:    okFetcher(),
			Classifier: successClassifier(),
			Extractor:  textExtractor(longText),
			Documents:  (&docStore{}).writer(),
			RateLimiter: &mock.DomainLimiter{
				WaitFn: func(_ context.Context, domain string) error {
					mu.Lock()
					defer mu.Unlock()
					hosts = append(hosts, domain)
					return nil
				},
			},
		}

		_, err := c.Run(context.Background(), newFrontier(t, crawl.FrontierConfig{}), []string{"https://example.com/a"}, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"example.com"}, hosts)
	})

	t.Run("markdown format converts then strips links", func(t *testing.T) {
		t.Parallel()

		store := &docStore{}
		c := &crawl.Crawler{
			Fetcher:    okFetcher(),
			Classifier: successClassifier(),
			Extractor:  textExtractor(longText),
			Converter: &mock.Converter{
				ConvertFn: func(_ string) (string, error) {
					return longText + "\n\n[Buy now](https://shop.example/x) https://example.com/foo", nil
				},
			},
			Documents: store.writer(),
			Format:    crawl.FormatMarkdown,
		}

		_, err := c.Run(context.Background(), newFrontier(t, crawl.FrontierConfig{}), []string{"https://example.com/a"}, nil)

		require.NoError(t, err)
		require.Len(t, store.docs, 1)
		assert.Contains(t, store.docs[0].Content, "Buy now")
		assert.NotContains(t, store.docs[0].Content, "https://")
	})

	t.Run("writes report when a URL was attempted", func(t *testing.T) {
		t.Parallel()

		var written *sitecorpus.Report
		c := &crawl.Crawler{
			Fetcher:    okFetcher(),
			Classifier: successClassifier(),
			Extractor:  textExtractor(longText),
			Documents:  (&docStore{}).writer(),
			Reports: &mock.ReportWriter{
				WriteReportFn: func(_ context.Context, r *sitecorpus.Report) error {
					written = r
					return nil
				},
			},
		}

		report, err := c.Run(context.Background(), newFrontier(t, crawl.FrontierConfig{}), []string{"https://example.com/a"}, nil)

		require.NoError(t, err)
		assert.Same(t, report, written)
	})

	t.Run("does not write report when nothing was attempted", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher:    okFetcher(),
			Classifier: successClassifier(),
			Reports: &mock.ReportWriter{
				WriteReportFn: func(_ context.Context, _ *sitecorpus.Report) error {
					t.Error("report should not be written")
					return nil
				},
			},
		}

		report, err := c.Run(context.Background(), newFrontier(t, crawl.FrontierConfig{}), nil, nil)

		require.NoError(t, err)
		assert.Equal(t, 0, report.Attempted())
	})

	t.Run("reports progress events", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: okFetcher(),
			Classifier: &mock.Classifier{
				ClassifyFn: func(page *sitecorpus.Page) sitecorpus.Classification {
					if strings.HasSuffix(page.URL, "/bad") {
						return sitecorpus.Classification{Outcome: sitecorpus.SoftErrorPage, Detail: "Page not found"}
					}
					return sitecorpus.Classification{Outcome: sitecorpus.Success}
				},
			},
			Extractor:   textExtractor(longText),
			Documents:   (&docStore{}).writer(),
			Concurrency: 1,
		}

		var events []crawl.ProgressEvent
		_, err := c.Run(context.Background(), newFrontier(t, crawl.FrontierConfig{}),
			[]string{"https://example.com/good", "https://example.com/bad"},
			func(e crawl.ProgressEvent) { events = append(events, e) })

		require.NoError(t, err)
		require.Len(t, events, 4)
		assert.Equal(t, crawl.ProgressStarted, events[0].Type)
		assert.Equal(t, 2, events[0].Queued)
		assert.Equal(t, crawl.ProgressAccepted, events[1].Type)
		assert.Equal(t, "https://example.com/good", events[1].URL)
		assert.Equal(t, crawl.ProgressRejected, events[2].Type)
		assert.Equal(t, sitecorpus.SoftErrorPage, events[2].Outcome)
		assert.Equal(t, crawl.ProgressFinished, events[3].Type)
		assert.Equal(t, 2, events[3].Completed)
	})

	t.Run("stops dispatching after cancellation and still writes report", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var fetched atomic.Int32
		var written atomic.Bool
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(fetchCtx context.Context, url string) (*sitecorpus.Page, error) {
					if fetched.Add(1) == 1 {
						cancel()
					}
					// In-flight fetches are not interrupted by run cancellation.
					if fetchCtx.Err() != nil {
						return nil, fetchCtx.Err()
					}
					return &sitecorpus.Page{URL: url, StatusCode: 200}, nil
				},
			},
			Classifier: successClassifier(),
			Extractor:  textExtractor(longText),
			Documents:  (&docStore{}).writer(),
			Reports: &mock.ReportWriter{
				WriteReportFn: func(_ context.Context, _ *sitecorpus.Report) error {
					written.Store(true)
					return nil
				},
			},
			Concurrency: 1,
		}
		seeds := make([]string, 20)
		for i := range seeds {
			seeds[i] = fmt.Sprintf("https://example.com/p/%d", i)
		}

		report, err := c.Run(ctx, newFrontier(t, crawl.FrontierConfig{}), seeds, nil)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, report.Succeeded(), "in-flight page should complete")
		assert.Less(t, int(fetched.Load()), 20)
		assert.True(t, written.Load())
		assert.Equal(t, crawl.StateDone, c.State())
	})

	t.Run("honors max pages", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher:    okFetcher(),
			Classifier: successClassifier(),
			Extractor:  textExtractor(longText),
			Documents:  (&docStore{}).writer(),
			MaxPages:   3,
		}
		seeds := make([]string, 10)
		for i := range seeds {
			seeds[i] = fmt.Sprintf("https://example.com/p/%d", i)
		}

		report, err := c.Run(context.Background(), newFrontier(t, crawl.FrontierConfig{}), seeds, nil)

		require.NoError(t, err)
		assert.Equal(t, 3, report.Attempted())
	})

	t.Run("retries transport failures when configured", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*sitecorpus.Page, error) {
					if attempts.Add(1) < 3 {
						return nil, sitecorpus.Errorf(sitecorpus.EUNAVAILABLE, "timeout")
					}
					return &sitecorpus.Page{URL: url, StatusCode: 200}, nil
				},
			},
			Classifier:  successClassifier(),
			Extractor:   textExtractor(longText),
			Documents:   (&docStore{}).writer(),
			RetryDelays: []time.Duration{0, 0},
		}

		report, err := c.Run(context.Background(), newFrontier(t, crawl.FrontierConfig{}), []string{"https://example.com/a"}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, report.Succeeded())
		assert.Equal(t, int32(3), attempts.Load())
	})
}

func TestCrawler_Run_concurrent_workers_count_each_URL_once(t *testing.T) {
	t.Parallel()

	const n = 1000
	var (
		mu      sync.Mutex
		fetched = make(map[string]int)
	)
	c := &crawl.Crawler{
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*sitecorpus.Page, error) {
				mu.Lock()
				fetched[url]++
				mu.Unlock()
				if strings.HasSuffix(url, "7") {
					return nil, sitecorpus.Errorf(sitecorpus.EUNAVAILABLE, "timeout")
				}
				return &sitecorpus.Page{URL: url, StatusCode: 200}, nil
			},
		},
		Classifier: &mock.Classifier{
			ClassifyFn: func(page *sitecorpus.Page) sitecorpus.Classification {
				if strings.HasSuffix(page.URL, "3") {
					return sitecorpus.Classification{Outcome: sitecorpus.SoftErrorPage, Detail: "Page not found"}
				}
				return sitecorpus.Classification{Outcome: sitecorpus.Success}
			},
		},
		Extractor:   textExtractor(longText),
		Documents:   (&docStore{}).writer(),
		Concurrency: 16,
	}
	seeds := make([]string, n)
	for i := range seeds {
		seeds[i] = fmt.Sprintf("https://example.com/item/%d", i)
	}

	report, err := c.Run(context.Background(), newFrontier(t, crawl.FrontierConfig{}), seeds, nil)

	require.NoError(t, err)
	assert.Equal(t, n, report.Succeeded()+report.Failed())
	assert.Equal(t, 100, len(report.Failures(sitecorpus.RequestError)))
	assert.Equal(t, 100, len(report.Failures(sitecorpus.SoftErrorPage)))
	assert.Len(t, fetched, n)
	for u, count := range fetched {
		assert.Equal(t, 1, count, "URL %s fetched more than once", u)
	}
}

func TestCrawler_Run_validates_configuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		crawler *crawl.Crawler
	}{
		{name: "missing fetcher", crawler: &crawl.Crawler{Classifier: successClassifier()}},
		{name: "missing classifier", crawler: &crawl.Crawler{Fetcher: okFetcher()}},
		{
			name: "missing extractor with documents",
			crawler: &crawl.Crawler{
				Fetcher: okFetcher(), Classifier: successClassifier(), Documents: (&docStore{}).writer(),
			},
		},
		{
			name: "markdown without converter",
			crawler: &crawl.Crawler{
				Fetcher: okFetcher(), Classifier: successClassifier(), Format: crawl.FormatMarkdown,
			},
		},
		{
			name: "unknown format",
			crawler: &crawl.Crawler{
				Fetcher: okFetcher(), Classifier: successClassifier(), Format: "pdf",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.crawler.Run(context.Background(), newFrontier(t, crawl.FrontierConfig{}), []string{"https://example.com/"}, nil)

			assert.Equal(t, sitecorpus.EINVALID, sitecorpus.ErrorCode(err))
			assert.Equal(t, crawl.StateIdle, tt.crawler.State())
		})
	}
}

func TestCrawler_Run_is_single_use(t *testing.T) {
	t.Parallel()

	c := &crawl.Crawler{Fetcher: okFetcher(), Classifier: successClassifier()}

	_, err := c.Run(context.Background(), newFrontier(t, crawl.FrontierConfig{}), nil, nil)
	require.NoError(t, err)

	_, err = c.Run(context.Background(), newFrontier(t, crawl.FrontierConfig{}), nil, nil)
	assert.Equal(t, sitecorpus.ECONFLICT, sitecorpus.ErrorCode(err))
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", crawl.StateIdle.String())
	assert.Equal(t, "running", crawl.StateRunning.String())
	assert.Equal(t, "draining", crawl.StateDraining.String())
	assert.Equal(t, "aborting", crawl.StateAborting.String())
	assert.Equal(t, "done", crawl.StateDone.String())
}
