package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitecorpus"
)

var _ sitecorpus.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService logs each sitemap seeding lookup made before
// discovery starts.
type LoggingSitemapService struct {
	next   sitecorpus.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService wraps next.
func NewLoggingSitemapService(next sitecorpus.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs logs the site, the number of seed URLs found, the duration
// and any error. Failures are logged at Warn since discovery continues
// from the command-line seeds alone.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, siteURL string) (urls []string, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "sitemap seeds",
			"site", siteURL,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, siteURL)
}
