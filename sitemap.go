package sitecorpus

import "context"

// SitemapService discovers URLs from website sitemaps.
type SitemapService interface {
	// DiscoverURLs finds all URLs from a site's sitemap.
	// It first checks robots.txt for sitemap directives, then falls back
	// to /sitemap.xml. Sitemap indexes are resolved recursively.
	// When baseURL has a non-root path only URLs under that path are returned.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}
