package crawl

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/fwojciec/sitecorpus"
)

var repeatedSlashRe = regexp.MustCompile(`/{2,}`)

// NormalizeURL resolves rawURL against parent (when given) and returns the
// canonical crawl form: absolute http(s) URL, lower-case scheme and host,
// no fragment, repeated slashes in the path collapsed, and "/" for an
// empty path. The query string is kept so the frontier can reject it.
func NormalizeURL(rawURL, parent string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, sitecorpus.Errorf(sitecorpus.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if parent != "" {
		base, err := url.Parse(parent)
		if err != nil {
			return nil, sitecorpus.Errorf(sitecorpus.EINVALID, "invalid parent URL %q: %v", parent, err)
		}
		ref = base.ResolveReference(ref)
	}

	ref.Scheme = strings.ToLower(ref.Scheme)
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return nil, sitecorpus.Errorf(sitecorpus.EINVALID, "unsupported URL %q", rawURL)
	}
	if ref.Host == "" {
		return nil, sitecorpus.Errorf(sitecorpus.EINVALID, "URL %q has no host", rawURL)
	}

	ref.Host = strings.ToLower(ref.Host)
	ref.Fragment = ""
	ref.RawFragment = ""
	ref.User = nil
	ref.Path = repeatedSlashRe.ReplaceAllString(ref.Path, "/")
	if ref.RawPath != "" {
		ref.RawPath = repeatedSlashRe.ReplaceAllString(ref.RawPath, "/")
	}
	if ref.Path == "" {
		ref.Path = "/"
	}
	return ref, nil
}

// CanonicalURL returns u with a trailing slash on its path, the form used
// to de-duplicate pattern-restricted discovery output.
func CanonicalURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
		if u.RawPath != "" {
			u.RawPath += "/"
		}
	}
	return u.String()
}

// InDomain reports whether host is domain or one of its subdomains.
func InDomain(host, domain string) bool {
	host = strings.ToLower(strings.TrimSuffix(hostname(host), "."))
	domain = strings.ToLower(strings.TrimSuffix(domain, "."))
	if domain == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func hostname(host string) string {
	u := url.URL{Host: host}
	return u.Hostname()
}

// MatchPathPattern reports whether p matches an allow pattern.
// A pattern ending in "*" matches every path strictly below its prefix
// ("/products/*" matches "/products/a" and "/products/a/b/" but not
// "/products/"). Other patterns use path.Match and ignore a trailing slash.
func MatchPathPattern(pattern, p string) bool {
	if pattern == "" {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok && !strings.ContainsAny(prefix, "*?[") {
		return strings.HasPrefix(p, prefix) && len(p) > len(prefix)
	}
	trimmed := strings.TrimSuffix(p, "/")
	if ok, _ := path.Match(pattern, p); ok {
		return true
	}
	ok, _ := path.Match(strings.TrimSuffix(pattern, "/"), trimmed)
	return ok
}
