// Package robotstxt implements sitecorpus.RobotsPolicy with a simple
// allow/deny check against each host's robots.txt.
package robotstxt

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/fwojciec/sitecorpus"
	"github.com/temoto/robotstxt"
)

var _ sitecorpus.RobotsPolicy = (*Policy)(nil)

// Policy fetches robots.txt once per host and tests paths against the
// group for its user agent. Fetch and parse errors allow everything.
type Policy struct {
	client    *http.Client
	userAgent string

	mu    sync.Mutex
	hosts map[string]*hostRules
}

type hostRules struct {
	once  sync.Once
	group *robotstxt.Group
}

// NewPolicy creates a Policy. If client is nil, http.DefaultClient is used.
func NewPolicy(client *http.Client, userAgent string) *Policy {
	if client == nil {
		client = http.DefaultClient
	}
	return &Policy{
		client:    client,
		userAgent: userAgent,
		hosts:     make(map[string]*hostRules),
	}
}

// Allowed reports whether target may be fetched.
func (p *Policy) Allowed(ctx context.Context, target *url.URL) bool {
	if target == nil || !target.IsAbs() {
		return false
	}

	host := strings.ToLower(target.Host)
	p.mu.Lock()
	rules, ok := p.hosts[host]
	if !ok {
		rules = &hostRules{}
		p.hosts[host] = rules
	}
	p.mu.Unlock()

	rules.once.Do(func() {
		rules.group = p.fetch(ctx, target.Scheme, target.Host)
	})
	if rules.group == nil {
		return true
	}

	path := target.EscapedPath()
	if path == "" {
		path = "/"
	}
	return rules.group.Test(path)
}

// fetch returns the applicable group, or nil when robots.txt could not
// be retrieved.
func (p *Policy) fetch(ctx context.Context, scheme, host string) *robotstxt.Group {
	robotsURL := scheme + "://" + host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	// FromResponse maps 4xx to allow-all and 5xx to disallow-all.
	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return data.FindGroup(p.userAgent)
}
