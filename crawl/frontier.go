package crawl

import (
	"container/heap"
	"strings"
	"sync"

	"github.com/fwojciec/sitecorpus"
	"github.com/fwojciec/sitecorpus/bloom"
)

// Compile-time interface verification.
var _ sitecorpus.URLFrontier = (*Frontier)(nil)

// DefaultExcludeSegments are path segments never crawled (asset and media directories).
var DefaultExcludeSegments = []string{"/wp-content/"}

// Frontier sizing for the visited set.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate of the pre-check.
	frontierFalsePositiveRate = 0.01
)

// FrontierConfig scopes a crawl to one site.
type FrontierConfig struct {
	// Domain is the allowed host. Subdomains of Domain are allowed too.
	Domain string

	// ExcludeSegments rejects any discovered URL whose path contains one
	// of the segments.
	ExcludeSegments []string

	// AllowPattern enables pattern-restricted discovery: discovered links
	// (depth > 0) must match it. Seeds are always admitted. See MatchPathPattern.
	AllowPattern string

	// MaxDepth bounds traversal depth. Zero means unbounded.
	MaxDepth int
}

// Frontier is an in-memory URL frontier with breadth-first ordering and
// exact de-duplication. It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	cfg FrontierConfig

	mu    sync.Mutex
	seen  *bloom.Set
	queue *targetHeap
	seq   int
}

// NewFrontier creates a Frontier for cfg.
// Returns EINVALID if no domain is configured.
func NewFrontier(cfg FrontierConfig) (*Frontier, error) {
	cfg.Domain = strings.ToLower(strings.TrimSpace(cfg.Domain))
	if cfg.Domain == "" {
		return nil, sitecorpus.Errorf(sitecorpus.EINVALID, "frontier domain required")
	}
	if cfg.MaxDepth < 0 {
		return nil, sitecorpus.Errorf(sitecorpus.EINVALID, "max depth must not be negative")
	}
	h := &targetHeap{}
	heap.Init(h)
	return &Frontier{
		cfg:   cfg,
		seen:  bloom.NewSet(frontierExpectedURLs, frontierFalsePositiveRate),
		queue: h,
	}, nil
}

// Offer registers rawURL, resolved against parent, as a crawl candidate.
// Filters apply in order: already seen, outside the domain, excluded path
// segment, query string or percent-encoding, allow pattern, depth limit.
// Seeds (depth 0) are subject only to the first two.
// Returns false if the URL was rejected.
func (f *Frontier) Offer(rawURL, parent string, depth int) bool {
	u, err := NormalizeURL(rawURL, parent)
	if err != nil {
		return false
	}
	normalized := u.String()

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen.Contains(normalized) {
		return false
	}
	if !f.admit(normalized, u.Hostname(), u.Path, u.RawQuery != "" || u.ForceQuery, depth) {
		return false
	}

	f.seen.Add(normalized)
	heap.Push(f.queue, queuedTarget{
		Target: sitecorpus.Target{URL: normalized, Depth: depth, Parent: parent},
		seq:    f.seq,
	})
	f.seq++
	return true
}

func (f *Frontier) admit(normalized, host, path string, hasQuery bool, depth int) bool {
	if !InDomain(host, f.cfg.Domain) {
		return false
	}
	if depth == 0 {
		return true
	}
	for _, seg := range f.cfg.ExcludeSegments {
		if seg != "" && strings.Contains(path, seg) {
			return false
		}
	}
	if hasQuery || strings.Contains(normalized, "%") {
		return false
	}
	if !MatchPathPattern(f.cfg.AllowPattern, path) {
		return false
	}
	if f.cfg.MaxDepth > 0 && depth > f.cfg.MaxDepth {
		return false
	}
	return true
}

// Next claims the next target: shallowest depth first, then offer order.
// The bool result is false if the frontier is empty.
func (f *Frontier) Next() (sitecorpus.Target, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return sitecorpus.Target{}, false
	}
	qt, _ := heap.Pop(f.queue).(queuedTarget)
	return qt.Target, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the URL has been queued or claimed.
// The URL is normalized before checking.
func (f *Frontier) Seen(rawURL string) bool {
	u, err := NormalizeURL(rawURL, "")
	if err != nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Contains(u.String())
}

// Allows reports whether a discovered link passes the domain, path and
// allow-pattern filters, ignoring whether it was seen. Discovery uses it
// to decide which links to record.
func (f *Frontier) Allows(rawURL string) bool {
	u, err := NormalizeURL(rawURL, "")
	if err != nil {
		return false
	}
	return f.admit(u.String(), u.Hostname(), u.Path, u.RawQuery != "" || u.ForceQuery, 1)
}

type queuedTarget struct {
	sitecorpus.Target
	seq int
}

// targetHeap implements heap.Interface ordered by depth, then insertion.
type targetHeap []queuedTarget

func (h targetHeap) Len() int { return len(h) }

func (h targetHeap) Less(i, j int) bool {
	if h[i].Depth != h[j].Depth {
		return h[i].Depth < h[j].Depth
	}
	return h[i].seq < h[j].seq
}

func (h targetHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *targetHeap) Push(x any) {
	t, _ := x.(queuedTarget)
	*h = append(*h, t)
}

func (h *targetHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
