package sitecorpus

import (
	"context"
	"sync"
)

// Failure is one rejected URL in a crawl report.
type Failure struct {
	URL    string
	Detail string
}

// Report aggregates the outcome of a crawl run.
// It is safe for concurrent use by multiple goroutines.
type Report struct {
	mu        sync.Mutex
	succeeded int
	skipped   int
	failures  map[Outcome][]Failure
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{failures: make(map[Outcome][]Failure)}
}

// RecordSuccess counts an accepted page.
func (r *Report) RecordSuccess() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.succeeded++
}

// RecordFailure appends a rejected URL to its category.
// Success outcomes are counted as successes.
func (r *Report) RecordFailure(outcome Outcome, url, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if outcome == Success {
		r.succeeded++
		return
	}
	r.failures[outcome] = append(r.failures[outcome], Failure{URL: url, Detail: detail})
}

// RecordSkipped counts a claimed URL that was never attempted
// (robots.txt disallowed it or the run was canceled first).
func (r *Report) RecordSkipped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped++
}

// Succeeded returns the number of accepted pages.
func (r *Report) Succeeded() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.succeeded
}

// Skipped returns the number of claimed URLs that were not attempted.
func (r *Report) Skipped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.skipped
}

// Failed returns the number of rejected pages across all categories.
func (r *Report) Failed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, list := range r.failures {
		n += len(list)
	}
	return n
}

// Attempted returns the number of URLs that reached the fetch stage.
func (r *Report) Attempted() int {
	return r.Succeeded() + r.Failed()
}

// Failures returns a copy of the failures recorded for outcome, in
// the order they were recorded.
func (r *Report) Failures(outcome Outcome) []Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.failures[outcome]
	out := make([]Failure, len(list))
	copy(out, list)
	return out
}

// ReportWriter persists a finished crawl report.
type ReportWriter interface {
	WriteReport(ctx context.Context, report *Report) error
}
