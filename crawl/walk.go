package crawl

import (
	"context"

	"github.com/fwojciec/sitecorpus"
	"golang.org/x/sync/errgroup"
)

// walkResultHandler handles a completed pageResult. It is only ever called
// from the coordinator goroutine.
type walkResultHandler func(res *pageResult)

// walkFrontier drains the frontier with a pool of workers. The coordinator
// is the only goroutine that claims from the frontier and the only one that
// handles results, so handleResult needs no locking of its own.
//
// Once ctx is done no further URLs are claimed. Pages already dispatched
// run to completion and their results are still handled.
func (c *Crawler) walkFrontier(ctx context.Context, frontier sitecorpus.URLFrontier, handleResult walkResultHandler) {
	concurrency := c.concurrency()

	workCh := make(chan sitecorpus.Target)
	resultCh := make(chan pageResult)

	var g errgroup.Group
	for range concurrency {
		g.Go(func() error {
			for target := range workCh {
				resultCh <- c.process(ctx, target)
			}
			return nil
		})
	}

	dispatched := 0 // URLs handed to workers
	pending := 0    // URLs currently being processed
	var next *sitecorpus.Target

	for {
		if next == nil && ctx.Err() == nil && !c.pageLimitReached(dispatched) {
			if target, ok := frontier.Next(); ok {
				next = &target
			}
		}

		if next == nil && pending == 0 {
			break
		}

		if next != nil && ctx.Err() != nil {
			// Claimed but never started.
			handleResult(&pageResult{target: *next, skipped: true, detail: "canceled"})
			next = nil
			continue
		}

		if next != nil {
			select {
			case <-ctx.Done():
				continue
			case workCh <- *next:
				dispatched++
				pending++
				next = nil
			case res := <-resultCh:
				pending--
				handleResult(&res)
			}
		} else {
			res := <-resultCh
			pending--
			handleResult(&res)
		}
	}

	close(workCh)
	_ = g.Wait()
}

func (c *Crawler) pageLimitReached(dispatched int) bool {
	return c.MaxPages > 0 && dispatched >= c.MaxPages
}
