package main

import (
	"fmt"
	"runtime"

	"github.com/fwojciec/sitecorpus"
	"github.com/fwojciec/sitecorpus/fs"
	"golang.org/x/sync/errgroup"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	opts := sitecorpus.SplitOptions{MaxSize: c.ChunkSize, Overlap: c.ChunkOverlap}
	if opts.MaxSize <= 0 || opts.Overlap < 0 || opts.Overlap >= opts.MaxSize {
		err := sitecorpus.Errorf(sitecorpus.EINVALID, "chunk overlap must be smaller than chunk size")
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecorpus.ErrorMessage(err))
		return err
	}

	docs, err := fs.NewReader(c.Dir).FindDocuments(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecorpus.ErrorMessage(err))
		return err
	}

	// Chunking is CPU-bound and runs in parallel; writes stay in document order.
	chunks := make([][]*sitecorpus.Chunk, len(docs))
	g, ctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			chunks[i] = sitecorpus.ChunkDocument(doc, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var stored, unchanged, total int
	for i, doc := range docs {
		if err := deps.Ctx.Err(); err != nil {
			return err
		}

		existing, err := deps.Documents.FindDocumentByID(deps.Ctx, doc.ID)
		if err != nil && sitecorpus.ErrorCode(err) != sitecorpus.ENOTFOUND {
			return fmt.Errorf("find document %s: %w", doc.SourceURL, err)
		}
		if err == nil && existing.ContentHash == doc.ContentHash {
			current, err := deps.Chunks.FindChunks(deps.Ctx, sitecorpus.ChunkFilter{DocumentID: &doc.ID})
			if err != nil {
				return fmt.Errorf("find chunks of %s: %w", doc.SourceURL, err)
			}
			if sameChunks(current, chunks[i]) {
				unchanged++
				continue
			}
		}

		if err := deps.Documents.ReplaceDocument(deps.Ctx, doc, chunks[i]); err != nil {
			if sitecorpus.ErrorCode(err) == sitecorpus.EINVALID {
				fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", doc.SourceURL, sitecorpus.ErrorMessage(err))
				continue
			}
			return fmt.Errorf("store %s: %w", doc.SourceURL, err)
		}

		stored++
		total += len(chunks[i])
		fmt.Fprintf(deps.Stdout, "  %s: %d chunks\n", doc.SourceURL, len(chunks[i]))
	}

	fmt.Fprintf(deps.Stdout, "Ingested %d documents (%d chunks), %d unchanged\n", stored, total, unchanged)
	return nil
}

// sameChunks reports whether the stored chunks match a fresh chunking,
// which fails after a change of chunk size or an interrupted ingest.
func sameChunks(stored, fresh []*sitecorpus.Chunk) bool {
	if len(stored) != len(fresh) {
		return false
	}
	for i := range stored {
		if stored[i].Content != fresh[i].Content || stored[i].Overlap != fresh[i].Overlap {
			return false
		}
	}
	return true
}
