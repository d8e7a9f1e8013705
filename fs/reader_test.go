package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/sitecorpus"
	"github.com/fwojciec/sitecorpus/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument(t *testing.T) {
	t.Parallel()

	t.Run("parses metadata header", func(t *testing.T) {
		t.Parallel()

		doc := fs.ParseDocument("URL: https://example.com/a\nTitle: Page A\nScraped: 2024-03-15 09:30:05\n\nline one\nline two\n")

		assert.Equal(t, "https://example.com/a", doc.SourceURL)
		assert.Equal(t, "Page A", doc.Title)
		assert.Equal(t, "line one\nline two", doc.Content)
		assert.Equal(t, 2024, doc.ScrapedAt.Year())
		assert.Equal(t, 30, doc.ScrapedAt.Minute())
	})

	t.Run("empty title", func(t *testing.T) {
		t.Parallel()

		doc := fs.ParseDocument("URL: https://example.com/a\nTitle:\nScraped: 2024-03-15 09:30:05\n\nbody\n")

		assert.Empty(t, doc.Title)
		assert.Equal(t, "body", doc.Content)
	})

	t.Run("text without header is content", func(t *testing.T) {
		t.Parallel()

		doc := fs.ParseDocument("just text\n\nmore text")

		assert.Empty(t, doc.SourceURL)
		assert.Equal(t, "just text\n\nmore text", doc.Content)
	})
}

func TestReader_FindDocuments(t *testing.T) {
	t.Parallel()

	t.Run("reads documents written by Writer", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		ctx := context.Background()
		w := fs.NewWriter(dir)
		scraped := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
		require.NoError(t, w.CreateDocument(ctx, &sitecorpus.Document{
			SourceURL: "https://example.com/b",
			Title:     "B",
			Content:   "bravo",
			ScrapedAt: scraped,
		}))
		require.NoError(t, w.CreateDocument(ctx, &sitecorpus.Document{
			SourceURL: "https://example.com/a",
			Title:     "A",
			Content:   "alpha",
			ScrapedAt: scraped,
		}))

		docs, err := fs.NewReader(dir).FindDocuments(ctx)

		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "https://example.com/a", docs[0].SourceURL)
		assert.Equal(t, "A", docs[0].Title)
		assert.Equal(t, "alpha", docs[0].Content)
		assert.Equal(t, sitecorpus.DocumentID("https://example.com/a"), docs[0].ID)
		assert.Equal(t, sitecorpus.ContentHash("alpha"), docs[0].ContentHash)
		assert.True(t, scraped.Equal(docs[0].ScrapedAt))
		assert.Equal(t, "https://example.com/b", docs[1].SourceURL)
	})

	t.Run("ignores other files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0644))
		require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

		docs, err := fs.NewReader(dir).FindDocuments(context.Background())

		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("missing directory returns ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		_, err := fs.NewReader(filepath.Join(t.TempDir(), "missing")).FindDocuments(context.Background())

		assert.Equal(t, sitecorpus.ENOTFOUND, sitecorpus.ErrorCode(err))
	})
}
