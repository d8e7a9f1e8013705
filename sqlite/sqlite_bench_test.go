package sqlite_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/sitecorpus"
	"github.com/fwojciec/sitecorpus/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkWALMode compares write performance between WAL and rollback journal modes.
// This simulates an ingest workload: inserting many documents with their chunks.
func BenchmarkWALMode(b *testing.B) {
	b.Run("rollback_journal", func(b *testing.B) {
		benchmarkIngest(b, false)
	})

	b.Run("wal_mode", func(b *testing.B) {
		benchmarkIngest(b, true)
	})
}

func benchmarkIngest(b *testing.B, useWAL bool) {
	b.Helper()

	dbPath := filepath.Join(b.TempDir(), "bench.db")

	db := sqlite.NewDB(dbPath)
	require.NoError(b, db.Open())

	ctx := context.Background()
	if !useWAL {
		_, err := db.ExecContext(ctx, "PRAGMA journal_mode = DELETE")
		require.NoError(b, err)
	}

	defer func() {
		db.Close()
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}()

	docs := sqlite.NewDocumentService(db)
	chunks := sqlite.NewChunkService(db)
	body := strings.Repeat("Lorem ipsum dolor sit amet, consectetur adipiscing elit. ", 60)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		doc := &sitecorpus.Document{
			SourceURL: fmt.Sprintf("https://example.com/products/item-%d/", i),
			Title:     fmt.Sprintf("Item %d", i),
			Content:   body,
		}
		if err := docs.CreateDocument(ctx, doc); err != nil {
			b.Fatal(err)
		}
		if err := chunks.CreateChunks(ctx, sitecorpus.ChunkDocument(doc, sitecorpus.SplitOptions{MaxSize: 1000, Overlap: 300})); err != nil {
			b.Fatal(err)
		}
	}
}
