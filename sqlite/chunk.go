package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fwojciec/sitecorpus"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ sitecorpus.ChunkService = (*ChunkService)(nil)

// ChunkService implements sitecorpus.ChunkService using SQLite.
type ChunkService struct {
	db *DB
}

// NewChunkService creates a new ChunkService.
func NewChunkService(db *DB) *ChunkService {
	return &ChunkService{db: db}
}

// chunkNamespace scopes name-based chunk IDs.
var chunkNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("sitecorpus:chunk"))

// ChunkID returns the ID assigned to the chunk at position of a document.
// The same document and position always yield the same ID, so
// re-ingesting a document reproduces its chunk IDs.
func ChunkID(documentID string, position int) string {
	return uuid.NewSHA1(chunkNamespace, []byte(fmt.Sprintf("%s/%d", documentID, position))).String()
}

// CreateChunks inserts all chunks in one transaction. Chunks without an
// ID get one from ChunkID. Either every chunk is stored or none is.
func (s *ChunkService) CreateChunks(ctx context.Context, chunks []*sitecorpus.Chunk) error {
	for _, c := range chunks {
		if err := c.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertChunks(ctx, tx, chunks); err != nil {
		return err
	}
	return tx.Commit()
}

// insertChunks inserts validated chunks within tx.
func insertChunks(ctx context.Context, tx *sql.Tx, chunks []*sitecorpus.Chunk) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, position, content, overlap, source, title, source_url, scraped_at, total_chunks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range chunks {
		if c.ID == "" {
			c.ID = ChunkID(c.DocumentID, c.Position)
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.DocumentID, c.Position, c.Content, c.Overlap,
			c.Source, c.Metadata.Title, c.Metadata.SourceURL,
			formatTime(c.Metadata.ScrapedAt), c.Metadata.TotalChunks); err != nil {
			if strings.Contains(err.Error(), "FOREIGN KEY") {
				return sitecorpus.Errorf(sitecorpus.ENOTFOUND, "document %s not found", c.DocumentID)
			}
			if strings.Contains(err.Error(), "UNIQUE") {
				return sitecorpus.Errorf(sitecorpus.ECONFLICT, "chunk %d of document %s already exists", c.Position, c.DocumentID)
			}
			return err
		}
	}
	return nil
}

// FindChunks retrieves chunks ordered by document and position.
func (s *ChunkService) FindChunks(ctx context.Context, filter sitecorpus.ChunkFilter) ([]*sitecorpus.Chunk, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, document_id, position, content, overlap, source, title, source_url, scraped_at, total_chunks
		FROM chunks WHERE 1=1`)

	if filter.DocumentID != nil {
		query.WriteString(" AND document_id = ?")
		args = append(args, *filter.DocumentID)
	}

	query.WriteString(" ORDER BY document_id ASC, position ASC")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []*sitecorpus.Chunk
	for rows.Next() {
		var c sitecorpus.Chunk
		var scrapedAt string

		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Position, &c.Content, &c.Overlap,
			&c.Source, &c.Metadata.Title, &c.Metadata.SourceURL, &scrapedAt, &c.Metadata.TotalChunks); err != nil {
			return nil, err
		}

		c.Metadata.ScrapedAt, err = parseTime(scrapedAt, "scraped_at")
		if err != nil {
			return nil, err
		}

		chunks = append(chunks, &c)
	}

	return chunks, rows.Err()
}

// DeleteChunksByDocument removes all chunks for a document.
func (s *ChunkService) DeleteChunksByDocument(ctx context.Context, documentID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID)
	return err
}
