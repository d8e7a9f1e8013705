package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/sitecorpus"
)

// Compile-time interface verification.
var _ sitecorpus.DocumentService = (*DocumentService)(nil)

// DocumentService implements sitecorpus.DocumentService using SQLite.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

// execer is satisfied by both *DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateDocument inserts a document or replaces the stored document with
// the same ID. The ID defaults to one derived from the source URL.
func (s *DocumentService) CreateDocument(ctx context.Context, doc *sitecorpus.Document) error {
	if err := prepareDocument(doc); err != nil {
		return err
	}
	return upsertDocument(ctx, s.db, doc)
}

// ReplaceDocument stores doc and replaces all of its chunks in one
// transaction. On error neither the document nor its chunks change.
// Returns EINVALID if a chunk belongs to another document.
func (s *DocumentService) ReplaceDocument(ctx context.Context, doc *sitecorpus.Document, chunks []*sitecorpus.Chunk) error {
	if err := prepareDocument(doc); err != nil {
		return err
	}
	for _, c := range chunks {
		if err := c.Validate(); err != nil {
			return err
		}
		if c.DocumentID != doc.ID {
			return sitecorpus.Errorf(sitecorpus.EINVALID, "chunk %d belongs to document %s, not %s", c.Position, c.DocumentID, doc.ID)
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := upsertDocument(ctx, tx, doc); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", doc.ID); err != nil {
		return err
	}
	if err := insertChunks(ctx, tx, chunks); err != nil {
		return err
	}
	return tx.Commit()
}

// prepareDocument validates doc and fills in its derived fields.
func prepareDocument(doc *sitecorpus.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if doc.ID == "" {
		doc.ID = sitecorpus.DocumentID(doc.SourceURL)
	}
	if doc.ScrapedAt.IsZero() {
		doc.ScrapedAt = time.Now()
	}
	doc.ScrapedAt = doc.ScrapedAt.UTC().Truncate(time.Second)
	doc.ContentHash = sitecorpus.ContentHash(doc.Content)
	return nil
}

func upsertDocument(ctx context.Context, db execer, doc *sitecorpus.Document) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO documents (id, source_url, title, content, content_hash, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_url = excluded.source_url,
			title = excluded.title,
			content = excluded.content,
			content_hash = excluded.content_hash,
			scraped_at = excluded.scraped_at
	`, doc.ID, doc.SourceURL, doc.Title, doc.Content, doc.ContentHash,
		formatTime(doc.ScrapedAt))
	return err
}

// FindDocumentByID retrieves a document by ID.
func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*sitecorpus.Document, error) {
	var doc sitecorpus.Document
	var scrapedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, source_url, title, content, content_hash, scraped_at
		FROM documents
		WHERE id = ?
	`, id).Scan(&doc.ID, &doc.SourceURL, &doc.Title, &doc.Content, &doc.ContentHash, &scrapedAt)

	if err == sql.ErrNoRows {
		return nil, sitecorpus.Errorf(sitecorpus.ENOTFOUND, "document not found")
	}
	if err != nil {
		return nil, err
	}

	doc.ScrapedAt, err = parseTime(scrapedAt, "scraped_at")
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// DeleteDocument permanently removes a document. Its chunks are removed
// by the foreign key cascade.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sitecorpus.Errorf(sitecorpus.ENOTFOUND, "document not found")
	}

	return nil
}
