package sitecorpus

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Document is the cleaned text of one accepted page.
type Document struct {
	ID          string    `json:"id"`
	SourceURL   string    `json:"sourceUrl"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHash string    `json:"contentHash"`
	ScrapedAt   time.Time `json:"scrapedAt"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.SourceURL == "" {
		return Errorf(EINVALID, "document source URL required")
	}
	if d.Content == "" {
		return Errorf(EINVALID, "document content required")
	}
	return nil
}

// DocumentID derives a stable document identifier from its source URL.
func DocumentID(sourceURL string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(sourceURL))
}

// ContentHash computes a hash of the content using xxhash.
func ContentHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// DocumentWriter persists accepted documents. Implementations must be
// safe for concurrent use.
type DocumentWriter interface {
	CreateDocument(ctx context.Context, doc *Document) error
}

// DocumentReader lists previously written documents.
type DocumentReader interface {
	FindDocuments(ctx context.Context) ([]*Document, error)
}

// DocumentService represents a service for managing documents in an index store.
type DocumentService interface {
	DocumentWriter

	// FindDocumentByID retrieves a document by ID.
	// Returns ENOTFOUND if document does not exist.
	FindDocumentByID(ctx context.Context, id string) (*Document, error)

	// ReplaceDocument stores a document and replaces all of its chunks
	// atomically. Every chunk must belong to the document.
	ReplaceDocument(ctx context.Context, doc *Document, chunks []*Chunk) error

	// DeleteDocument permanently removes a document and all associated chunks.
	// Returns ENOTFOUND if document does not exist.
	DeleteDocument(ctx context.Context, id string) error
}
