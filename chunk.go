package sitecorpus

import (
	"context"
	"time"
)

// Chunk represents a section of a document prepared for embedding.
// Chunks of one document are ordered by Position, which matches their
// order in the source text.
type Chunk struct {
	ID         string        `json:"id"`
	DocumentID string        `json:"documentId"`
	Position   int           `json:"position"`
	Content    string        `json:"content"`
	Overlap    int           `json:"overlap"` // characters repeated from the previous chunk
	Source     string        `json:"source"`  // document title, or source URL when untitled
	Metadata   ChunkMetadata `json:"metadata"`
}

// ChunkMetadata contains contextual information about a chunk.
type ChunkMetadata struct {
	Title       string    `json:"title,omitempty"`
	SourceURL   string    `json:"sourceUrl,omitempty"`
	ScrapedAt   time.Time `json:"scrapedAt"`
	TotalChunks int       `json:"totalChunks"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.DocumentID == "" {
		return Errorf(EINVALID, "chunk document ID required")
	}
	if c.Content == "" {
		return Errorf(EINVALID, "chunk content required")
	}
	if c.Position < 0 {
		return Errorf(EINVALID, "chunk position must not be negative")
	}
	return nil
}

// ChunkDocument splits the document content and returns its chunks in
// order. Chunk IDs are left for the store to assign.
func ChunkDocument(doc *Document, opts SplitOptions) []*Chunk {
	segments := SplitText(doc.Content, opts)
	if len(segments) == 0 {
		return nil
	}

	source := doc.Title
	if source == "" {
		source = doc.SourceURL
	}

	chunks := make([]*Chunk, 0, len(segments))
	for _, seg := range segments {
		chunks = append(chunks, &Chunk{
			DocumentID: doc.ID,
			Position:   seg.Index,
			Content:    seg.Text,
			Overlap:    seg.Overlap,
			Source:     source,
			Metadata: ChunkMetadata{
				Title:       doc.Title,
				SourceURL:   doc.SourceURL,
				ScrapedAt:   doc.ScrapedAt,
				TotalChunks: len(segments),
			},
		})
	}
	return chunks
}

// ChunkService represents a service for managing chunks.
type ChunkService interface {
	// CreateChunks stores chunks in a single batch, preserving their order.
	CreateChunks(ctx context.Context, chunks []*Chunk) error

	// FindChunks retrieves chunks matching the filter ordered by document and position.
	FindChunks(ctx context.Context, filter ChunkFilter) ([]*Chunk, error)

	// DeleteChunksByDocument removes all chunks for a document.
	DeleteChunksByDocument(ctx context.Context, documentID string) error
}

// ChunkFilter represents a filter for FindChunks.
type ChunkFilter struct {
	DocumentID *string `json:"documentId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
