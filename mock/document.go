package mock

import (
	"context"

	"github.com/fwojciec/sitecorpus"
)

var _ sitecorpus.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of sitecorpus.DocumentService.
type DocumentService struct {
	CreateDocumentFn   func(ctx context.Context, doc *sitecorpus.Document) error
	FindDocumentByIDFn func(ctx context.Context, id string) (*sitecorpus.Document, error)
	ReplaceDocumentFn  func(ctx context.Context, doc *sitecorpus.Document, chunks []*sitecorpus.Chunk) error
	DeleteDocumentFn   func(ctx context.Context, id string) error
}

func (s *DocumentService) CreateDocument(ctx context.Context, doc *sitecorpus.Document) error {
	return s.CreateDocumentFn(ctx, doc)
}

func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*sitecorpus.Document, error) {
	return s.FindDocumentByIDFn(ctx, id)
}

func (s *DocumentService) ReplaceDocument(ctx context.Context, doc *sitecorpus.Document, chunks []*sitecorpus.Chunk) error {
	return s.ReplaceDocumentFn(ctx, doc, chunks)
}

func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	return s.DeleteDocumentFn(ctx, id)
}

var _ sitecorpus.DocumentReader = (*DocumentReader)(nil)

// DocumentReader is a mock implementation of sitecorpus.DocumentReader.
type DocumentReader struct {
	FindDocumentsFn func(ctx context.Context) ([]*sitecorpus.Document, error)
}

func (r *DocumentReader) FindDocuments(ctx context.Context) ([]*sitecorpus.Document, error) {
	return r.FindDocumentsFn(ctx)
}

var _ sitecorpus.ChunkService = (*ChunkService)(nil)

// ChunkService is a mock implementation of sitecorpus.ChunkService.
type ChunkService struct {
	CreateChunksFn           func(ctx context.Context, chunks []*sitecorpus.Chunk) error
	FindChunksFn             func(ctx context.Context, filter sitecorpus.ChunkFilter) ([]*sitecorpus.Chunk, error)
	DeleteChunksByDocumentFn func(ctx context.Context, documentID string) error
}

func (s *ChunkService) CreateChunks(ctx context.Context, chunks []*sitecorpus.Chunk) error {
	return s.CreateChunksFn(ctx, chunks)
}

func (s *ChunkService) FindChunks(ctx context.Context, filter sitecorpus.ChunkFilter) ([]*sitecorpus.Chunk, error) {
	return s.FindChunksFn(ctx, filter)
}

func (s *ChunkService) DeleteChunksByDocument(ctx context.Context, documentID string) error {
	return s.DeleteChunksByDocumentFn(ctx, documentID)
}
