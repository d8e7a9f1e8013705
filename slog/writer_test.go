package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/sitecorpus"
	"github.com/fwojciec/sitecorpus/mock"
	scslog "github.com/fwojciec/sitecorpus/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingDocumentWriter_CreateDocument(t *testing.T) {
	t.Parallel()

	t.Run("logs url and character count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		var got *sitecorpus.Document
		inner := &mock.DocumentWriter{
			CreateDocumentFn: func(ctx context.Context, doc *sitecorpus.Document) error {
				got = doc
				return nil
			},
		}

		doc := &sitecorpus.Document{SourceURL: "https://example.com/a", Content: "日本語テキスト"}
		err := scslog.NewLoggingDocumentWriter(inner, logger).CreateDocument(context.Background(), doc)

		require.NoError(t, err)
		assert.Same(t, doc, got)
		output := buf.String()
		assert.Contains(t, output, "write document")
		assert.Contains(t, output, "url=https://example.com/a")
		assert.Contains(t, output, "chars=7")
	})

	t.Run("logs and returns error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.DocumentWriter{
			CreateDocumentFn: func(ctx context.Context, doc *sitecorpus.Document) error {
				return errors.New("disk full")
			},
		}

		err := scslog.NewLoggingDocumentWriter(inner, logger).CreateDocument(context.Background(),
			&sitecorpus.Document{SourceURL: "https://example.com/a", Content: "x"})

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"disk full\"")
	})
}
