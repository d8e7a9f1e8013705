package fs

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fwojciec/sitecorpus"
)

// Ensure Reader implements sitecorpus.DocumentReader at compile time.
var _ sitecorpus.DocumentReader = (*Reader)(nil)

// Reader loads the documents written by Writer.
type Reader struct {
	baseDir string
}

// NewReader creates a Reader for the given directory.
func NewReader(baseDir string) *Reader {
	return &Reader{baseDir: baseDir}
}

// FindDocuments returns every corpus file in the directory, sorted by
// file name. Returns ENOTFOUND if the directory does not exist.
func (r *Reader) FindDocuments(ctx context.Context) ([]*sitecorpus.Document, error) {
	entries, err := os.ReadDir(r.baseDir)
	if os.IsNotExist(err) {
		return nil, sitecorpus.Errorf(sitecorpus.ENOTFOUND, "directory %s not found", r.baseDir)
	} else if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), FileExt) || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	docs := make([]*sitecorpus.Document, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(r.baseDir, name))
		if err != nil {
			return nil, err
		}
		doc := ParseDocument(string(data))
		if doc.SourceURL == "" {
			doc.SourceURL = strings.TrimSuffix(name, FileExt)
		}
		doc.ID = sitecorpus.DocumentID(doc.SourceURL)
		doc.ContentHash = sitecorpus.ContentHash(doc.Content)
		docs = append(docs, doc)
	}
	return docs, nil
}

// ParseDocument parses a corpus file. The metadata header ends at the
// first blank line; text without a header is returned as content.
func ParseDocument(data string) *sitecorpus.Document {
	doc := &sitecorpus.Document{}

	header, body, found := strings.Cut(data, "\n\n")
	if !found || !strings.HasPrefix(header, "URL: ") {
		doc.Content = strings.TrimSpace(data)
		return doc
	}

	scanner := bufio.NewScanner(strings.NewReader(header))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ": ")
		if !ok {
			key, value = strings.TrimSuffix(scanner.Text(), ":"), ""
		}
		switch key {
		case "URL":
			doc.SourceURL = strings.TrimSpace(value)
		case "Title":
			doc.Title = strings.TrimSpace(value)
		case "Scraped":
			if t, err := time.ParseInLocation(TimeLayout, strings.TrimSpace(value), time.Local); err == nil {
				doc.ScrapedAt = t
			}
		}
	}
	doc.Content = strings.TrimSpace(body)
	return doc
}
