// Package fs stores the crawl corpus on the local filesystem: one text
// file per accepted page, the error report and the discovery link logs.
package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fwojciec/sitecorpus"
)

// TimeLayout is the layout of the Scraped header line.
const TimeLayout = "2006-01-02 15:04:05"

// FileExt is the extension of per-page corpus files.
const FileExt = ".txt"

var (
	unsafeNameRe = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
	// plainPathRe matches paths whose name is unambiguous: alphanumeric
	// segments with inner dashes, ending in a slash.
	plainPathRe = regexp.MustCompile(`^(/[a-zA-Z0-9]+(-+[a-zA-Z0-9]+)*)+/$`)
)

// URLToFilename derives a file name from the full URL path.
// Example: https://example.com/products/widget-1/ → products_widget-1.txt
// Characters other than ASCII letters, digits, '_' and '-' become '_' and
// leading or trailing separators are trimmed. A URL with no usable path
// falls back to its host name.
//
// The name depends only on the URL. When the transform would lose
// information (no trailing slash, characters replaced, a query string)
// the document ID of the URL is appended, so distinct URLs never share
// a file.
func URLToFilename(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", sitecorpus.Errorf(sitecorpus.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	u.Fragment, u.RawFragment = "", ""

	host := strings.Trim(unsafeNameRe.ReplaceAllString(u.Hostname(), "_"), "_-")
	if host == "" {
		host = "index"
	}
	query := u.RawQuery != "" || u.ForceQuery

	name := strings.Trim(unsafeNameRe.ReplaceAllString(u.Path, "_"), "_-")
	switch {
	case name == "" && (u.Path == "" || u.Path == "/") && !query:
		name = host
	case name == "":
		name = host + "_" + sitecorpus.DocumentID(u.String())
	case query || name == host || u.EscapedPath() != u.Path || !plainPathRe.MatchString(u.Path):
		name += "_" + sitecorpus.DocumentID(u.String())
	}
	return name + FileExt, nil
}

// FormatDocument renders a document with its metadata header.
func FormatDocument(doc *sitecorpus.Document) string {
	var b strings.Builder
	b.WriteString("URL: ")
	b.WriteString(doc.SourceURL)
	b.WriteString("\nTitle: ")
	b.WriteString(doc.Title)
	b.WriteString("\nScraped: ")
	b.WriteString(doc.ScrapedAt.Format(TimeLayout))
	b.WriteString("\n\n")
	b.WriteString(doc.Content)
	b.WriteString("\n")
	return b.String()
}

// Ensure Writer implements sitecorpus.DocumentWriter at compile time.
var _ sitecorpus.DocumentWriter = (*Writer)(nil)

// Writer writes each document to its own file in a directory.
// It is safe for concurrent use.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// CreateDocument writes a document to disk, replacing any earlier file
// for the same URL.
func (w *Writer) CreateDocument(ctx context.Context, doc *sitecorpus.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	name, err := URLToFilename(doc.SourceURL)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return writeFileAtomic(filepath.Join(w.baseDir, name), []byte(FormatDocument(doc)))
}

// writeFileAtomic writes data to a temporary file in the target directory
// and renames it into place, so readers never observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
