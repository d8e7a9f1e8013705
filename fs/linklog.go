package fs

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/sitecorpus"
)

// Ensure LinkLog implements sitecorpus.LinkRecorder at compile time.
var _ sitecorpus.LinkRecorder = (*LinkLog)(nil)

// LinkLog appends discovered URLs to a newline-delimited file. The file is
// truncated when the log is opened. It is safe for concurrent use.
type LinkLog struct {
	// Filter, when set, drops URLs for which it returns false.
	Filter func(url string) bool
	// Canonicalize, when set, maps each URL to the form that is written;
	// URLs sharing a canonical form are written once.
	Canonicalize func(url string) string

	mu      sync.Mutex
	file    *os.File
	w       *bufio.Writer
	written map[string]bool
	count   int
}

// OpenLinkLog creates or truncates the file at path.
func OpenLinkLog(path string) (*LinkLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open link log: %w", err)
	}
	return &LinkLog{
		file:    f,
		w:       bufio.NewWriter(f),
		written: make(map[string]bool),
	}, nil
}

// RecordLink appends url unless it is filtered out or already written.
func (l *LinkLog) RecordLink(ctx context.Context, url string) error {
	if l.Filter != nil && !l.Filter(url) {
		return nil
	}
	if l.Canonicalize != nil {
		url = l.Canonicalize(url)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return sitecorpus.Errorf(sitecorpus.EINTERNAL, "link log closed")
	}
	if l.written[url] {
		return nil
	}
	l.written[url] = true
	l.count++

	if _, err := l.w.WriteString(url + "\n"); err != nil {
		return err
	}
	// Flush each line so an interrupted run keeps what it found.
	return l.w.Flush()
}

// Count returns the number of URLs written.
func (l *LinkLog) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Close flushes and closes the file.
func (l *LinkLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	flushErr := l.w.Flush()
	closeErr := l.file.Close()
	l.file = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
