package sitecorpus

import "unicode"

// Default chunking parameters, in characters.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 300
)

// SplitOptions configures SplitText.
type SplitOptions struct {
	// MaxSize is the maximum chunk length in characters (runes).
	MaxSize int
	// Overlap is the number of characters repeated from the end of one
	// chunk at the start of the next. Must be smaller than MaxSize.
	Overlap int
}

// Segment is one piece of split text.
type Segment struct {
	Index int
	Text  string
	// Overlap is the number of leading characters of Text repeated from
	// the previous segment. Zero for the first segment.
	Overlap int
}

// Core returns the segment text without the repeated overlap prefix.
func (s Segment) Core() string {
	return string([]rune(s.Text)[s.Overlap:])
}

// SplitText splits text into segments of at most MaxSize characters.
// Cuts prefer paragraph breaks, then line breaks, then sentence ends, then
// spaces, and fall back to a hard cut when no boundary fits. Concatenating
// the Core of every segment reproduces text exactly.
func SplitText(text string, opts SplitOptions) []Segment {
	if text == "" {
		return nil
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultChunkSize
	}
	if opts.Overlap < 0 {
		opts.Overlap = 0
	}
	if opts.Overlap >= opts.MaxSize {
		opts.Overlap = opts.MaxSize - 1
	}

	runes := []rune(text)
	var segments []Segment
	start := 0
	for start < len(runes) {
		overlap := 0
		if start > 0 {
			overlap = min(opts.Overlap, start)
		}
		budget := opts.MaxSize - overlap
		end := len(runes)
		if end-start > budget {
			end = cutPoint(runes, start, start+budget)
		}
		segments = append(segments, Segment{
			Index:   len(segments),
			Text:    string(runes[start-overlap : end]),
			Overlap: overlap,
		})
		start = end
	}
	return segments
}

// boundary reports whether a cut is allowed right after runes[i].
type boundary func(runes []rune, i int) bool

var boundaries = []boundary{
	// paragraph
	func(r []rune, i int) bool { return r[i] == '\n' && i > 0 && r[i-1] == '\n' },
	// line
	func(r []rune, i int) bool { return r[i] == '\n' },
	// sentence
	func(r []rune, i int) bool {
		switch r[i] {
		case '。', '！', '？':
			return true
		case '.', '!', '?':
			return i+1 < len(r) && unicode.IsSpace(r[i+1])
		}
		return false
	},
	// word
	func(r []rune, i int) bool { return unicode.IsSpace(r[i]) },
}

// cutPoint returns the end index (exclusive) for a segment starting at
// start that must end at or before limit. A boundary is only used if it
// keeps at least half of the available window, so chunks stay close to
// the size limit.
func cutPoint(runes []rune, start, limit int) int {
	floor := start + (limit-start)/2
	for _, isBoundary := range boundaries {
		for i := limit - 1; i >= floor && i >= start; i-- {
			if isBoundary(runes, i) {
				return i + 1
			}
		}
	}
	return limit
}
