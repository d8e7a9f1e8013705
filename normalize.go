package sitecorpus

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	imageLinkRe     = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	inlineLinkRe    = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	referenceLinkRe = regexp.MustCompile(`\[([^\]]*)\]\[[^\]]*\]`)
	bareURLRe       = regexp.MustCompile(`https?://[^\s)\],]+`)
	wwwURLRe        = regexp.MustCompile(`www\.[^\s)\],]+`)
	emailRe         = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	blankLinesRe    = regexp.MustCompile(`\n(?:[ \t]*\n){2,}`)
	spaceBeforeNLRe = regexp.MustCompile(`[ \t]+\n`)
	spaceAfterNLRe  = regexp.MustCompile(`\n[ \t]+`)
	multiSpaceRe    = regexp.MustCompile(`[ \t]{2,}`)
	dashLineRe      = regexp.MustCompile(`(?m)^[ \t]*-[- \t]*$`)
)

// RemoveLinks strips link syntax from markdown text. Inline and
// reference-style links keep their visible text; images are dropped
// together with their alt text; bare URLs, www. URLs and email addresses
// are removed. Lines made only of dashes, such as horizontal rules, are
// dropped. Runs of blank lines are collapsed to a single blank line
// and spaces around line breaks are trimmed.
//
// RemoveLinks is idempotent.
func RemoveLinks(markdown string) string {
	// Removing one construct can expose another (nested brackets), so the
	// rules are applied until the text stops changing. Every rule shortens
	// the text, which bounds the loop.
	for {
		next := removeLinksOnce(markdown)
		if next == markdown {
			return next
		}
		markdown = next
	}
}

func removeLinksOnce(s string) string {
	s = imageLinkRe.ReplaceAllString(s, "")
	s = inlineLinkRe.ReplaceAllString(s, "$1")
	s = referenceLinkRe.ReplaceAllString(s, "$1")
	s = bareURLRe.ReplaceAllString(s, "")
	s = wwwURLRe.ReplaceAllString(s, "")
	s = emailRe.ReplaceAllString(s, "")
	s = dashLineRe.ReplaceAllString(s, "")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = spaceBeforeNLRe.ReplaceAllString(s, "\n")
	s = spaceAfterNLRe.ReplaceAllString(s, "\n")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// JapaneseScript covers Hiragana, Katakana, CJK ideographs and the
// CJK punctuation block.
var JapaneseScript = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3000, Hi: 0x303f, Stride: 1},
		{Lo: 0x3040, Hi: 0x309f, Stride: 1},
		{Lo: 0x30a0, Hi: 0x30ff, Stride: 1},
		{Lo: 0x4e00, Hi: 0x9faf, Stride: 1},
	},
}

// corpusPunctuation is kept by CleanCorpus in addition to word characters.
const corpusPunctuation = ".,!?:;()-"

// CleanCorpus prepares text for an embedding index using JapaneseScript
// as the working script. See CleanCorpusScript.
func CleanCorpus(text string) string {
	return CleanCorpusScript(text, JapaneseScript)
}

// CleanCorpusScript replaces every character that is not a word character,
// part of script, or basic punctuation with a space, collapses whitespace
// runs to single spaces, and drops empty lines. Line breaks in the input
// are kept so that per-node lines from the extractor survive.
//
// CleanCorpusScript is idempotent.
func CleanCorpusScript(text string, script *unicode.RangeTable) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = cleanLine(line, script); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func cleanLine(line string, script *unicode.RangeTable) string {
	var b strings.Builder
	b.Grow(len(line))
	for _, r := range line {
		if isCorpusRune(r, script) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func isCorpusRune(r rune, script *unicode.RangeTable) bool {
	switch {
	case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
		return true
	case script != nil && unicode.Is(script, r):
		return true
	default:
		return strings.ContainsRune(corpusPunctuation, r)
	}
}

// CollapseWhitespace trims s and replaces every whitespace run with a single space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
