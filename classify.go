package sitecorpus

import "regexp"

// Outcome is the terminal result of one crawl attempt.
type Outcome int

// Crawl outcomes. Every outcome other than Success is a failure category
// in the crawl report.
const (
	Success Outcome = iota
	SoftErrorPage
	NoContent
	RequestError
	GeneralError
)

// FailureOutcomes lists the failure categories in report order.
var FailureOutcomes = []Outcome{SoftErrorPage, NoContent, RequestError, GeneralError}

func (o Outcome) String() string {
	switch o {
	case Success:
		return "Success"
	case SoftErrorPage:
		return "SoftErrorPage"
	case NoContent:
		return "NoContent"
	case RequestError:
		return "RequestError"
	case GeneralError:
		return "GeneralError"
	default:
		return "Unknown"
	}
}

// Classification is the verdict for a fetched page.
type Classification struct {
	Outcome Outcome
	// Detail holds the matched pattern for SoftErrorPage, or the error
	// text for RequestError and GeneralError.
	Detail string
}

// Classifier detects pages that load successfully but display an error.
type Classifier interface {
	Classify(page *Page) Classification
}

// SoftErrorRule is one "not found" matcher.
type SoftErrorRule struct {
	// Name is recorded in the report when the rule matches.
	Name    string
	Pattern *regexp.Regexp
	// TitleOnly restricts the rule to the page <title>.
	TitleOnly bool
}

// Match reports whether the rule matches the page text or title.
func (r SoftErrorRule) Match(text, title string) bool {
	if r.Pattern == nil {
		return false
	}
	if r.TitleOnly {
		return r.Pattern.MatchString(title)
	}
	return r.Pattern.MatchString(text)
}

// PhraseRule builds a case-insensitive rule matching a literal phrase in the page text.
func PhraseRule(phrase string) SoftErrorRule {
	return SoftErrorRule{
		Name:    phrase,
		Pattern: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(phrase)),
	}
}

// TitleRule builds a case-insensitive rule matching a literal word in the page title.
func TitleRule(word string) SoftErrorRule {
	return SoftErrorRule{
		Name:      "Title: " + word,
		Pattern:   regexp.MustCompile(`(?i)` + regexp.QuoteMeta(word)),
		TitleOnly: true,
	}
}

// DefaultSoftErrorRules returns the Japanese and English "not found" rules.
// Rules are evaluated in order and the first match wins, so longer
// phrases come before their substrings.
func DefaultSoftErrorRules() []SoftErrorRule {
	return []SoftErrorRule{
		PhraseRule("お探しのページが見つかりません"),
		PhraseRule("ページが見つかりません"),
		PhraseRule("このページは存在しません"),
		PhraseRule("ページが存在しません"),
		PhraseRule("アクセスできません"),
		PhraseRule("エラーが発生しました"),
		PhraseRule("The page you requested was not found"),
		PhraseRule("Page not found"),
		PhraseRule("File not found"),
		TitleRule("404"),
		TitleRule("not found"),
		TitleRule("error"),
		TitleRule("見つかりません"),
	}
}
