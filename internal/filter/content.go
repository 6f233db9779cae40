package filter

import (
	"regexp"

	"github.com/IvanShishkin/csr/internal/filesystem"
	"github.com/IvanShishkin/csr/pkg/models"
)

// ContentMatcher searches file text for a regular expression.
// The whole file is read into memory; there is no size cap.
type ContentMatcher struct {
	pattern *regexp.Regexp
}

// NewContentMatcher creates a matcher for the compiled pattern
func NewContentMatcher(pattern *regexp.Regexp) *ContentMatcher {
	return &ContentMatcher{pattern: pattern}
}

// Match reads the file at path and searches it. Unreadable or non UTF-8
// files yield a skipped outcome instead of an error.
func (m *ContentMatcher) Match(path string) Outcome {
	text, reason := filesystem.ReadText(path)
	if reason != models.SkipNone {
		return Skipped("content", reason)
	}
	if m.pattern.Match(text) {
		return Accepted()
	}
	return Rejected("content")
}
