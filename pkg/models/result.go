package models

import (
	"fmt"
	"time"
)

// AdvisoryKind classifies a non-fatal diagnostic
type AdvisoryKind string

const (
	AdvisoryRoot  AdvisoryKind = "root"  // Root could not be walked
	AdvisoryEntry AdvisoryKind = "entry" // Single entry could not be read
)

// Advisory is a non-fatal diagnostic reported alongside results
type Advisory struct {
	Kind    AdvisoryKind `json:"kind"`
	Path    string       `json:"path"`
	Message string       `json:"message"`
	Err     error        `json:"-"`
}

func (a *Advisory) String() string {
	if a.Err != nil {
		return fmt.Sprintf("%s: %s: %v", a.Message, a.Path, a.Err)
	}
	return fmt.Sprintf("%s: %s", a.Message, a.Path)
}

// SkipReason explains why an entry was neither accepted nor rejected
type SkipReason string

const (
	SkipNone       SkipReason = ""
	SkipPermission SkipReason = "permission"
	SkipDecode     SkipReason = "decode"
	SkipRead       SkipReason = "read"
)

// SearchSummary contains statistics for one search invocation
type SearchSummary struct {
	ID        string        `json:"id"`
	Roots     []string      `json:"roots"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`

	Visited    int `json:"visited"`    // Entries produced by the walker
	Evaluated  int `json:"evaluated"`  // Regular files run through the chain
	Matched    int `json:"matched"`    // Results emitted
	Advisories int `json:"advisories"` // Advisories emitted

	Skipped map[SkipReason]int `json:"skipped,omitempty"`
}

// AddSkip records a skipped entry
func (s *SearchSummary) AddSkip(reason SkipReason) {
	if s.Skipped == nil {
		s.Skipped = make(map[SkipReason]int)
	}
	s.Skipped[reason]++
}

// Merge adds the counters of another summary into s
func (s *SearchSummary) Merge(o *SearchSummary) {
	s.Visited += o.Visited
	s.Evaluated += o.Evaluated
	s.Matched += o.Matched
	s.Advisories += o.Advisories
	for reason, n := range o.Skipped {
		if s.Skipped == nil {
			s.Skipped = make(map[SkipReason]int)
		}
		s.Skipped[reason] += n
	}
}
