// Package filter implements the per-entry predicates applied during a search.
//
// Each predicate is a pure test over a models.FileEntry. A Chain combines the
// configured predicates with logical AND and stops at the first predicate that
// does not accept the entry. Predicates never return errors: an entry that
// cannot be evaluated (for example an unreadable file during a content search)
// produces a Skipped outcome carrying the reason.
package filter

import (
	"strings"

	"github.com/IvanShishkin/csr/pkg/models"
)

// Verdict is the decision a predicate makes about an entry
type Verdict int

const (
	VerdictAccept Verdict = iota
	VerdictReject
	VerdictSkip
)

// Outcome is the result of evaluating one entry
type Outcome struct {
	Verdict   Verdict
	Predicate string            // Predicate that rejected or skipped the entry
	Reason    models.SkipReason // Set when Verdict is VerdictSkip
}

// Accepted returns an accepting outcome
func Accepted() Outcome {
	return Outcome{Verdict: VerdictAccept}
}

// Rejected returns an outcome rejected by the named predicate
func Rejected(predicate string) Outcome {
	return Outcome{Verdict: VerdictReject, Predicate: predicate}
}

// Skipped returns an outcome for an entry the named predicate could not evaluate
func Skipped(predicate string, reason models.SkipReason) Outcome {
	return Outcome{Verdict: VerdictSkip, Predicate: predicate, Reason: reason}
}

// Accepted reports whether the entry matched
func (o Outcome) Accepted() bool {
	return o.Verdict == VerdictAccept
}

// Predicate is a single test over a file entry
type Predicate interface {
	Name() string
	Match(entry *models.FileEntry) Outcome
}

// Chain evaluates predicates in order, short-circuiting on the first failure
type Chain struct {
	predicates []Predicate
}

// NewChain builds the predicate chain for the given criteria. Metadata
// predicates come first; the content predicate, which reads the file, is
// added last and only when a pattern is configured.
func NewChain(criteria *models.SearchCriteria) (*Chain, error) {
	var predicates []Predicate

	if criteria.Name != "" {
		glob, err := NewGlob(criteria.Name)
		if err != nil {
			return nil, err
		}
		predicates = append(predicates, &NamePredicate{glob: glob})
	}
	if criteria.Extension != "" {
		predicates = append(predicates, NewExtensionPredicate(criteria.Extension))
	}
	if criteria.Size != nil {
		predicates = append(predicates, &SizePredicate{constraint: criteria.Size})
	}
	if criteria.Modified != nil {
		predicates = append(predicates, &ModifiedPredicate{constraint: criteria.Modified})
	}
	if criteria.HasContent() {
		predicates = append(predicates, &ContentPredicate{matcher: NewContentMatcher(criteria.Content)})
	}

	return &Chain{predicates: predicates}, nil
}

// NewChainOf builds a chain from explicit predicates
func NewChainOf(predicates ...Predicate) *Chain {
	return &Chain{predicates: predicates}
}

// Len returns the number of configured predicates
func (c *Chain) Len() int {
	return len(c.predicates)
}

// Names returns predicate names in evaluation order
func (c *Chain) Names() []string {
	names := make([]string, len(c.predicates))
	for i, p := range c.predicates {
		names[i] = p.Name()
	}
	return names
}

// Evaluate runs the chain against an entry. Entries that are not regular
// files are rejected before any predicate runs.
func (c *Chain) Evaluate(entry *models.FileEntry) Outcome {
	if !entry.IsRegular {
		return Rejected("regular")
	}
	for _, p := range c.predicates {
		if out := p.Match(entry); !out.Accepted() {
			return out
		}
	}
	return Accepted()
}

// NamePredicate matches the entry path against a glob
type NamePredicate struct {
	glob *Glob
}

func (p *NamePredicate) Name() string { return "name" }

func (p *NamePredicate) Match(entry *models.FileEntry) Outcome {
	if p.glob.Match(entry.Path) {
		return Accepted()
	}
	return Rejected(p.Name())
}

// ExtensionPredicate is a case-insensitive suffix test on the full path,
// so ".tar.gz" is compared as a literal trailing substring.
type ExtensionPredicate struct {
	suffix string
}

// NewExtensionPredicate creates an extension predicate
func NewExtensionPredicate(ext string) *ExtensionPredicate {
	return &ExtensionPredicate{suffix: strings.ToLower(ext)}
}

func (p *ExtensionPredicate) Name() string { return "extension" }

func (p *ExtensionPredicate) Match(entry *models.FileEntry) Outcome {
	if strings.HasSuffix(strings.ToLower(entry.Path), p.suffix) {
		return Accepted()
	}
	return Rejected(p.Name())
}

// SizePredicate applies a size constraint
type SizePredicate struct {
	constraint *models.SizeConstraint
}

func (p *SizePredicate) Name() string { return "size" }

func (p *SizePredicate) Match(entry *models.FileEntry) Outcome {
	if p.constraint.Match(entry.Size) {
		return Accepted()
	}
	return Rejected(p.Name())
}

// ModifiedPredicate applies a modification time constraint
type ModifiedPredicate struct {
	constraint *models.TimeConstraint
}

func (p *ModifiedPredicate) Name() string { return "modified" }

func (p *ModifiedPredicate) Match(entry *models.FileEntry) Outcome {
	if p.constraint.Match(entry.ModTime) {
		return Accepted()
	}
	return Rejected(p.Name())
}

// ContentPredicate searches file content
type ContentPredicate struct {
	matcher *ContentMatcher
}

func (p *ContentPredicate) Name() string { return "content" }

func (p *ContentPredicate) Match(entry *models.FileEntry) Outcome {
	return p.matcher.Match(entry.Path)
}
