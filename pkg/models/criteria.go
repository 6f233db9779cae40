package models

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Comparator is the direction of a size or time constraint
type Comparator string

const (
	GreaterThan Comparator = ">"
	LessThan    Comparator = "<"
)

// SizeConstraint is a parsed size expression such as ">10MB".
// Comparisons are strict: a size equal to the threshold never matches.
type SizeConstraint struct {
	Op        Comparator
	Threshold float64 // bytes
	Unit      string  // unit the expression was written in
}

// Match reports whether size satisfies the constraint
func (c *SizeConstraint) Match(size uint64) bool {
	s := float64(size)
	switch c.Op {
	case GreaterThan:
		return s > c.Threshold
	case LessThan:
		return s < c.Threshold
	}
	return false
}

// String formats the constraint back into expression form
func (c *SizeConstraint) String() string {
	mult := UnitMultipliers[c.Unit]
	if mult == 0 {
		mult = 1
	}
	return fmt.Sprintf("%s%s%s", c.Op, strconv.FormatFloat(c.Threshold/mult, 'f', -1, 64), c.Unit)
}

// UnitMultipliers maps size units to their byte multiplier
var UnitMultipliers = map[string]float64{
	"B":  1,
	"KB": 1024,
	"MB": 1024 * 1024,
	"GB": 1024 * 1024 * 1024,
}

// TimeConstraint filters entries by modification time.
// GreaterThan means modified after At, LessThan modified before At.
type TimeConstraint struct {
	Op Comparator
	At time.Time
}

// Match reports whether modTime satisfies the constraint
func (c *TimeConstraint) Match(modTime time.Time) bool {
	switch c.Op {
	case GreaterThan:
		return modTime.After(c.At)
	case LessThan:
		return modTime.Before(c.At)
	}
	return false
}

// SearchCriteria is the immutable configuration for one search
type SearchCriteria struct {
	Name      string          // Glob against name or relative path
	Content   *regexp.Regexp  // Content pattern
	Extension string          // Case-insensitive path suffix
	Size      *SizeConstraint // nil when no size filter
	Modified  *TimeConstraint // nil when no modified filter

	Roots     []string // Roots to walk, in order
	Recursive bool
	SysWide   bool
	Exclude   []string // Path fragments skipped when SysWide is set
}

// HasContent reports whether content reading is required
func (c *SearchCriteria) HasContent() bool {
	return c.Content != nil
}
