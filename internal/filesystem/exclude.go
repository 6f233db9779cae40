package filesystem

import (
	"os"
	"runtime"
	"strings"
)

// Exclusions holds path fragments that are never visited in a
// system-wide scan. A path is excluded when it, with a trailing
// separator appended, contains any fragment. Fragments are plain
// substrings, not globs.
type Exclusions struct {
	fragments []string
	fold      bool
}

// NewExclusions builds an exclusion set, dropping empty and duplicate fragments
func NewExclusions(fragments ...[]string) *Exclusions {
	fold := runtime.GOOS == "windows"
	seen := make(map[string]bool)
	e := &Exclusions{fold: fold}

	for _, list := range fragments {
		for _, frag := range list {
			if frag == "" {
				continue
			}
			if fold {
				frag = strings.ToLower(frag)
			}
			if seen[frag] {
				continue
			}
			seen[frag] = true
			e.fragments = append(e.fragments, frag)
		}
	}
	return e
}

// Fragments returns the configured fragments
func (e *Exclusions) Fragments() []string {
	if e == nil {
		return nil
	}
	return e.fragments
}

// Match reports whether path contains an excluded fragment.
// A nil set excludes nothing.
func (e *Exclusions) Match(path string) bool {
	if e == nil || len(e.fragments) == 0 {
		return false
	}

	candidate := path
	if !strings.HasSuffix(candidate, string(os.PathSeparator)) {
		candidate += string(os.PathSeparator)
	}
	if e.fold {
		candidate = strings.ToLower(candidate)
	}

	for _, frag := range e.fragments {
		if strings.Contains(candidate, frag) {
			return true
		}
	}
	return false
}

// DefaultExclusions returns the built-in protected fragments for this OS
func DefaultExclusions() []string {
	out := make([]string, len(defaultExclusions))
	copy(out, defaultExclusions)
	return out
}
