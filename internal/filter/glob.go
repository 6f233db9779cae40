package filter

import (
	"fmt"
	"path"
	"runtime"
	"strings"
)

// Glob matches shell-style patterns against entry paths.
//
// A pattern without a separator is matched against the base name. A pattern
// with separators is matched right-anchored against the trailing components
// of the path, so "src/*.go" matches "/repo/src/main.go". An absolute
// pattern has to match every component. Wildcards never cross a separator.
type Glob struct {
	pattern  string
	parts    []string
	absolute bool
	fold     bool
}

// NewGlob compiles a glob pattern. "[!...]" negated classes are accepted
// alongside "[^...]".
func NewGlob(pattern string) (*Glob, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty glob pattern")
	}

	fold := runtime.GOOS == "windows"
	p := normalizeSeparators(pattern)
	if fold {
		p = strings.ToLower(p)
	}

	absolute := strings.HasPrefix(p, "/") || hasVolume(p)
	parts := splitParts(p)
	if len(parts) == 0 {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}

	for i, part := range parts {
		parts[i] = translateClasses(part)
		if _, err := path.Match(parts[i], ""); err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
	}

	return &Glob{
		pattern:  pattern,
		parts:    parts,
		absolute: absolute,
		fold:     fold,
	}, nil
}

// String returns the original pattern
func (g *Glob) String() string {
	return g.pattern
}

// Match reports whether the path matches the pattern
func (g *Glob) Match(p string) bool {
	p = normalizeSeparators(p)
	if g.fold {
		p = strings.ToLower(p)
	}
	parts := splitParts(p)

	if g.absolute {
		if len(parts) != len(g.parts) {
			return false
		}
	} else if len(parts) < len(g.parts) {
		return false
	}

	offset := len(parts) - len(g.parts)
	for i, pat := range g.parts {
		ok, err := path.Match(pat, parts[offset+i])
		if err != nil || !ok {
			return false
		}
	}
	return true
}

// normalizeSeparators converts OS separators to forward slashes
func normalizeSeparators(p string) string {
	if runtime.GOOS == "windows" {
		return strings.ReplaceAll(p, `\`, "/")
	}
	return p
}

// hasVolume reports whether p starts with a drive letter ("C:")
func hasVolume(p string) bool {
	return len(p) >= 2 && p[1] == ':' &&
		((p[0] >= 'a' && p[0] <= 'z') || (p[0] >= 'A' && p[0] <= 'Z'))
}

// splitParts splits on "/" dropping empty and "." components
func splitParts(p string) []string {
	raw := strings.Split(p, "/")
	parts := raw[:0]
	for _, part := range raw {
		if part == "" || part == "." {
			continue
		}
		parts = append(parts, part)
	}
	return parts
}

// translateClasses rewrites "[!" negation into the "[^" form path.Match understands
func translateClasses(part string) string {
	if !strings.Contains(part, "[!") {
		return part
	}

	var sb strings.Builder
	escaped := false
	for i := 0; i < len(part); i++ {
		c := part[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && runtime.GOOS != "windows":
			escaped = true
		case c == '[' && i+1 < len(part) && part[i+1] == '!':
			sb.WriteString("[^")
			i++
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
