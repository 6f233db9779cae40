package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/IvanShishkin/csr/internal/filesystem"
	"github.com/IvanShishkin/csr/internal/filter"
	"github.com/IvanShishkin/csr/pkg/models"
)

var (
	// ErrRootNotFound is returned when an explicit local root does not exist
	ErrRootNotFound = errors.New("search root does not exist")
	// ErrRootNotDir is returned when an explicit local root is not a directory
	ErrRootNotDir = errors.New("search root is not a directory")
	// ErrInvalidPattern is returned for a malformed name glob or content regex
	ErrInvalidPattern = errors.New("invalid pattern")
)

// Options holds the raw search parameters as given by the user
type Options struct {
	Name      string
	Content   string
	Extension string
	Size      string
	Modified  string
	Path      string
	Recursive bool
	SysWide   bool
	Exclude   []string // extra fragments for system-wide scans
}

// NewCriteria validates options and builds the immutable search criteria.
//
// Malformed size and modified expressions disable their filter instead of
// failing; the ignored expressions are returned so the caller can report
// them. Only misconfiguration that makes the search meaningless (missing
// local root, bad patterns) is an error.
func NewCriteria(opts Options, now time.Time) (*models.SearchCriteria, []string, error) {
	criteria := &models.SearchCriteria{
		Name:      opts.Name,
		Extension: opts.Extension,
		Recursive: opts.Recursive || opts.SysWide,
		SysWide:   opts.SysWide,
	}
	var ignored []string

	if opts.Name != "" {
		if _, err := filter.NewGlob(opts.Name); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
		}
	}

	if opts.Content != "" {
		re, err := regexp.Compile(opts.Content)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: content %q: %v", ErrInvalidPattern, opts.Content, err)
		}
		criteria.Content = re
	}

	if opts.Size != "" {
		if c, ok := filter.ParseSize(opts.Size); ok {
			criteria.Size = c
		} else {
			ignored = append(ignored, "size "+opts.Size)
		}
	}

	if opts.Modified != "" {
		if c, ok := filter.ParseModified(opts.Modified, now); ok {
			criteria.Modified = c
		} else {
			ignored = append(ignored, "modified "+opts.Modified)
		}
	}

	if opts.SysWide {
		roots, err := filesystem.SystemRoots()
		if err != nil {
			return nil, nil, err
		}
		criteria.Roots = roots
		criteria.Exclude = append(filesystem.DefaultExclusions(), opts.Exclude...)
		return criteria, ignored, nil
	}

	root, err := resolveRoot(opts.Path)
	if err != nil {
		return nil, nil, err
	}
	criteria.Roots = []string{root}

	return criteria, ignored, nil
}

// resolveRoot checks the local search root, defaulting to the working directory
func resolveRoot(path string) (string, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		return wd, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrRootNotFound, path)
		}
		return "", fmt.Errorf("failed to access %s: %w", path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrRootNotDir, path)
	}

	return filepath.Clean(path), nil
}
