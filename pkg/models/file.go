package models

import (
	"time"
)

// FileEntry describes a filesystem item visited during a walk.
// It only lives for the duration of predicate evaluation.
type FileEntry struct {
	Path         string    // Path as produced by the walk (root joined)
	RelativePath string    // Path relative to the walk root
	Name         string    // Base name
	Root         string    // Root the entry was found under
	Size         uint64    // Size in bytes
	ModTime      time.Time // Modification time, whole seconds
	IsRegular    bool      // Regular file (after resolving symlinks)
	IsSymlink    bool      // Entry itself is a symbolic link
}

// ResultRecord is the unit emitted for each matching file
type ResultRecord struct {
	Path     string    `json:"path" yaml:"path"`
	Size     uint64    `json:"size" yaml:"size"`
	Modified time.Time `json:"modified" yaml:"modified"`
	Root     string    `json:"-" yaml:"-"`
}

// NewResultRecord builds a record from a matching entry
func NewResultRecord(entry *FileEntry) *ResultRecord {
	return &ResultRecord{
		Path:     entry.Path,
		Size:     entry.Size,
		Modified: entry.ModTime,
		Root:     entry.Root,
	}
}
