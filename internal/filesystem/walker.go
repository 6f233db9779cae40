package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/IvanShishkin/csr/internal/config"
	"github.com/IvanShishkin/csr/pkg/models"
	"go.uber.org/zap"
)

// Visit is one step of a walk: either a candidate entry or an advisory
// about something that could not be read. Exactly one field is set.
type Visit struct {
	Entry    *models.FileEntry
	Advisory *models.Advisory
}

// VisitFunc receives walk steps in traversal order. Returning an error
// stops the walk and the error is returned from Walk.
type VisitFunc func(Visit) error

// WalkOptions controls a single root walk
type WalkOptions struct {
	Recursive bool        // descend into subdirectories
	Exclude   *Exclusions // skip matching paths (system-wide scans), may be nil
}

// Walker walks the filesystem and produces candidate entries
type Walker struct {
	config *config.Config
	logger *zap.Logger
}

// NewWalker creates a new filesystem walker
func NewWalker(cfg *config.Config, logger *zap.Logger) *Walker {
	if cfg == nil {
		cfg = &config.Config{FollowSymlinks: true}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{
		config: cfg,
		logger: logger,
	}
}

// Walk visits the entries under root. Directories are traversed but not
// visited. Per-entry failures become advisories and the walk continues;
// an inaccessible root produces a single root advisory and no entries.
// The only errors returned are ctx.Err() and errors returned by visit.
func (w *Walker) Walk(ctx context.Context, root string, opts WalkOptions, visit VisitFunc) error {
	info, err := os.Lstat(root)
	if err != nil {
		return visit(Visit{Advisory: rootAdvisory(root, "Cannot access root", err)})
	}

	walkRoot := root
	if info.Mode()&os.ModeSymlink != 0 {
		// WalkDir does not descend into a symlinked root; a trailing
		// separator makes the lstat resolve the link target.
		walkRoot = root + string(os.PathSeparator)
		if info, err = os.Stat(root); err != nil {
			return visit(Visit{Advisory: rootAdvisory(root, "Cannot access root", err)})
		}
	}
	if !info.IsDir() {
		return visit(Visit{Advisory: rootAdvisory(root, "Root is not a directory", nil)})
	}

	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		isRoot := path == walkRoot
		if err != nil {
			if isRoot {
				w.logger.Warn("Error accessing root", zap.String("root", root), zap.Error(err))
				if visitErr := visit(Visit{Advisory: rootAdvisory(root, "Cannot read root", err)}); visitErr != nil {
					return visitErr
				}
				return filepath.SkipDir
			}

			w.logger.Warn("Error accessing path", zap.String("path", path), zap.Error(err))
			if visitErr := visit(Visit{Advisory: entryAdvisory(path, describe(d), err)}); visitErr != nil {
				return visitErr
			}
			// Continue walking
			return nil
		}

		if isRoot {
			return nil
		}

		// Skip excluded paths
		if opts.Exclude.Match(path) {
			w.logger.Debug("Skipping excluded path", zap.String("path", path))
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if !opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}

		entry, adv := w.entryFor(root, walkRoot, path, d)
		switch {
		case adv != nil:
			return visit(Visit{Advisory: adv})
		case entry != nil:
			return visit(Visit{Entry: entry})
		}
		return nil
	})

	return err
}

// entryFor stats a non-directory item. A nil entry with a nil advisory
// means the item is skipped silently (dangling or unfollowed symlink).
func (w *Walker) entryFor(root, walkRoot, path string, d fs.DirEntry) (*models.FileEntry, *models.Advisory) {
	info, err := d.Info()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Removed between listing and stat
			w.logger.Debug("Entry vanished during walk", zap.String("path", path))
			return nil, nil
		}
		w.logger.Warn("Failed to stat entry", zap.String("path", path), zap.Error(err))
		return nil, entryAdvisory(path, "Cannot stat entry", err)
	}

	isSymlink := info.Mode()&os.ModeSymlink != 0
	if isSymlink {
		if !w.config.FollowSymlinks {
			w.logger.Debug("Skipping symlink", zap.String("path", path))
			return nil, nil
		}
		info, err = os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				w.logger.Debug("Skipping dangling symlink", zap.String("path", path))
				return nil, nil
			}
			w.logger.Warn("Failed to resolve symlink", zap.String("path", path), zap.Error(err))
			return nil, entryAdvisory(path, "Cannot resolve symlink", err)
		}
	}

	// Get relative path
	relPath, err := filepath.Rel(walkRoot, path)
	if err != nil {
		relPath = path
	}

	var size uint64
	if info.Size() > 0 {
		size = uint64(info.Size())
	}

	return &models.FileEntry{
		Path:         path,
		RelativePath: relPath,
		Name:         d.Name(),
		Root:         root,
		Size:         size,
		ModTime:      info.ModTime().Truncate(time.Second),
		IsRegular:    info.Mode().IsRegular(),
		IsSymlink:    isSymlink,
	}, nil
}

// describe picks the advisory message for a failed walk step
func describe(d fs.DirEntry) string {
	if d != nil && d.IsDir() {
		return "Cannot read directory"
	}
	return "Cannot access entry"
}

func rootAdvisory(root, message string, err error) *models.Advisory {
	return &models.Advisory{
		Kind:    models.AdvisoryRoot,
		Path:    root,
		Message: message,
		Err:     err,
	}
}

func entryAdvisory(path, message string, err error) *models.Advisory {
	return &models.Advisory{
		Kind:    models.AdvisoryEntry,
		Path:    path,
		Message: message,
		Err:     err,
	}
}
