package core

import (
	"context"
	"sync"
	"time"

	"github.com/IvanShishkin/csr/internal/config"
	"github.com/IvanShishkin/csr/internal/filesystem"
	"github.com/IvanShishkin/csr/internal/filter"
	"github.com/IvanShishkin/csr/pkg/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProgressCallback is called after each visited entry of a root walk.
// visited and matched are counts for that root.
type ProgressCallback func(root string, visited, matched int, path string)

// Scanner coordinates root walks and applies the predicate chain
type Scanner struct {
	config           *config.Config
	logger           *zap.Logger
	walker           *filesystem.Walker
	progressCallback ProgressCallback
}

// NewScanner creates a new scanner instance
func NewScanner(cfg *config.Config, logger *zap.Logger) *Scanner {
	if cfg == nil {
		cfg = &config.Config{FollowSymlinks: true}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		config: cfg,
		logger: logger,
		walker: filesystem.NewWalker(cfg, logger),
	}
}

// SetProgressCallback sets the progress callback function
func (s *Scanner) SetProgressCallback(cb ProgressCallback) {
	s.progressCallback = cb
}

// Search walks every root in criteria and emits matches and advisories to
// sink. Per-root and per-entry failures are reported as advisories; the
// returned error is non-nil only when ctx is cancelled or the chain cannot
// be built. The summary is returned even when the search was cancelled.
func (s *Scanner) Search(ctx context.Context, criteria *models.SearchCriteria, sink Sink) (*models.SearchSummary, error) {
	if sink == nil {
		sink = SinkFuncs{}
	}

	chain, err := filter.NewChain(criteria)
	if err != nil {
		return nil, err
	}

	summary := &models.SearchSummary{
		ID:        uuid.NewString(),
		Roots:     criteria.Roots,
		StartTime: time.Now(),
	}

	opts := filesystem.WalkOptions{Recursive: criteria.Recursive}
	if criteria.SysWide {
		opts.Exclude = filesystem.NewExclusions(criteria.Exclude)
	}

	s.logger.Info("Starting search",
		zap.String("id", summary.ID),
		zap.Strings("roots", criteria.Roots),
		zap.Bool("recursive", opts.Recursive),
		zap.Bool("syswide", criteria.SysWide),
		zap.Strings("predicates", chain.Names()))

	if s.config.ParallelRoots && len(criteria.Roots) > 1 {
		err = s.searchParallel(ctx, criteria.Roots, chain, opts, sink, summary)
	} else {
		err = s.searchSequential(ctx, criteria.Roots, chain, opts, sink, summary)
	}

	summary.EndTime = time.Now()
	summary.Duration = summary.EndTime.Sub(summary.StartTime)

	if err != nil {
		s.logger.Info("Search stopped", zap.String("id", summary.ID), zap.Error(err))
		return summary, err
	}

	s.logger.Info("Search completed",
		zap.String("id", summary.ID),
		zap.Duration("duration", summary.Duration),
		zap.Int("visited", summary.Visited),
		zap.Int("matched", summary.Matched),
		zap.Int("advisories", summary.Advisories))

	return summary, nil
}

// searchSequential walks roots one after another in enumeration order
func (s *Scanner) searchSequential(ctx context.Context, roots []string, chain *filter.Chain, opts filesystem.WalkOptions, sink Sink, summary *models.SearchSummary) error {
	for _, root := range roots {
		stats, err := s.searchRoot(ctx, root, chain, opts, sink, s.progressCallback)
		summary.Merge(stats)
		if err != nil {
			return err
		}
	}
	return nil
}

// searchParallel walks each root in its own goroutine. Output from
// different roots interleaves; the sink and progress callback are
// serialized.
func (s *Scanner) searchParallel(ctx context.Context, roots []string, chain *filter.Chain, opts filesystem.WalkOptions, sink Sink, summary *models.SearchSummary) error {
	shared := &lockedSink{sink: sink}

	var progress ProgressCallback
	if s.progressCallback != nil {
		var mu sync.Mutex
		progress = func(root string, visited, matched int, path string) {
			mu.Lock()
			defer mu.Unlock()
			s.progressCallback(root, visited, matched, path)
		}
	}

	stats := make([]*models.SearchSummary, len(roots))
	g, gctx := errgroup.WithContext(ctx)
	for i, root := range roots {
		g.Go(func() error {
			var err error
			stats[i], err = s.searchRoot(gctx, root, chain, opts, shared, progress)
			return err
		})
	}
	err := g.Wait()

	for _, st := range stats {
		if st != nil {
			summary.Merge(st)
		}
	}
	return err
}

// searchRoot walks a single root and evaluates each entry
func (s *Scanner) searchRoot(ctx context.Context, root string, chain *filter.Chain, opts filesystem.WalkOptions, sink Sink, progress ProgressCallback) (*models.SearchSummary, error) {
	stats := &models.SearchSummary{}
	s.logger.Debug("Walking root", zap.String("root", root))

	err := s.walker.Walk(ctx, root, opts, func(v filesystem.Visit) error {
		if v.Advisory != nil {
			stats.Advisories++
			sink.EmitAdvisory(v.Advisory)
			return nil
		}

		entry := v.Entry
		stats.Visited++
		if entry.IsRegular {
			stats.Evaluated++
		}

		out := chain.Evaluate(entry)
		switch out.Verdict {
		case filter.VerdictAccept:
			stats.Matched++
			sink.EmitResult(models.NewResultRecord(entry))
		case filter.VerdictSkip:
			stats.AddSkip(out.Reason)
			s.logger.Debug("Entry skipped",
				zap.String("path", entry.Path),
				zap.String("predicate", out.Predicate),
				zap.String("reason", string(out.Reason)))
		}

		if progress != nil {
			progress(root, stats.Visited, stats.Matched, entry.Path)
		}
		return nil
	})

	return stats, err
}
