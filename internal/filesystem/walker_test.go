package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/IvanShishkin/csr/internal/config"
	"github.com/IvanShishkin/csr/pkg/models"
	"go.uber.org/zap"
)

// buildTree creates:
//
//	root/a.txt
//	root/b.log
//	root/sub/c.txt
//	root/sub/deep/d.txt
func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"a.txt":          "alpha",
		"b.log":          "bravo",
		"sub/c.txt":      "charlie",
		"sub/deep/d.txt": "delta",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}
	return root
}

type walkLog struct {
	entries    []*models.FileEntry
	advisories []*models.Advisory
}

func (l *walkLog) visit(v Visit) error {
	if v.Advisory != nil {
		l.advisories = append(l.advisories, v.Advisory)
	} else {
		l.entries = append(l.entries, v.Entry)
	}
	return nil
}

func (l *walkLog) relPaths() []string {
	var out []string
	for _, e := range l.entries {
		out = append(out, filepath.ToSlash(e.RelativePath))
	}
	sort.Strings(out)
	return out
}

func newTestWalker() *Walker {
	return NewWalker(&config.Config{FollowSymlinks: true}, zap.NewNop())
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestWalker_NonRecursive(t *testing.T) {
	root := buildTree(t)
	var log walkLog

	if err := newTestWalker().Walk(context.Background(), root, WalkOptions{}, log.visit); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	want := []string{"a.txt", "b.log"}
	if got := log.relPaths(); !equalStrings(got, want) {
		t.Errorf("Walk() entries = %v, want %v", got, want)
	}
	if len(log.advisories) != 0 {
		t.Errorf("Walk() advisories = %v, want none", log.advisories)
	}
}

func TestWalker_Recursive(t *testing.T) {
	root := buildTree(t)
	var log walkLog

	if err := newTestWalker().Walk(context.Background(), root, WalkOptions{Recursive: true}, log.visit); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	want := []string{"a.txt", "b.log", "sub/c.txt", "sub/deep/d.txt"}
	if got := log.relPaths(); !equalStrings(got, want) {
		t.Errorf("Walk() entries = %v, want %v", got, want)
	}

	for _, e := range log.entries {
		if !e.IsRegular {
			t.Errorf("entry %s IsRegular = false", e.Path)
		}
		if e.Root != root {
			t.Errorf("entry %s Root = %q, want %q", e.Path, e.Root, root)
		}
		if e.ModTime.Nanosecond() != 0 {
			t.Errorf("entry %s ModTime not truncated to seconds", e.Path)
		}
		if e.Path != filepath.Join(root, e.RelativePath) {
			t.Errorf("entry Path = %q, want root joined %q", e.Path, e.RelativePath)
		}
	}
}

func TestWalker_Exclusions(t *testing.T) {
	root := buildTree(t)
	var log walkLog

	opts := WalkOptions{
		Recursive: true,
		Exclude:   NewExclusions([]string{string(os.PathSeparator) + "deep" + string(os.PathSeparator), "b.log"}),
	}
	if err := newTestWalker().Walk(context.Background(), root, opts, log.visit); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	want := []string{"a.txt", "sub/c.txt"}
	if got := log.relPaths(); !equalStrings(got, want) {
		t.Errorf("Walk() entries = %v, want %v", got, want)
	}
}

func TestWalker_MissingRoot(t *testing.T) {
	var log walkLog
	root := filepath.Join(t.TempDir(), "missing")

	if err := newTestWalker().Walk(context.Background(), root, WalkOptions{Recursive: true}, log.visit); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	if len(log.entries) != 0 {
		t.Errorf("Walk() entries = %d, want 0", len(log.entries))
	}
	if len(log.advisories) != 1 || log.advisories[0].Kind != models.AdvisoryRoot {
		t.Fatalf("Walk() advisories = %v, want one root advisory", log.advisories)
	}
	if log.advisories[0].Path != root {
		t.Errorf("advisory path = %q, want %q", log.advisories[0].Path, root)
	}
}

func TestWalker_RootIsFile(t *testing.T) {
	root := buildTree(t)
	var log walkLog

	if err := newTestWalker().Walk(context.Background(), filepath.Join(root, "a.txt"), WalkOptions{}, log.visit); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(log.entries) != 0 || len(log.advisories) != 1 {
		t.Errorf("Walk() = %d entries, %d advisories; want 0, 1", len(log.entries), len(log.advisories))
	}
}

func TestWalker_UnreadableSubdirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}

	root := buildTree(t)
	locked := filepath.Join(root, "sub", "deep")
	if err := os.Chmod(locked, 0000); err != nil {
		t.Fatalf("Chmod() error = %v", err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	var log walkLog
	if err := newTestWalker().Walk(context.Background(), root, WalkOptions{Recursive: true}, log.visit); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	want := []string{"a.txt", "b.log", "sub/c.txt"}
	if got := log.relPaths(); !equalStrings(got, want) {
		t.Errorf("Walk() entries = %v, want %v", got, want)
	}
	if len(log.advisories) != 1 {
		t.Fatalf("Walk() advisories = %d, want 1", len(log.advisories))
	}
	adv := log.advisories[0]
	if adv.Kind != models.AdvisoryEntry || adv.Path != locked {
		t.Errorf("advisory = %+v, want entry advisory for %s", adv, locked)
	}
	if !errors.Is(adv.Err, os.ErrPermission) {
		t.Errorf("advisory error = %v, want permission error", adv.Err)
	}
}

func TestWalker_Symlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on Windows")
	}

	root := buildTree(t)
	if err := os.Symlink(filepath.Join(root, "a.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Fatalf("Symlink() error = %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "sub"), filepath.Join(root, "linkdir")); err != nil {
		t.Fatalf("Symlink() error = %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "dangling")); err != nil {
		t.Fatalf("Symlink() error = %v", err)
	}

	t.Run("follow", func(t *testing.T) {
		var log walkLog
		if err := newTestWalker().Walk(context.Background(), root, WalkOptions{}, log.visit); err != nil {
			t.Fatalf("Walk() error = %v", err)
		}

		byName := make(map[string]*models.FileEntry)
		for _, e := range log.entries {
			byName[e.Name] = e
		}

		link, ok := byName["link.txt"]
		if !ok || !link.IsRegular || !link.IsSymlink {
			t.Errorf("link.txt = %+v, want regular symlink entry", link)
		}
		if d, ok := byName["linkdir"]; ok && d.IsRegular {
			t.Error("linkdir reported as regular file")
		}
		if _, ok := byName["dangling"]; ok {
			t.Error("dangling symlink should be skipped")
		}
		if len(log.advisories) != 0 {
			t.Errorf("advisories = %v, want none", log.advisories)
		}
	})

	t.Run("no follow", func(t *testing.T) {
		var log walkLog
		w := NewWalker(&config.Config{FollowSymlinks: false}, zap.NewNop())
		if err := w.Walk(context.Background(), root, WalkOptions{}, log.visit); err != nil {
			t.Fatalf("Walk() error = %v", err)
		}
		want := []string{"a.txt", "b.log"}
		if got := log.relPaths(); !equalStrings(got, want) {
			t.Errorf("Walk() entries = %v, want %v", got, want)
		}
	})

	t.Run("symlinked root", func(t *testing.T) {
		var log walkLog
		if err := newTestWalker().Walk(context.Background(), filepath.Join(root, "linkdir"), WalkOptions{}, log.visit); err != nil {
			t.Fatalf("Walk() error = %v", err)
		}
		want := []string{"c.txt"}
		if got := log.relPaths(); !equalStrings(got, want) {
			t.Errorf("Walk() entries = %v, want %v", got, want)
		}
	})
}

func TestWalker_Cancelled(t *testing.T) {
	root := buildTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var log walkLog
	err := newTestWalker().Walk(ctx, root, WalkOptions{Recursive: true}, log.visit)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Walk() error = %v, want context.Canceled", err)
	}
	if len(log.entries) != 0 {
		t.Errorf("Walk() entries = %d after cancel, want 0", len(log.entries))
	}
}

func TestWalker_VisitErrorStops(t *testing.T) {
	root := buildTree(t)
	stop := errors.New("stop")

	count := 0
	err := newTestWalker().Walk(context.Background(), root, WalkOptions{Recursive: true}, func(v Visit) error {
		count++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("Walk() error = %v, want %v", err, stop)
	}
	if count != 1 {
		t.Errorf("visit called %d times, want 1", count)
	}
}
