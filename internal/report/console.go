package report

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/IvanShishkin/csr/pkg/models"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
)

var (
	advisoryColor = color.New(color.FgRed)
	noticeColor   = color.New(color.FgYellow)
	dimColor      = color.New(color.FgHiBlack)
)

// PrintAdvisory writes a single advisory line
func PrintAdvisory(w io.Writer, a *models.Advisory) {
	label := "Warning"
	if a.Kind == models.AdvisoryRoot {
		label = "Error"
	}
	fmt.Fprintln(w, advisoryColor.Sprintf("%s: %s", label, a.String()))
}

// PrintNoResults writes the zero-match notice
func PrintNoResults(w io.Writer) {
	fmt.Fprintln(w, noticeColor.Sprint("No files found matching the criteria."))
}

// PrintSummary writes a one-line search summary
func PrintSummary(w io.Writer, s *models.SearchSummary) {
	fmt.Fprintln(w, dimColor.Sprintf("%d matched, %d visited, %d advisories in %s",
		s.Matched, s.Visited, s.Advisories, FormatDuration(s.Duration)))
}

// Progress renders a single self-overwriting status line. It is only
// active when the output is a terminal.
type Progress struct {
	out      *os.File
	enabled  bool
	interval time.Duration

	mu         sync.Mutex
	lastReport time.Time
	drawn      bool
}

// NewProgress creates a progress line on out
func NewProgress(out *os.File, enabled bool) *Progress {
	tty := isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
	return &Progress{
		out:      out,
		enabled:  enabled && tty,
		interval: 100 * time.Millisecond,
	}
}

// Enabled reports whether progress is drawn
func (p *Progress) Enabled() bool {
	return p.enabled
}

// Update redraws the line at most once per interval
func (p *Progress) Update(root string, visited, matched int, path string) {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if time.Since(p.lastReport) < p.interval {
		return
	}
	p.lastReport = time.Now()

	line := fmt.Sprintf("Scanning %s: %d visited, %d matched  %s", root, visited, matched, path)
	line = runewidth.Truncate(line, 100, "...")
	fmt.Fprintf(p.out, "\r\033[K%s", dimColor.Sprint(line))
	p.drawn = true
}

// Clear erases the progress line
func (p *Progress) Clear() {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drawn {
		fmt.Fprint(p.out, "\r\033[K")
		p.drawn = false
	}
}
