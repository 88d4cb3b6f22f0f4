// Package progress draws a single-line progress bar for long running
// commands.
package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// Bar counts completed steps out of a known total and redraws itself on
// every 5% step. It is safe for concurrent use.
//
//nolint:govet // fieldalignment: readability preferred over minor memory optimization
type Bar struct {
	mu       sync.Mutex
	total    int64
	current  int64
	progress progress.Model
	writer   io.Writer
	lastPct  int

	// Info, if set, is appended to every redraw.
	Info func() string
}

var infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green"))

// New creates a bar for total steps drawn on writer. A nil writer
// disables drawing.
func New(total int64, writer io.Writer) *Bar {
	prog := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	return &Bar{
		total:    total,
		progress: prog,
		writer:   writer,
		lastPct:  -1,
	}
}

// Add records n more completed steps.
func (b *Bar) Add(n int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current += n

	if b.writer == nil || b.total <= 0 {
		return
	}

	percent := min(float64(b.current)/float64(b.total), 1)
	currentPct := int(percent * 100)

	// Only update every 5% to avoid too many updates
	if currentPct != b.lastPct && (currentPct%5 == 0 || currentPct == 100 || b.lastPct == -1) {
		b.lastPct = currentPct
		b.render(percent)
	}
}

// Current returns the number of completed steps.
func (b *Bar) Current() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.current
}

// render displays the progress bar. Callers hold mu.
func (b *Bar) render(percent float64) {
	// Clear line and move cursor to start
	_, _ = fmt.Fprint(b.writer, "\r\033[K") //nolint:errcheck // best effort progress display

	bar := b.progress.ViewAs(percent)

	text := fmt.Sprintf(" %3.0f%% (%d / %d)", percent*100, b.current, b.total)
	if b.Info != nil {
		text += " " + b.Info()
	}

	_, _ = fmt.Fprint(b.writer, bar+infoStyle.Render(text)) //nolint:errcheck // best effort progress display
}

// Finish completes the progress display.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.writer != nil {
		b.render(1.0)
		_, _ = fmt.Fprintln(b.writer) //nolint:errcheck // best effort progress display
	}
}
