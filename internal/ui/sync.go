package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	gnsync "github.com/g5becks/groupnames/internal/sync"
)

type styles struct {
	green  *color.Color
	red    *color.Color
	yellow *color.Color
	dim    *color.Color
	bold   *color.Color
}

func newStyles() styles {
	return styles{
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		dim:    color.New(color.Faint),
		bold:   color.New(color.Bold),
	}
}

// SyncPrinter renders sync progress events with colored output.
type SyncPrinter struct {
	w      io.Writer
	dryRun bool
	mu     sync.Mutex
	s      styles
}

// NewSyncPrinter creates a SyncPrinter that writes to stderr.
func NewSyncPrinter(dryRun bool) *SyncPrinter {
	return NewSyncPrinterWithWriter(os.Stderr, dryRun)
}

// NewSyncPrinterWithWriter creates a SyncPrinter that writes to the given writer.
func NewSyncPrinterWithWriter(w io.Writer, dryRun bool) *SyncPrinter {
	return &SyncPrinter{
		w:      w,
		dryRun: dryRun,
		s:      newStyles(),
	}
}

// HandleEvent is the callback wired into sync.Options.OnEvent.
func (p *SyncPrinter) HandleEvent(e gnsync.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch e.Kind {
	case gnsync.EventSourceStart:
		fmt.Fprintf(p.w, "%s fetching %s...\n",
			p.s.dim.Sprint("⟳"),
			p.s.bold.Sprint(e.Source),
		)

	case gnsync.EventSourceDone:
		p.handleDone(e)
	}
}

func (p *SyncPrinter) handleDone(e gnsync.Event) {
	if e.Err != nil {
		fmt.Fprintf(p.w, "%s %s: %s\n",
			p.s.red.Sprint("✗"),
			p.s.bold.Sprint(e.Source),
			e.Err,
		)
		return
	}

	if e.Result == nil {
		return
	}

	name := p.s.bold.Sprint(e.Source)

	if e.Result.Skipped {
		fmt.Fprintf(p.w, "%s %s %s\n",
			p.s.dim.Sprint("—"),
			name,
			p.s.dim.Sprint("(up to date)"),
		)
		return
	}

	mark := p.s.green.Sprint("✓")
	if len(e.Result.Failures) > 0 {
		mark = p.s.yellow.Sprint("!")
	}

	fmt.Fprintf(p.w, "%s %s %s\n",
		mark,
		name,
		p.s.dim.Sprint(formatCounts(e.Result.Documents, e.Result.Degradations, len(e.Result.Failures))),
	)

	for _, failure := range e.Result.Failures {
		fmt.Fprintf(p.w, "    %s %s: %s\n", p.s.yellow.Sprint("skipped"), failure.Location, failure.Err)
	}
}

func formatCounts(pages int, degraded int, failed int) string {
	parts := []string{fmt.Sprintf("%d page(s)", pages)}
	if degraded > 0 {
		parts = append(parts, fmt.Sprintf("%d degraded cell(s)", degraded))
	}
	if failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// PrintSummary renders a final summary line after sync completes.
func (p *SyncPrinter) PrintSummary(r *gnsync.RunResult) {
	if r == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.w)

	label := "sync complete"
	if p.dryRun {
		label = p.s.yellow.Sprint("dry-run complete")
	}

	parts := fmt.Sprintf("%s: %d source(s), %d record(s), %d up-to-date",
		label,
		r.Sources,
		r.Records,
		r.Skipped,
	)

	if len(r.Duplicates) > 0 {
		parts += fmt.Sprintf(", %s",
			p.s.yellow.Sprintf("%d duplicate label(s)", len(r.Duplicates)),
		)
	}

	if r.Errors > 0 {
		parts += fmt.Sprintf(", %s",
			p.s.red.Sprintf("%d failed", r.Errors),
		)
	}

	fmt.Fprintln(p.w, parts)

	if p.dryRun {
		fmt.Fprintln(p.w, p.s.dim.Sprint("manifest and lock file were not written"))
	}
}
