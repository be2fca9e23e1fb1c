// Package progress reports stage progress on a terminal or a log stream.
//
// On a terminal the current unit is redrawn in place next to a progress
// bar; anywhere else each unit is one line, so redirected output stays
// greppable. Stage summaries are rendered as a key/value block.
package progress

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
	"github.com/custodia-labs/wikicorpus/internal/core/ports/driven"
)

// Ensure Reporter implements the interface.
var _ driven.ProgressReporter = (*Reporter)(nil)

const (
	barWidth        = 30
	maxDetailWidth  = 60
	summaryKeyWidth = 22
)

// Reporter writes progress for one stage at a time.
type Reporter struct {
	out         io.Writer
	interactive bool
	styles      *Styles
	bar         progress.Model

	label string
	total int
	done  int
}

// New creates a reporter writing to w. Interactive output is used when w
// is a terminal.
func New(w io.Writer) *Reporter {
	interactive := false
	if f, ok := w.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	return newReporter(w, interactive)
}

// NewPlain creates a reporter that always writes one line per unit.
func NewPlain(w io.Writer) *Reporter {
	return newReporter(w, false)
}

func newReporter(w io.Writer, interactive bool) *Reporter {
	styles := NewStyles(DefaultTheme(), lipgloss.NewRenderer(w))
	return &Reporter{
		out:         w,
		interactive: interactive,
		styles:      styles,
		bar: progress.New(
			progress.WithGradient(string(styles.Theme().Primary), string(styles.Theme().Secondary)),
			progress.WithWidth(barWidth),
		),
	}
}

// Start begins a stage. total is zero when the number of units is unknown.
func (r *Reporter) Start(label string, total int) {
	r.label = label
	r.total = total
	r.done = 0
	fmt.Fprintln(r.out, r.styles.Title.Render("▸ "+label))
}

// Step records one finished unit.
func (r *Reporter) Step(detail string) {
	r.done++

	if !r.interactive {
		fmt.Fprintf(r.out, "  [%s %s] %s\n", r.label, r.position(), detail)
		return
	}

	line := "  " + r.position()
	if r.total > 0 {
		line = "  " + r.bar.ViewAs(float64(r.done)/float64(r.total)) + " " + r.position()
	}
	line += " " + r.styles.Detail.Render(truncate(detail, maxDetailWidth))
	// Clear the rest of the previous line before redrawing.
	fmt.Fprint(r.out, "\r"+line+"\x1b[K")
}

// Finish ends the stage and prints its summary.
func (r *Reporter) Finish(summary domain.StageSummary) {
	if r.interactive && r.done > 0 {
		fmt.Fprintln(r.out)
	}
	fmt.Fprintln(r.out, r.RenderSummary(summary))
}

func (r *Reporter) position() string {
	if r.total > 0 {
		return fmt.Sprintf("%d/%d", r.done, r.total)
	}
	return fmt.Sprintf("#%d", r.done)
}

// RenderSummary formats the non-zero counters of a stage summary.
func (r *Reporter) RenderSummary(s domain.StageSummary) string {
	var b strings.Builder
	b.WriteString(r.styles.Title.Render(string(s.Stage) + " complete"))

	for _, row := range summaryRows(s) {
		value := r.styles.Value
		if row.warn {
			value = r.styles.Warning
		}
		b.WriteString("\n")
		b.WriteString(r.styles.Key.Render(row.key))
		b.WriteString(value.Render(row.value))
	}

	return r.styles.Box.Render(b.String())
}

type summaryRow struct {
	key   string
	value string
	warn  bool
}

// summaryRows lists the counters of s that are set, in pipeline order.
func summaryRows(s domain.StageSummary) []summaryRow {
	counters := []struct {
		key  string
		n    int
		warn bool
	}{
		{"Categories visited", s.CategoriesVisited, false},
		{"Category failures", s.CategoryFailures, true},
		{"Pages harvested", s.PagesHarvested, false},
		{"Pages kept", s.PagesKept, false},
		{"Pages ignored", s.PagesIgnored, false},
		{"Batches fetched", s.BatchesFetched, false},
		{"Batches failed", s.BatchesFailed, true},
		{"Pages fetched", s.PagesFetched, false},
		{"Pages missing", s.PagesMissing, true},
		{"Documents", s.DocumentsCleaned, false},
		{"Dropped as too short", s.DocumentsShort, false},
		{"Malformed records", s.LinesMalformed, true},
		{"Chunks emitted", s.ChunksEmitted, false},
		{"Duplicates dropped", s.DuplicatesDropped, false},
		{"Points ingested", s.PointsIngested, false},
	}

	var rows []summaryRow
	for _, c := range counters {
		if c.n == 0 {
			continue
		}
		rows = append(rows, summaryRow{key: c.key, value: strconv.Itoa(c.n), warn: c.warn})
	}
	rows = append(rows, summaryRow{key: "Duration", value: s.Duration.Round(time.Millisecond).String()})
	return rows
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
