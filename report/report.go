// Package report prints per-file and aggregate size reductions in binary
// units. Output is informational only.
package report

import (
	"fmt"
	"io"
	"math"

	"github.com/fatih/color"

	"github.com/localedata/localemin/types"
)

var units = []string{"B", "KB", "MB"}

// FormatSize renders a byte count in B, KB or MB with one decimal place.
// Counts of 1024 MB and above are printed as a bare number of MB multiples.
func FormatSize(n int64) string {
	num := float64(n)
	for _, unit := range units {
		if math.Abs(num) < 1024.0 {
			return fmt.Sprintf("%3.1f%s", num, unit)
		}
		num /= 1024.0
	}
	return fmt.Sprintf("%.1f", num)
}

// ConsoleReporter writes human-readable lines for each minified file and
// a summary at the end of the run
type ConsoleReporter struct {
	Out io.Writer

	path   *color.Color
	label  *color.Color
	before *color.Color
	after  *color.Color
}

// NewConsoleReporter creates a reporter writing to out. Colour follows
// terminal detection unless noColor is set.
func NewConsoleReporter(out io.Writer, noColor bool) *ConsoleReporter {
	r := &ConsoleReporter{
		Out:    out,
		path:   color.New(color.FgBlue),
		label:  color.New(color.FgHiGreen),
		before: color.New(color.FgYellow),
		after:  color.New(color.FgHiGreen),
	}
	if noColor {
		for _, c := range []*color.Color{r.path, r.label, r.before, r.after} {
			c.DisableColor()
		}
	}
	return r
}

// File prints "<path> : minimized : <before> -> <after>"
func (r *ConsoleReporter) File(rec types.FileRecord) {
	fmt.Fprintf(r.Out, "%s : %s : %s -> %s\n",
		r.path.Sprint(rec.Path),
		r.label.Sprint("minimized"),
		r.before.Sprint(FormatSize(rec.SizeBefore)),
		r.after.Sprint(FormatSize(rec.SizeAfter)))
}

// Summary prints "Total: <before> -> <after>. Compressed: <saved>"
func (r *ConsoleReporter) Summary(totals types.RunTotals) {
	fmt.Fprintf(r.Out, "\nTotal: %s -> %s. Compressed: %s\n",
		r.after.Sprint(FormatSize(totals.Before)),
		r.after.Sprint(FormatSize(totals.After)),
		r.after.Sprint(FormatSize(totals.Saved())))
}

// Pending prints the files a check run found not minified
func (r *ConsoleReporter) Pending(paths []string) {
	for _, p := range paths {
		fmt.Fprintf(r.Out, "%s : %s\n", r.path.Sprint(p), r.before.Sprint("not minified"))
	}
}
