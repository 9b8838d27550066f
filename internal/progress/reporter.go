// Package progress renders the per-row progress line shown while a
// submission document is assembled.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Func receives the zero-based index of the row being processed and the
// total row count
type Func func(row, total int)

// Percent returns floor(row*100/total), or 0 for an empty dataset
func Percent(row, total int) int {
	if total <= 0 {
		return 0
	}
	return row * 100 / total
}

// Reporter rewrites a single console line for every processed row
type Reporter struct {
	w        io.Writer
	input    string
	now      func() time.Time
	reported bool
}

// NewReporter creates a reporter for the named input file
func NewReporter(w io.Writer, input string) *Reporter {
	return &Reporter{w: w, input: input, now: time.Now}
}

// Report clears the current line and prints the progress for row
func (r *Reporter) Report(row, total int) {
	r.reported = true
	fmt.Fprintf(r.w, "\r\033[K %s\t| tsv->xml | \tProcessing {%s.tsv}\t%d%%",
		r.now().Format("15:04:05"), r.input, Percent(row, total))
}

// Func returns Report as a progress callback
func (r *Reporter) Func() Func {
	return r.Report
}

// Finish ends the progress line if anything was printed
func (r *Reporter) Finish() {
	if r.reported {
		fmt.Fprintln(r.w)
		r.reported = false
	}
}

// Noop is a progress callback that does nothing
func Noop(int, int) {}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
