// Package format renders an Executor's result lines to an io.Writer.
// Adapted from the teacher's OutputFormatter/ConsoleFormatter
// (app/formatter.go), narrowed to the one shape spec.md §8's S2-S6
// transcripts require: pipe-separated fields, one result per line, no
// header row and no tab separation (the teacher's FormatTable prints
// both, which this CLI's golden output never does).
package format

import (
	"fmt"
	"io"
)

// ConsoleFormatter writes command output to Writer, one line per
// result row (or per header line, for .dbinfo/.tables).
type ConsoleFormatter struct {
	io.Writer
}

// NewConsoleFormatter builds a ConsoleFormatter writing to w.
func NewConsoleFormatter(w io.Writer) *ConsoleFormatter {
	return &ConsoleFormatter{Writer: w}
}

// WriteLines prints each line followed by a newline, in order.
func (cf *ConsoleFormatter) WriteLines(lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(cf.Writer, line); err != nil {
			return err
		}
	}
	return nil
}
