package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"autogame.dev/internal/logs"
	"autogame.dev/internal/task"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// isTerminal returns true if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// color wraps text in ANSI color if stderr is a terminal.
func color(code, text string) string {
	if !isTerminal(os.Stderr) {
		return text
	}
	return code + text + colorReset
}

// printTable writes rows under a bold header. Columns are sized by display
// width so CJK game names line up.
func printTable(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	// Header: color the words, pad with plain spaces so alignment is exact
	var b strings.Builder
	for i, h := range header {
		b.WriteString(color(colorBold, h))
		if i < len(header)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(h)+2))
		}
	}
	fmt.Fprintln(w, b.String())

	for _, row := range rows {
		b.Reset()
		for i, cell := range row {
			if i < len(row)-1 {
				b.WriteString(runewidth.FillRight(cell, widths[i]+2))
			} else {
				b.WriteString(cell)
			}
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}

// outcomeLabel renders an outcome as a bracketed status tag
func outcomeLabel(o task.Outcome) string {
	switch o {
	case task.OutcomeSuccess:
		return color(colorGreen, "[OK]")
	case task.OutcomeSkipped:
		return color(colorDim, "[SKIP]")
	default:
		return color(colorRed, "[FAIL]")
	}
}

// printBatchResult prints the per-task outcome lines and a summary to stderr
func printBatchResult(r *task.BatchResult) {
	fmt.Fprintln(os.Stderr)
	for _, res := range r.Results {
		line := fmt.Sprintf("  %s %s", outcomeLabel(res.Outcome), res.Name)
		if res.Outcome != task.OutcomeSkipped {
			line += "  " + color(colorDim, logs.FormatDuration(res.Duration))
		}
		if res.Record != nil {
			line += "  " + color(colorCyan, "运行 "+logs.FormatDuration(res.Record.Duration))
		}
		fmt.Fprintln(os.Stderr, line)
		if res.Error != "" {
			fmt.Fprintf(os.Stderr, "      %s\n", color(colorRed, res.Error))
		}
	}

	fmt.Fprintln(os.Stderr)
	if r.Success {
		fmt.Fprintf(os.Stderr, "%s  %d ok, %d skipped  %s\n",
			color(colorGreen+colorBold, "[OK]"),
			r.Succeeded, r.Skipped,
			color(colorDim, logs.FormatDuration(r.Duration)))
	} else {
		fmt.Fprintf(os.Stderr, "%s  %d failed, %d ok, %d skipped  %s\n",
			color(colorRed+colorBold, "[FAIL]"),
			r.Failed, r.Succeeded, r.Skipped,
			color(colorDim, logs.FormatDuration(r.Duration)))
	}
	if r.RunID != "" {
		fmt.Fprintf(os.Stderr, "%s %s\n", color(colorDim, "Run:"), r.RunID)
	}
}
